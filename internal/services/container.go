// Package services wires the application together.
package services

import (
	"fmt"
	"time"

	"github.com/amaumene/cinescope/internal/colors"
	"github.com/amaumene/cinescope/internal/config"
	"github.com/amaumene/cinescope/internal/constants"
	"github.com/amaumene/cinescope/internal/database"
	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/repository"
	"github.com/amaumene/cinescope/internal/viewmodel"
	"github.com/amaumene/cinescope/pkg/doh"
	"github.com/amaumene/cinescope/pkg/httputil"
	"github.com/amaumene/cinescope/pkg/logger"
	"github.com/amaumene/cinescope/pkg/ratelimiter"
)

// Container holds all application services for dependency injection.
type Container struct {
	Config *config.Config
	Logger logger.Logger
	DB     database.Database
	TMDB   *gateway.TMDB

	Home     *repository.HomeRepository
	Search   *repository.SearchRepository
	Discover *repository.DiscoverRepository
	Detail   *repository.DetailRepository
	User     *repository.UserRepository
	Settings *repository.SettingsRepository

	Colors     *colors.Extractor
	ColorStore *colors.RedisStore
	Cleanup    *CleanupService

	// App-scoped screens driven through the shell API.
	HomeScreen     *viewmodel.HomeViewModel
	SearchScreen   *viewmodel.SearchViewModel
	DiscoverScreen *viewmodel.DiscoverViewModel
	Filters        *viewmodel.FiltersViewModel
	Lists          *viewmodel.ListsViewModel
	Auth           *viewmodel.AuthViewModel
	Preferences    *viewmodel.SettingsViewModel
}

// NewContainer builds every service from cfg. The caller owns Close.
func NewContainer(cfg *config.Config, log logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := database.NewBolt(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Infof("[App] bbolt database opened at %s", cfg.DatabasePath)

	var resolver *doh.Resolver
	if cfg.DOHURL != "" {
		resolver = doh.NewResolver(cfg.DOHURL, log)
	}
	apiClient := httputil.NewResolvingClient(constants.RequestTimeout, resolver)
	imageClient := httputil.NewResolvingClient(constants.ImageTimeout, resolver)

	tmdb := gateway.NewTMDB(gateway.Config{
		BaseURL:     cfg.TMDBBaseURL,
		AccessToken: cfg.TMDBAccessToken,
		APIKey:      cfg.TMDBAPIKey,
		Language:    cfg.Language,
		Region:      cfg.Region,
	}, apiClient, log)
	tmdb.SetRateLimiter(ratelimiter.NewTokenBucket(constants.TMDBRateBurst, constants.TMDBRateLimit))

	c := &Container{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		TMDB:     tmdb,
		Home:     repository.NewHomeRepository(tmdb),
		Search:   repository.NewSearchRepository(tmdb),
		Discover: repository.NewDiscoverRepository(tmdb),
		Detail:   repository.NewDetailRepository(tmdb, db),
		User:     repository.NewUserRepository(tmdb, db, log),
		Settings: repository.NewSettingsRepository(tmdb, db),
		Colors:   colors.NewExtractor(colors.NewImageLoader(imageClient), log),
	}

	if cfg.RedisURL != "" {
		store, err := colors.NewRedisStore(cfg.RedisURL, time.Duration(constants.ColorRedisTTL)*time.Hour)
		if err != nil {
			// the shared tier is optional
			log.Warnf("[Colors] redis unavailable, using the in-process cache only: %v", err)
		} else {
			c.ColorStore = store
			c.Colors.SetSharedStore(store)
			log.Infof("[Colors] shared color cache enabled")
		}
	}

	// saved preferences win over the configured locale
	if prefs, err := db.GetPreferences(); err == nil && prefs != models.DefaultPreferences() && prefs.Language != "" {
		tmdb.SetLocale(prefs.Language, prefs.Region)
	}

	c.Filters = viewmodel.NewFiltersViewModel(c.Settings)
	c.Lists = viewmodel.NewListsViewModel(c.User)
	c.Auth = viewmodel.NewAuthViewModel(c.User)
	c.Preferences = viewmodel.NewSettingsViewModel(c.Settings)
	c.HomeScreen = viewmodel.NewHomeViewModel(c.Home, cfg.PageCap())
	c.SearchScreen = viewmodel.NewSearchViewModel(c.Search, cfg.PageCap(), c.Preferences.State().Preferences.ShowAdult)
	c.DiscoverScreen = viewmodel.NewDiscoverViewModel(c.Discover, cfg.PageCap())
	c.Cleanup = NewCleanupService(c.User, log, c.Auth.Reload)

	log.Infof("[App] services initialized successfully")
	return c, nil
}

// NewDetail creates a detail screen bound to this container.
func (c *Container) NewDetail() *viewmodel.DetailViewModel {
	return viewmodel.NewDetailViewModel(c.Detail, c.User, c.Colors, viewmodel.DetailOptions{
		ImageBase:      c.Config.TMDBImageBase,
		ColorCacheSize: c.Config.ColorCacheSize,
		MaxPages:       c.Config.PageCap(),
		DynamicColors:  c.Preferences.State().Preferences.DynamicColors,
	})
}

// Close stops the screens and releases storage and connections.
func (c *Container) Close() error {
	c.Cleanup.Stop()
	c.HomeScreen.Close()
	c.SearchScreen.Close()
	c.DiscoverScreen.Close()
	c.Filters.Close()
	c.Lists.Close()
	c.Auth.Close()
	c.Preferences.Close()

	if c.ColorStore != nil {
		if err := c.ColorStore.Close(); err != nil {
			c.Logger.Warnf("[Colors] failed to close redis: %v", err)
		}
	}
	return c.DB.Close()
}
