// Package handlers implements the shell API served to the UI.
package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/config"
	"github.com/amaumene/cinescope/internal/constants"
	"github.com/amaumene/cinescope/internal/services"
)

// Handler handles HTTP requests for the shell API.
type Handler struct {
	services *services.Container
	config   *config.Config

	// screens serializes launch-then-wait sequences on the shared screens
	screens sync.Mutex
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.handleHealth)

	api := r.Group("/api")

	// Browse
	api.GET("/trending/:type/:window", h.handleTrending)
	api.GET("/popular/:type", h.handlePopular)
	api.GET("/top_rated/:type", h.handleTopRated)
	api.GET("/search", h.handleSearch)
	api.GET("/discover/:type", h.handleDiscover)
	api.GET("/genres/:type", h.handleGenres)

	// Accumulating screens
	screens := api.Group("/screens")
	screens.GET("/home", h.handleHomeScreen)
	screens.POST("/home/:section/more", h.handleHomeMore)
	screens.POST("/home/:section/retry", h.handleHomeRetry)
	screens.GET("/search", h.handleGetSearchScreen)
	screens.PUT("/search", h.handleSearchScreen)
	screens.POST("/search/more", h.handleSearchMore)
	screens.POST("/search/retry", h.handleSearchRetry)
	screens.GET("/discover", h.handleGetDiscoverScreen)
	screens.POST("/discover", h.handleApplyDiscover)
	screens.POST("/discover/more", h.handleDiscoverMore)
	screens.POST("/discover/retry", h.handleDiscoverRetry)

	// Filters
	api.POST("/filters/reduce", h.handleReduceFilters)
	api.GET("/filters", h.handleGetFilters)
	api.POST("/filters/events", h.handleFilterEvent)
	api.GET("/filters/reference", h.handleFilterReference)

	// Media details
	media := api.Group("/media/:type/:id")
	media.GET("", h.handleDetails)
	media.GET("/credits", h.handleCredits)
	media.GET("/images", h.handleImages)
	media.GET("/reviews", h.handleReviews)
	media.GET("/recommendations", h.handleRecommendations)
	media.GET("/state", h.handleAccountState)
	media.POST("/rating", h.handleRate)
	media.DELETE("/rating", h.handleDeleteRating)

	api.GET("/colors", h.handleColors)

	// Session and account
	api.POST("/auth/token", h.handleRequestToken)
	api.POST("/auth/session", h.handleCreateSession)
	api.DELETE("/auth/session", h.handleLogout)
	api.GET("/account", h.handleAccount)
	api.GET("/account/:kind/:type", h.handleCollection)
	api.POST("/account/:kind", h.handleSetCollection)

	// Lists
	api.GET("/lists", h.handleLists)
	api.POST("/lists", h.handleCreateList)
	api.GET("/lists/:id", h.handleListDetails)
	api.DELETE("/lists/:id", h.handleDeleteList)
	api.POST("/lists/:id/items", h.handleAddListItem)
	api.DELETE("/lists/:id/items", h.handleRemoveListItem)

	// Settings
	api.GET("/preferences", h.handleGetPreferences)
	api.PUT("/preferences", h.handleSavePreferences)
	api.GET("/countries", h.handleCountries)
	api.GET("/languages", h.handleLanguages)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    constants.AppName,
		"version": constants.AppVersion,
	})
}
