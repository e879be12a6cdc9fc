package repository

import (
	"context"

	"github.com/amaumene/cinescope/internal/database"
	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

type SettingsRepository struct {
	tmdb  *gateway.TMDB
	store database.Database
}

func NewSettingsRepository(tmdb *gateway.TMDB, store database.Database) *SettingsRepository {
	return &SettingsRepository{tmdb: tmdb, store: store}
}

// Countries returns every country sorted by display name.
func (r *SettingsRepository) Countries(ctx context.Context) result.Result[[]models.Country] {
	resp, err := r.tmdb.Countries(ctx)
	if err != nil {
		return failure[[]models.Country](err)
	}
	return result.Success(mapCountries(resp))
}

// Languages returns every language sorted by display name.
func (r *SettingsRepository) Languages(ctx context.Context) result.Result[[]models.Language] {
	resp, err := r.tmdb.Languages(ctx)
	if err != nil {
		return failure[[]models.Language](err)
	}
	return result.Success(mapLanguages(resp))
}

func (r *SettingsRepository) Preferences() result.Result[models.Preferences] {
	prefs, err := r.store.GetPreferences()
	return result.From(prefs, err)
}

// SavePreferences stores prefs and applies the locale to later requests.
func (r *SettingsRepository) SavePreferences(prefs models.Preferences) result.Empty {
	if err := r.store.SavePreferences(prefs); err != nil {
		return failure[struct{}](err)
	}
	r.tmdb.SetLocale(prefs.Language, prefs.Region)
	return result.Done()
}
