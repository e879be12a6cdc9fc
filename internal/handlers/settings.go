package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/models"
)

func (h *Handler) handleGetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Preferences.State().Preferences)
}

// handleSavePreferences replaces the stored preferences. Fields left out of
// the body keep their current value.
func (h *Handler) handleSavePreferences(c *gin.Context) {
	prefs := h.services.Preferences.State().Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, err.Error())
		return
	}
	switch prefs.Theme {
	case models.ThemeSystem, models.ThemeLight, models.ThemeDark:
	default:
		badRequest(c, "unknown theme: "+string(prefs.Theme))
		return
	}

	if err := h.services.Preferences.Save(prefs); err != nil {
		h.fail(c, err)
		return
	}
	h.services.Logger.Infof("[API] preferences saved (language %s, region %s)", prefs.Language, prefs.Region)
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) handleCountries(c *gin.Context) {
	respond(h, c, h.services.Settings.Countries(c.Request.Context()))
}

func (h *Handler) handleLanguages(c *gin.Context) {
	respond(h, c, h.services.Settings.Languages(c.Request.Context()))
}
