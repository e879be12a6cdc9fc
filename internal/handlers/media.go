package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

// handleDetails loads the full detail screen: details, credits, images,
// account state, first reviews page, recommendations and, when enabled,
// dominant colors.
func (h *Handler) handleDetails(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	vm := h.services.NewDetail()
	defer vm.Close()
	vm.Load(mediaType, id)
	vm.Wait()

	detail := vm.State()
	if h.failState(c, detail.Status) {
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) handleCredits(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(h, c, h.services.Detail.Credits(c.Request.Context(), mediaType, id))
}

func (h *Handler) handleImages(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(h, c, h.services.Detail.Images(c.Request.Context(), mediaType, id))
}

func (h *Handler) handleReviews(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	respond(h, c, h.services.Detail.Reviews(c.Request.Context(), mediaType, id, page))
}

func (h *Handler) handleRecommendations(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
		return h.services.Detail.Recommendations(ctx, mediaType, id, page)
	})
}

func (h *Handler) handleAccountState(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respond(h, c, h.services.Detail.AccountState(c.Request.Context(), mediaType, id))
}

type rateRequest struct {
	Value float64 `json:"value"`
}

func (h *Handler) handleRate(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rating, err := models.RatedValue(req.Value)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	respondDone(h, c, h.services.Detail.Rate(c.Request.Context(), mediaType, id, rating))
}

func (h *Handler) handleDeleteRating(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	respondDone(h, c, h.services.Detail.DeleteRating(c.Request.Context(), mediaType, id))
}

// handleColors extracts the dominant colors of ?url. Extraction failures
// are not errors: they render 404 so the shell keeps its default theme.
func (h *Handler) handleColors(c *gin.Context) {
	raw := c.Query("url")
	u, err := url.Parse(raw)
	if raw == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		badRequest(c, "url must be an absolute http(s) URL")
		return
	}

	colors := h.services.Colors.CalculateDominantColor(c.Request.Context(), raw, h.config.ColorCacheSize)
	if colors == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NO_COLORS", "message": "no usable colors in image"})
		return
	}
	c.JSON(http.StatusOK, colors)
}
