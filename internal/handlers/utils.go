package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/paging"
	"github.com/amaumene/cinescope/internal/result"
)

const kindBadRequest = "BAD_REQUEST"

// statusFor maps an error kind to the HTTP status the shell sees.
func statusFor(kind errors.Kind) int {
	switch kind {
	case errors.KindTooManyRequests:
		return http.StatusTooManyRequests
	case errors.KindRequestTimeout, errors.KindBackendTimeout:
		return http.StatusGatewayTimeout
	case errors.KindNoInternet, errors.KindBackendConnection:
		return http.StatusBadGateway
	case errors.KindInvalidService, errors.KindInvalidHeader:
		return http.StatusUnauthorized
	case errors.KindAPIMaintenance:
		return http.StatusServiceUnavailable
	case errors.KindCustom:
		return http.StatusBadRequest
	}
	if kind.IsLocal() {
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

// fail renders err as {"error": kind, "message": msg}.
func (h *Handler) fail(c *gin.Context, err error) {
	de := errors.Classify(err)
	h.services.Logger.Debugf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, de)
	c.JSON(statusFor(de.Kind), gin.H{"error": de.Kind, "message": de.Error()})
}

func (h *Handler) failState(c *gin.Context, s models.LoadState) bool {
	if s.Status != models.LoadStatusError || s.Err == nil {
		return false
	}
	h.fail(c, s.Err)
	return true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": kindBadRequest, "message": message})
}

// respond writes the value of r, or its error.
func respond[T any](h *Handler, c *gin.Context, r result.Result[T]) {
	v, err := r.Get()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type pageFunc = func(ctx context.Context, page int) result.Result[models.MediaResponseInfo]

// respondPage serves one page of fn through the paging layer, so pages past
// MAX_PAGES come back empty and total_pages is clamped.
func (h *Handler) respondPage(c *gin.Context, page int, fn pageFunc) {
	src := paging.NewSource(paging.Media(fn), h.config.PageCap())
	res := src.Load(c.Request.Context(), paging.LoadParams{Key: &page})
	if res.IsError() {
		h.fail(c, res.Err)
		return
	}
	c.JSON(http.StatusOK, models.MediaResponseInfo{
		Page:         res.Key,
		Results:      res.Data,
		TotalPages:   res.TotalPages,
		TotalResults: res.TotalResults,
	})
}

func respondDone(h *Handler, c *gin.Context, r result.Empty) {
	if err := r.Err(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// mediaTypeParam reads :type, accepting only the listed types.
func mediaTypeParam(c *gin.Context, allowed ...models.MediaType) (models.MediaType, bool) {
	raw := c.Param("type")
	mt, ok := models.ParseMediaType(raw)
	if ok {
		for _, a := range allowed {
			if mt == a {
				return mt, true
			}
		}
	}
	badRequest(c, "unsupported media type: "+raw)
	return "", false
}

func movieOrTV(c *gin.Context) (models.MediaType, bool) {
	return mediaTypeParam(c, models.MediaTypeMovie, models.MediaTypeTV)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid id: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// pageQuery reads ?page, defaulting to 1.
func pageQuery(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		badRequest(c, "invalid page: "+c.Query("page"))
		return 0, false
	}
	return page, true
}
