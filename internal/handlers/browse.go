package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/cinescope/internal/constants"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

func (h *Handler) handleTrending(c *gin.Context) {
	mediaType, ok := mediaTypeParam(c, models.MediaTypeAll, models.MediaTypeMovie, models.MediaTypeTV, models.MediaTypePerson)
	if !ok {
		return
	}
	window := models.TimeWindow(c.Param("window"))
	if window != models.TimeWindowDay && window != models.TimeWindowWeek {
		badRequest(c, "window must be day or week")
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
		return h.services.Home.Trending(ctx, mediaType, window, page)
	})
}

func (h *Handler) handlePopular(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
		return h.services.Home.Popular(ctx, mediaType, page)
	})
}

func (h *Handler) handleTopRated(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
		return h.services.Home.TopRated(ctx, mediaType, page)
	})
}

// handleSearch serves ?query=&type=&page=&include_adult=. A missing type
// searches movies, shows and people together.
func (h *Handler) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		badRequest(c, "query is required")
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	includeAdult := h.services.Preferences.State().Preferences.ShowAdult
	if v := c.Query("include_adult"); v != "" {
		includeAdult = v == "true"
	}

	h.services.Logger.Debugf("[API] search %q page %d", query, page)

	switch t := c.Query("type"); t {
	case "", "multi", string(models.MediaTypeAll):
		h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
			return h.services.Search.SearchMulti(ctx, query, page, includeAdult)
		})
	default:
		mediaType, ok := models.ParseMediaType(t)
		if !ok {
			badRequest(c, "unsupported media type: "+t)
			return
		}
		h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
			return h.services.Search.SearchByType(ctx, mediaType, query, page, includeAdult)
		})
	}
}

// handleDiscover runs the applied filters held by the filters screen.
// ?sort_by and ?with_genres (comma separated ids) refine the query.
func (h *Handler) handleDiscover(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	query := h.services.Filters.Query()
	if sortBy := c.Query("sort_by"); sortBy != "" {
		query.SortBy = sortBy
	}
	genres, ok := genreQuery(c, mediaType)
	if !ok {
		return
	}
	query.GenreIDs = genres

	h.respondPage(c, page, func(ctx context.Context, page int) result.Result[models.MediaResponseInfo] {
		return h.services.Discover.Discover(ctx, mediaType, query, page)
	})
}

func genreQuery(c *gin.Context, mediaType models.MediaType) ([]int, bool) {
	raw := c.Query("with_genres")
	if raw == "" {
		return nil, true
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if !constants.IsKnownGenre(string(mediaType), part) {
			badRequest(c, "unknown genre: "+part)
			return nil, false
		}
		id, _ := strconv.Atoi(part)
		ids = append(ids, id)
	}
	return ids, true
}

func (h *Handler) handleGenres(c *gin.Context) {
	mediaType, ok := movieOrTV(c)
	if !ok {
		return
	}
	respond(h, c, h.services.Discover.Genres(c.Request.Context(), mediaType))
}
