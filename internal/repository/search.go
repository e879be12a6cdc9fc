package repository

import (
	"context"
	"strings"

	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

type SearchRepository struct {
	tmdb *gateway.TMDB
}

func NewSearchRepository(tmdb *gateway.TMDB) *SearchRepository {
	return &SearchRepository{tmdb: tmdb}
}

// SearchMulti searches movies, shows and people at once. A blank query yields
// an empty page without calling the API.
func (r *SearchRepository) SearchMulti(ctx context.Context, query string, page int, includeAdult bool) result.Result[models.MediaResponseInfo] {
	return r.SearchByType(ctx, models.MediaTypeAll, query, page, includeAdult)
}

func (r *SearchRepository) SearchByType(ctx context.Context, mediaType models.MediaType, query string, page int, includeAdult bool) result.Result[models.MediaResponseInfo] {
	query = strings.TrimSpace(query)
	if query == "" {
		return result.Success(models.MediaResponseInfo{Page: 1, Results: []models.MediaInfo{}})
	}

	kind := string(mediaType)
	fallback := mediaType
	if mediaType == models.MediaTypeAll || mediaType == "" {
		kind = "multi"
		fallback = models.MediaTypeMovie
	}

	resp, err := r.tmdb.Search(ctx, kind, query, page, includeAdult)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	return result.Success(mapPage(resp, fallback))
}
