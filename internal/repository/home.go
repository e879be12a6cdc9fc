package repository

import (
	"context"

	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

type HomeRepository struct {
	tmdb *gateway.TMDB
}

func NewHomeRepository(tmdb *gateway.TMDB) *HomeRepository {
	return &HomeRepository{tmdb: tmdb}
}

func (r *HomeRepository) Trending(ctx context.Context, mediaType models.MediaType, window models.TimeWindow, page int) result.Result[models.MediaResponseInfo] {
	resp, err := r.tmdb.Trending(ctx, string(mediaType), string(window), page)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	fallback := mediaType
	if fallback == models.MediaTypeAll {
		fallback = models.MediaTypeMovie
	}
	return result.Success(mapPage(resp, fallback))
}

func (r *HomeRepository) Popular(ctx context.Context, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo] {
	resp, err := r.tmdb.Popular(ctx, string(mediaType), page)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	return result.Success(mapPage(resp, mediaType))
}

func (r *HomeRepository) TopRated(ctx context.Context, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo] {
	resp, err := r.tmdb.TopRated(ctx, string(mediaType), page)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	return result.Success(mapPage(resp, mediaType))
}
