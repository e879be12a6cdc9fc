package repository

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

const DefaultSortBy = "popularity.desc"

// DiscoverQuery holds discover filters. Nil pointers and empty strings are
// left out of the request.
type DiscoverQuery struct {
	SortBy           string     `json:"sort_by,omitempty"`
	MinRating        *float64   `json:"min_rating,omitempty"`
	MaxRating        *float64   `json:"max_rating,omitempty"`
	MinVoteCount     *int       `json:"min_vote_count,omitempty"`
	ReleaseFrom      *time.Time `json:"release_from,omitempty"`
	ReleaseTo        *time.Time `json:"release_to,omitempty"`
	Year             *int       `json:"year,omitempty"`
	MinRuntime       *int       `json:"min_runtime,omitempty"`
	MaxRuntime       *int       `json:"max_runtime,omitempty"`
	IncludeAdult     bool       `json:"include_adult"`
	OriginCountry    string     `json:"origin_country,omitempty"`
	OriginalLanguage string     `json:"original_language,omitempty"`
	GenreIDs         []int      `json:"genre_ids,omitempty"`
}

// Params renders q as TMDB discover parameters for mediaType. Movies and TV
// use different date parameter names.
func (q DiscoverQuery) Params(mediaType models.MediaType) url.Values {
	v := url.Values{}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	v.Set("sort_by", sortBy)
	v.Set("include_adult", strconv.FormatBool(q.IncludeAdult))

	if q.MinRating != nil {
		v.Set("vote_average.gte", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	if q.MaxRating != nil {
		v.Set("vote_average.lte", strconv.FormatFloat(*q.MaxRating, 'f', -1, 64))
	}
	if q.MinVoteCount != nil {
		v.Set("vote_count.gte", strconv.Itoa(*q.MinVoteCount))
	}

	dateParam, yearParam := "primary_release_date", "primary_release_year"
	if mediaType == models.MediaTypeTV {
		dateParam, yearParam = "first_air_date", "first_air_date_year"
	}
	if q.ReleaseFrom != nil {
		v.Set(dateParam+".gte", q.ReleaseFrom.Format(DateLayout))
	}
	if q.ReleaseTo != nil {
		v.Set(dateParam+".lte", q.ReleaseTo.Format(DateLayout))
	}
	if q.Year != nil {
		v.Set(yearParam, strconv.Itoa(*q.Year))
	}

	if q.MinRuntime != nil {
		v.Set("with_runtime.gte", strconv.Itoa(*q.MinRuntime))
	}
	if q.MaxRuntime != nil {
		v.Set("with_runtime.lte", strconv.Itoa(*q.MaxRuntime))
	}
	if q.OriginCountry != "" {
		v.Set("with_origin_country", q.OriginCountry)
	}
	if q.OriginalLanguage != "" {
		v.Set("with_original_language", q.OriginalLanguage)
	}
	if len(q.GenreIDs) > 0 {
		ids := make([]string, 0, len(q.GenreIDs))
		for _, id := range q.GenreIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		v.Set("with_genres", strings.Join(ids, ","))
	}
	return v
}

type DiscoverRepository struct {
	tmdb *gateway.TMDB
}

func NewDiscoverRepository(tmdb *gateway.TMDB) *DiscoverRepository {
	return &DiscoverRepository{tmdb: tmdb}
}

func (r *DiscoverRepository) Discover(ctx context.Context, mediaType models.MediaType, query DiscoverQuery, page int) result.Result[models.MediaResponseInfo] {
	if mediaType != models.MediaTypeTV {
		mediaType = models.MediaTypeMovie
	}
	resp, err := r.tmdb.Discover(ctx, string(mediaType), query.Params(mediaType), page)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	return result.Success(mapPage(resp, mediaType))
}

func (r *DiscoverRepository) Genres(ctx context.Context, mediaType models.MediaType) result.Result[[]models.Genre] {
	if mediaType != models.MediaTypeTV {
		mediaType = models.MediaTypeMovie
	}
	resp, err := r.tmdb.Genres(ctx, string(mediaType))
	if err != nil {
		return failure[[]models.Genre](err)
	}
	return result.Success(mapGenres(resp.Genres))
}
