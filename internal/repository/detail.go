package repository

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/cinescope/internal/database"
	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

// DetailBundle is everything the detail screen shows on first load.
type DetailBundle struct {
	Details models.MediaDetails `json:"details"`
	Credits models.Credits      `json:"credits"`
	Images  models.MediaImages  `json:"images"`
}

type DetailRepository struct {
	tmdb  *gateway.TMDB
	store database.Database
}

func NewDetailRepository(tmdb *gateway.TMDB, store database.Database) *DetailRepository {
	return &DetailRepository{tmdb: tmdb, store: store}
}

func (r *DetailRepository) Details(ctx context.Context, mediaType models.MediaType, id int) result.Result[models.MediaDetails] {
	details, err := r.details(ctx, mediaType, id)
	if err != nil {
		return failure[models.MediaDetails](err)
	}
	return result.Success(details)
}

func (r *DetailRepository) details(ctx context.Context, mediaType models.MediaType, id int) (models.MediaDetails, error) {
	if mediaType == models.MediaTypeTV {
		d, err := r.tmdb.TVDetails(ctx, id)
		if err != nil {
			return models.MediaDetails{}, err
		}
		return mapTVDetails(d), nil
	}
	d, err := r.tmdb.MovieDetails(ctx, id)
	if err != nil {
		return models.MediaDetails{}, err
	}
	return mapMovieDetails(d), nil
}

// Bundle fetches details, credits and images concurrently. The first failure
// cancels the others.
func (r *DetailRepository) Bundle(ctx context.Context, mediaType models.MediaType, id int) result.Result[DetailBundle] {
	var bundle DetailBundle
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := r.details(gctx, mediaType, id)
		bundle.Details = d
		return err
	})
	g.Go(func() error {
		c, err := r.tmdb.Credits(gctx, string(mediaType), id)
		if err != nil {
			return err
		}
		bundle.Credits = mapCredits(c)
		return nil
	})
	g.Go(func() error {
		i, err := r.tmdb.Images(gctx, string(mediaType), id)
		if err != nil {
			return err
		}
		bundle.Images = mapImages(i)
		return nil
	})

	if err := g.Wait(); err != nil {
		return failure[DetailBundle](err)
	}
	return result.Success(bundle)
}

func (r *DetailRepository) Credits(ctx context.Context, mediaType models.MediaType, id int) result.Result[models.Credits] {
	c, err := r.tmdb.Credits(ctx, string(mediaType), id)
	if err != nil {
		return failure[models.Credits](err)
	}
	return result.Success(mapCredits(c))
}

func (r *DetailRepository) Images(ctx context.Context, mediaType models.MediaType, id int) result.Result[models.MediaImages] {
	i, err := r.tmdb.Images(ctx, string(mediaType), id)
	if err != nil {
		return failure[models.MediaImages](err)
	}
	return result.Success(mapImages(i))
}

func (r *DetailRepository) Reviews(ctx context.Context, mediaType models.MediaType, id, page int) result.Result[models.ReviewsResponse] {
	rv, err := r.tmdb.Reviews(ctx, string(mediaType), id, page)
	if err != nil {
		return failure[models.ReviewsResponse](err)
	}
	return result.Success(mapReviews(rv))
}

func (r *DetailRepository) Recommendations(ctx context.Context, mediaType models.MediaType, id, page int) result.Result[models.MediaResponseInfo] {
	resp, err := r.tmdb.Recommendations(ctx, string(mediaType), id, page)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	return result.Success(mapPage(resp, mediaType))
}

func (r *DetailRepository) AccountState(ctx context.Context, mediaType models.MediaType, id int) result.Result[models.AccountState] {
	user, err := r.session()
	if err != nil {
		return failure[models.AccountState](err)
	}
	st, err := r.tmdb.AccountStates(ctx, string(mediaType), id, user.SessionID)
	if err != nil {
		return failure[models.AccountState](err)
	}
	return result.Success(mapAccountState(st))
}

// Rate sets the rating; NotRated deletes it.
func (r *DetailRepository) Rate(ctx context.Context, mediaType models.MediaType, id int, rating models.Rated) result.Empty {
	value, ok := rating.Value()
	if !ok {
		return r.DeleteRating(ctx, mediaType, id)
	}
	user, err := r.session()
	if err != nil {
		return failure[struct{}](err)
	}
	if err := r.tmdb.Rate(ctx, string(mediaType), id, user.SessionID, value); err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *DetailRepository) DeleteRating(ctx context.Context, mediaType models.MediaType, id int) result.Empty {
	user, err := r.session()
	if err != nil {
		return failure[struct{}](err)
	}
	if err := r.tmdb.DeleteRating(ctx, string(mediaType), id, user.SessionID); err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *DetailRepository) session() (*models.User, error) {
	return currentSession(r.store)
}

func currentSession(store database.Database) (*models.User, error) {
	user, err := store.GetUser()
	if err != nil {
		return nil, err
	}
	if user == nil || user.SessionID == "" {
		return nil, errors.New(errors.KindInvalidHeader, ErrNotSignedIn)
	}
	return user, nil
}
