package repository

import (
	"context"

	"github.com/amaumene/cinescope/internal/database"
	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
	"github.com/amaumene/cinescope/pkg/logger"
)

// Collection names an account collection.
type Collection string

const (
	CollectionWatchlist Collection = "watchlist"
	CollectionFavorite  Collection = "favorite"
)

// UserRepository owns the session lifecycle and the account's collections
// and lists. The session is persisted in the local store.
type UserRepository struct {
	tmdb   *gateway.TMDB
	store  database.Database
	logger logger.Logger
}

func NewUserRepository(tmdb *gateway.TMDB, store database.Database, log logger.Logger) *UserRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &UserRepository{tmdb: tmdb, store: store, logger: log}
}

// CreateRequestToken starts the login flow; the user approves the token on
// the TMDB site before CreateSession is called.
func (r *UserRepository) CreateRequestToken(ctx context.Context) result.Result[string] {
	tok, err := r.tmdb.CreateRequestToken(ctx)
	if err != nil {
		return failure[string](err)
	}
	return result.Success(tok.RequestToken)
}

// CreateSession exchanges an approved token for a session, loads the account
// and stores it as the current user.
func (r *UserRepository) CreateSession(ctx context.Context, requestToken string) result.Result[models.User] {
	sess, err := r.tmdb.CreateSession(ctx, requestToken)
	if err != nil {
		return failure[models.User](err)
	}

	account, err := r.tmdb.Account(ctx, sess.SessionID)
	if err != nil {
		return failure[models.User](err)
	}

	user := mapUser(account, sess.SessionID)
	if err := r.store.SaveUser(user); err != nil {
		return failure[models.User](err)
	}
	r.logger.Infof("[User] signed in as %s", user.Username)
	return result.Success(*user)
}

func (r *UserRepository) CurrentUser() result.Result[*models.User] {
	user, err := r.store.GetUser()
	if err != nil {
		return failure[*models.User](err)
	}
	return result.Success(user)
}

// Logout deletes the remote session and always clears the local user, even
// when the remote call fails.
func (r *UserRepository) Logout(ctx context.Context) result.Empty {
	user, err := r.store.GetUser()
	if err != nil {
		return failure[struct{}](err)
	}
	if user == nil {
		return result.Done()
	}

	remoteErr := r.tmdb.DeleteSession(ctx, user.SessionID)
	if err := r.store.DeleteUser(); err != nil {
		return failure[struct{}](err)
	}
	if remoteErr != nil {
		r.logger.Warnf("[User] failed to delete remote session: %v", remoteErr)
	}
	return result.Done()
}

// VerifySession checks the stored session against TMDB and reports whether
// it is still valid. A session the server rejects is dropped locally; a
// valid one has its account details refreshed. Transport failures keep the
// session and return the error.
func (r *UserRepository) VerifySession(ctx context.Context) result.Result[bool] {
	user, err := r.store.GetUser()
	if err != nil {
		return failure[bool](err)
	}
	if user == nil {
		return result.Success(false)
	}

	account, err := r.tmdb.Account(ctx, user.SessionID)
	if err != nil {
		de := errors.Classify(err)
		if de.Kind != errors.KindInvalidHeader {
			return result.Failure[bool](de)
		}
		if err := r.store.DeleteUser(); err != nil {
			return failure[bool](err)
		}
		r.logger.Warnf("[User] session for %s was revoked, signed out", user.Username)
		return result.Success(false)
	}

	refreshed := mapUser(account, user.SessionID)
	refreshed.AccountObjectID = user.AccountObjectID
	if err := r.store.SaveUser(refreshed); err != nil {
		return failure[bool](err)
	}
	return result.Success(true)
}

func (r *UserRepository) Watchlist(ctx context.Context, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo] {
	return r.collection(ctx, CollectionWatchlist, mediaType, page)
}

func (r *UserRepository) Favorites(ctx context.Context, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo] {
	return r.collection(ctx, CollectionFavorite, mediaType, page)
}

func (r *UserRepository) Collection(ctx context.Context, kind Collection, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo] {
	return r.collection(ctx, kind, mediaType, page)
}

func (r *UserRepository) collection(ctx context.Context, kind Collection, mediaType models.MediaType, page int) result.Result[models.MediaResponseInfo] {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	if mediaType != models.MediaTypeTV {
		mediaType = models.MediaTypeMovie
	}
	resp, err := r.tmdb.AccountMedia(ctx, user.AccountID, string(kind), accountMedia(mediaType), user.SessionID, page)
	if err != nil {
		return failure[models.MediaResponseInfo](err)
	}
	return result.Success(mapPage(resp, mediaType))
}

func (r *UserRepository) SetWatchlist(ctx context.Context, mediaType models.MediaType, mediaID int, on bool) result.Empty {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[struct{}](err)
	}
	err = r.tmdb.SetWatchlist(ctx, user.AccountID, user.SessionID, models.TMDBWatchlistRequest{
		MediaType: string(mediaType),
		MediaID:   mediaID,
		Watchlist: on,
	})
	if err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *UserRepository) SetFavorite(ctx context.Context, mediaType models.MediaType, mediaID int, on bool) result.Empty {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[struct{}](err)
	}
	err = r.tmdb.SetFavorite(ctx, user.AccountID, user.SessionID, models.TMDBFavoriteRequest{
		MediaType: string(mediaType),
		MediaID:   mediaID,
		Favorite:  on,
	})
	if err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *UserRepository) MyLists(ctx context.Context, page int) result.Result[models.MyListsResponse] {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[models.MyListsResponse](err)
	}
	resp, err := r.tmdb.AccountLists(ctx, user.AccountID, user.SessionID, page)
	if err != nil {
		return failure[models.MyListsResponse](err)
	}
	return result.Success(mapLists(resp))
}

// CreateList returns the new list id.
func (r *UserRepository) CreateList(ctx context.Context, name, description string) result.Result[int] {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[int](err)
	}
	resp, err := r.tmdb.CreateList(ctx, user.SessionID, models.TMDBCreateListRequest{
		Name:        name,
		Description: description,
		Language:    user.Language,
	})
	if err != nil {
		return failure[int](err)
	}
	return result.Success(resp.ListID)
}

func (r *UserRepository) DeleteList(ctx context.Context, listID int) result.Empty {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[struct{}](err)
	}
	if err := r.tmdb.DeleteList(ctx, listID, user.SessionID); err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *UserRepository) ListDetails(ctx context.Context, listID, page int) result.Result[models.ListDetails] {
	d, err := r.tmdb.ListDetails(ctx, listID, page)
	if err != nil {
		return failure[models.ListDetails](err)
	}
	return result.Success(mapListDetails(d))
}

func (r *UserRepository) AddToList(ctx context.Context, listID, mediaID int) result.Empty {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[struct{}](err)
	}
	if err := r.tmdb.AddListItem(ctx, listID, mediaID, user.SessionID); err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *UserRepository) RemoveFromList(ctx context.Context, listID, mediaID int) result.Empty {
	user, err := currentSession(r.store)
	if err != nil {
		return failure[struct{}](err)
	}
	if err := r.tmdb.RemoveListItem(ctx, listID, mediaID, user.SessionID); err != nil {
		return failure[struct{}](err)
	}
	return result.Done()
}

func (r *UserRepository) ListContains(ctx context.Context, listID, mediaID int) result.Result[bool] {
	st, err := r.tmdb.ListItemStatus(ctx, listID, mediaID)
	if err != nil {
		return failure[bool](err)
	}
	return result.Success(st.ItemPresent)
}
