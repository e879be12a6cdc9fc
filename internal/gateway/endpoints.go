package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amaumene/cinescope/internal/models"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func withSession(q url.Values, sessionID string) url.Values {
	if q == nil {
		q = url.Values{}
	}
	q.Set("session_id", sessionID)
	return q
}

// Catalog

func (t *TMDB) Trending(ctx context.Context, mediaType, window string, page int) (*models.TMDBPagedResponse, error) {
	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/trending/{media_type}/{time_window}",
		PathParams: map[string]string{"media_type": mediaType, "time_window": window},
		Query:      pageQuery(page),
	}, &out)
	return &out, err
}

func (t *TMDB) Popular(ctx context.Context, mediaType string, page int) (*models.TMDBPagedResponse, error) {
	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/popular",
		PathParams: map[string]string{"media_type": mediaType},
		Query:      pageQuery(page),
	}, &out)
	return &out, err
}

func (t *TMDB) TopRated(ctx context.Context, mediaType string, page int) (*models.TMDBPagedResponse, error) {
	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/top_rated",
		PathParams: map[string]string{"media_type": mediaType},
		Query:      pageQuery(page),
	}, &out)
	return &out, err
}

// Search queries /search/{kind} where kind is multi, movie, tv or person.
func (t *TMDB) Search(ctx context.Context, kind, query string, page int, includeAdult bool) (*models.TMDBPagedResponse, error) {
	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", strconv.FormatBool(includeAdult))

	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/search/{kind}",
		PathParams: map[string]string{"kind": kind},
		Query:      q,
	}, &out)
	return &out, err
}

// Discover queries /discover/{movie|tv}; params are TMDB discover filters.
func (t *TMDB) Discover(ctx context.Context, mediaType string, params url.Values, page int) (*models.TMDBPagedResponse, error) {
	q := pageQuery(page)
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}

	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/discover/{media_type}",
		PathParams: map[string]string{"media_type": mediaType},
		Query:      q,
	}, &out)
	return &out, err
}

// Detail

func (t *TMDB) MovieDetails(ctx context.Context, id int) (*models.TMDBMovieDetails, error) {
	var out models.TMDBMovieDetails
	err := t.Do(ctx, Request{
		Path:       "/movie/{id}",
		PathParams: map[string]string{"id": itoa(id)},
	}, &out)
	return &out, err
}

func (t *TMDB) TVDetails(ctx context.Context, id int) (*models.TMDBTVDetails, error) {
	var out models.TMDBTVDetails
	err := t.Do(ctx, Request{
		Path:       "/tv/{id}",
		PathParams: map[string]string{"id": itoa(id)},
		Query:      url.Values{"append_to_response": {"external_ids"}},
	}, &out)
	return &out, err
}

func (t *TMDB) Credits(ctx context.Context, mediaType string, id int) (*models.TMDBCredits, error) {
	var out models.TMDBCredits
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/{id}/credits",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
	}, &out)
	return &out, err
}

func (t *TMDB) Images(ctx context.Context, mediaType string, id int) (*models.TMDBImages, error) {
	var out models.TMDBImages
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/{id}/images",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
		// untagged artwork is dropped unless null is listed
		Query: url.Values{"include_image_language": {"en,null"}},
	}, &out)
	return &out, err
}

func (t *TMDB) Reviews(ctx context.Context, mediaType string, id, page int) (*models.TMDBReviewsResponse, error) {
	var out models.TMDBReviewsResponse
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/{id}/reviews",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
		Query:      pageQuery(page),
	}, &out)
	return &out, err
}

func (t *TMDB) Recommendations(ctx context.Context, mediaType string, id, page int) (*models.TMDBPagedResponse, error) {
	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/{id}/recommendations",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
		Query:      pageQuery(page),
	}, &out)
	return &out, err
}

func (t *TMDB) AccountStates(ctx context.Context, mediaType string, id int, sessionID string) (*models.TMDBAccountStates, error) {
	var out models.TMDBAccountStates
	err := t.Do(ctx, Request{
		Path:       "/{media_type}/{id}/account_states",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
		Query:      withSession(nil, sessionID),
	}, &out)
	return &out, err
}

func (t *TMDB) Rate(ctx context.Context, mediaType string, id int, sessionID string, value float64) error {
	return t.Do(ctx, Request{
		Method:     http.MethodPost,
		Path:       "/{media_type}/{id}/rating",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
		Query:      withSession(nil, sessionID),
		Body:       models.TMDBRatingRequest{Value: value},
	}, nil)
}

func (t *TMDB) DeleteRating(ctx context.Context, mediaType string, id int, sessionID string) error {
	return t.Do(ctx, Request{
		Method:     http.MethodDelete,
		Path:       "/{media_type}/{id}/rating",
		PathParams: map[string]string{"media_type": mediaType, "id": itoa(id)},
		Query:      withSession(nil, sessionID),
	}, nil)
}

// Configuration

func (t *TMDB) Countries(ctx context.Context) ([]models.TMDBCountry, error) {
	var out []models.TMDBCountry
	err := t.Do(ctx, Request{Path: "/configuration/countries"}, &out)
	return out, err
}

func (t *TMDB) Languages(ctx context.Context) ([]models.TMDBLanguage, error) {
	var out []models.TMDBLanguage
	err := t.Do(ctx, Request{Path: "/configuration/languages"}, &out)
	return out, err
}

func (t *TMDB) Genres(ctx context.Context, mediaType string) (*models.TMDBGenreResponse, error) {
	var out models.TMDBGenreResponse
	err := t.Do(ctx, Request{
		Path:       "/genre/{media_type}/list",
		PathParams: map[string]string{"media_type": mediaType},
	}, &out)
	return &out, err
}

// Authentication

func (t *TMDB) CreateRequestToken(ctx context.Context) (*models.TMDBRequestToken, error) {
	var out models.TMDBRequestToken
	err := t.Do(ctx, Request{Path: "/authentication/token/new"}, &out)
	return &out, err
}

func (t *TMDB) CreateSession(ctx context.Context, requestToken string) (*models.TMDBSession, error) {
	var out models.TMDBSession
	err := t.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/authentication/session/new",
		Body:   models.TMDBSessionRequest{RequestToken: requestToken},
	}, &out)
	return &out, err
}

func (t *TMDB) DeleteSession(ctx context.Context, sessionID string) error {
	return t.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/authentication/session",
		Body:   models.TMDBDeleteSessionRequest{SessionID: sessionID},
	}, nil)
}

func (t *TMDB) Account(ctx context.Context, sessionID string) (*models.TMDBAccount, error) {
	var out models.TMDBAccount
	err := t.Do(ctx, Request{
		Path:  "/account",
		Query: withSession(nil, sessionID),
	}, &out)
	return &out, err
}

// Account collections

// AccountMedia lists /account/{id}/{kind}/{media} where kind is watchlist or
// favorite and media is movies or tv.
func (t *TMDB) AccountMedia(ctx context.Context, accountID int, kind, media, sessionID string, page int) (*models.TMDBPagedResponse, error) {
	var out models.TMDBPagedResponse
	err := t.Do(ctx, Request{
		Path:       "/account/{account_id}/{kind}/{media}",
		PathParams: map[string]string{"account_id": itoa(accountID), "kind": kind, "media": media},
		Query:      withSession(pageQuery(page), sessionID),
	}, &out)
	return &out, err
}

func (t *TMDB) SetWatchlist(ctx context.Context, accountID int, sessionID string, body models.TMDBWatchlistRequest) error {
	return t.Do(ctx, Request{
		Method:     http.MethodPost,
		Path:       "/account/{account_id}/watchlist",
		PathParams: map[string]string{"account_id": itoa(accountID)},
		Query:      withSession(nil, sessionID),
		Body:       body,
	}, nil)
}

func (t *TMDB) SetFavorite(ctx context.Context, accountID int, sessionID string, body models.TMDBFavoriteRequest) error {
	return t.Do(ctx, Request{
		Method:     http.MethodPost,
		Path:       "/account/{account_id}/favorite",
		PathParams: map[string]string{"account_id": itoa(accountID)},
		Query:      withSession(nil, sessionID),
		Body:       body,
	}, nil)
}

func (t *TMDB) AccountLists(ctx context.Context, accountID int, sessionID string, page int) (*models.TMDBListsResponse, error) {
	var out models.TMDBListsResponse
	err := t.Do(ctx, Request{
		Path:       "/account/{account_id}/lists",
		PathParams: map[string]string{"account_id": itoa(accountID)},
		Query:      withSession(pageQuery(page), sessionID),
	}, &out)
	return &out, err
}

// Lists

func (t *TMDB) CreateList(ctx context.Context, sessionID string, body models.TMDBCreateListRequest) (*models.TMDBCreateListResponse, error) {
	var out models.TMDBCreateListResponse
	err := t.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/list",
		Query:  withSession(nil, sessionID),
		Body:   body,
	}, &out)
	return &out, err
}

func (t *TMDB) ListDetails(ctx context.Context, listID int, page int) (*models.TMDBListDetails, error) {
	var out models.TMDBListDetails
	err := t.Do(ctx, Request{
		Path:       "/list/{list_id}",
		PathParams: map[string]string{"list_id": itoa(listID)},
		Query:      pageQuery(page),
	}, &out)
	return &out, err
}

func (t *TMDB) DeleteList(ctx context.Context, listID int, sessionID string) error {
	return t.Do(ctx, Request{
		Method:     http.MethodDelete,
		Path:       "/list/{list_id}",
		PathParams: map[string]string{"list_id": itoa(listID)},
		Query:      withSession(nil, sessionID),
	}, nil)
}

func (t *TMDB) AddListItem(ctx context.Context, listID, mediaID int, sessionID string) error {
	return t.Do(ctx, Request{
		Method:     http.MethodPost,
		Path:       "/list/{list_id}/add_item",
		PathParams: map[string]string{"list_id": itoa(listID)},
		Query:      withSession(nil, sessionID),
		Body:       models.TMDBListItemRequest{MediaID: mediaID},
	}, nil)
}

func (t *TMDB) RemoveListItem(ctx context.Context, listID, mediaID int, sessionID string) error {
	return t.Do(ctx, Request{
		Method:     http.MethodPost,
		Path:       "/list/{list_id}/remove_item",
		PathParams: map[string]string{"list_id": itoa(listID)},
		Query:      withSession(nil, sessionID),
		Body:       models.TMDBListItemRequest{MediaID: mediaID},
	}, nil)
}

func (t *TMDB) ListItemStatus(ctx context.Context, listID, mediaID int) (*models.TMDBItemStatus, error) {
	var out models.TMDBItemStatus
	err := t.Do(ctx, Request{
		Path:       "/list/{list_id}/item_status",
		PathParams: map[string]string{"list_id": itoa(listID)},
		Query:      url.Values{"movie_id": {itoa(mediaID)}},
	}, &out)
	return &out, err
}
