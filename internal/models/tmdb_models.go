package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TMDBMediaResult is a row from trending, search, discover and account
// endpoints. Movies carry title/release_date, TV name/first_air_date and
// people name/profile_path.
type TMDBMediaResult struct {
	ID                 int               `json:"id"`
	MediaType          string            `json:"media_type"`
	Title              string            `json:"title"`
	OriginalTitle      string            `json:"original_title"`
	Name               string            `json:"name"`
	OriginalName       string            `json:"original_name"`
	Overview           string            `json:"overview"`
	PosterPath         *string           `json:"poster_path"`
	BackdropPath       *string           `json:"backdrop_path"`
	ProfilePath        *string           `json:"profile_path"`
	ReleaseDate        string            `json:"release_date"`
	FirstAirDate       string            `json:"first_air_date"`
	VoteAverage        float64           `json:"vote_average"`
	VoteCount          int               `json:"vote_count"`
	Popularity         float64           `json:"popularity"`
	GenreIDs           []int             `json:"genre_ids"`
	OriginalLanguage   string            `json:"original_language"`
	OriginCountry      []string          `json:"origin_country"`
	Adult              bool              `json:"adult"`
	KnownForDepartment string            `json:"known_for_department"`
	KnownFor           []TMDBMediaResult `json:"known_for"`
}

type TMDBPagedResponse struct {
	Page         int               `json:"page"`
	Results      []TMDBMediaResult `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDBGenreResponse struct {
	Genres []TMDBGenre `json:"genres"`
}

type TMDBProductionCountry struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type TMDBSpokenLanguage struct {
	ISO         string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type TMDBMovieDetails struct {
	ID                  int                     `json:"id"`
	IMDBId              string                  `json:"imdb_id"`
	Title               string                  `json:"title"`
	OriginalTitle       string                  `json:"original_title"`
	Tagline             string                  `json:"tagline"`
	Overview            string                  `json:"overview"`
	Status              string                  `json:"status"`
	Homepage            string                  `json:"homepage"`
	PosterPath          *string                 `json:"poster_path"`
	BackdropPath        *string                 `json:"backdrop_path"`
	ReleaseDate         string                  `json:"release_date"`
	Runtime             *int                    `json:"runtime"`
	VoteAverage         float64                 `json:"vote_average"`
	VoteCount           int                     `json:"vote_count"`
	Genres              []TMDBGenre             `json:"genres"`
	OriginalLanguage    string                  `json:"original_language"`
	OriginCountry       []string                `json:"origin_country"`
	ProductionCountries []TMDBProductionCountry `json:"production_countries"`
	SpokenLanguages     []TMDBSpokenLanguage    `json:"spoken_languages"`
}

type TMDBTVDetails struct {
	ID                  int                     `json:"id"`
	Name                string                  `json:"name"`
	OriginalName        string                  `json:"original_name"`
	Tagline             string                  `json:"tagline"`
	Overview            string                  `json:"overview"`
	Status              string                  `json:"status"`
	Homepage            string                  `json:"homepage"`
	PosterPath          *string                 `json:"poster_path"`
	BackdropPath        *string                 `json:"backdrop_path"`
	FirstAirDate        string                  `json:"first_air_date"`
	EpisodeRunTime      []int                   `json:"episode_run_time"`
	VoteAverage         float64                 `json:"vote_average"`
	VoteCount           int                     `json:"vote_count"`
	Genres              []TMDBGenre             `json:"genres"`
	OriginCountry       []string                `json:"origin_country"`
	OriginalLanguage    string                  `json:"original_language"`
	NumberOfSeasons     int                     `json:"number_of_seasons"`
	NumberOfEpisodes    int                     `json:"number_of_episodes"`
	ProductionCountries []TMDBProductionCountry `json:"production_countries"`
	SpokenLanguages     []TMDBSpokenLanguage    `json:"spoken_languages"`
	ExternalIds         struct {
		IMDBId string `json:"imdb_id"`
	} `json:"external_ids"`
}

type TMDBCast struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

type TMDBCrew struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Department  string  `json:"department"`
	Job         string  `json:"job"`
	ProfilePath *string `json:"profile_path"`
}

type TMDBCredits struct {
	ID   int        `json:"id"`
	Cast []TMDBCast `json:"cast"`
	Crew []TMDBCrew `json:"crew"`
}

type TMDBImage struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	VoteAverage float64 `json:"vote_average"`
	ISO639      *string `json:"iso_639_1"`
}

type TMDBImages struct {
	ID        int         `json:"id"`
	Backdrops []TMDBImage `json:"backdrops"`
	Posters   []TMDBImage `json:"posters"`
	Logos     []TMDBImage `json:"logos"`
}

type TMDBReview struct {
	ID            string `json:"id"`
	Author        string `json:"author"`
	AuthorDetails struct {
		Username   string   `json:"username"`
		AvatarPath *string  `json:"avatar_path"`
		Rating     *float64 `json:"rating"`
	} `json:"author_details"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

type TMDBReviewsResponse struct {
	ID           int          `json:"id"`
	Page         int          `json:"page"`
	Results      []TMDBReview `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

type TMDBAccountStates struct {
	ID        int   `json:"id"`
	Favorite  bool  `json:"favorite"`
	Watchlist bool  `json:"watchlist"`
	Rated     Rated `json:"rated"`
}

type TMDBCountry struct {
	ISO         string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name"`
}

type TMDBLanguage struct {
	ISO         string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type TMDBRequestToken struct {
	Success      bool   `json:"success"`
	ExpiresAt    string `json:"expires_at"`
	RequestToken string `json:"request_token"`
}

type TMDBSession struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// TMDBStatusResponse is the body of mutation responses and of every error.
type TMDBStatusResponse struct {
	Success       *bool  `json:"success,omitempty"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

type TMDBAccount struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	ISO639       string `json:"iso_639_1"`
	ISO3166      string `json:"iso_3166_1"`
	IncludeAdult bool   `json:"include_adult"`
}

// TMDBFlexID decodes ids that TMDB sends either as numbers or strings.
type TMDBFlexID string

func (id *TMDBFlexID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = TMDBFlexID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = TMDBFlexID(s)
	return nil
}

// Int returns the numeric id, or 0 when the id is not numeric.
func (id TMDBFlexID) Int() int {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return 0
	}
	return n
}

// TMDBFlexBool decodes flags that TMDB sends as 0/1 on some endpoints and as
// booleans on others.
type TMDBFlexBool bool

func (b *TMDBFlexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*b = true
	case "false", "0", "null":
		*b = false
	default:
		return fmt.Errorf("invalid flag value: %s", data)
	}
	return nil
}

type TMDBList struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	ItemCount     int          `json:"item_count"`
	FavoriteCount int          `json:"favorite_count"`
	ListType      string       `json:"list_type"`
	PosterPath    *string      `json:"poster_path"`
	Public        TMDBFlexBool `json:"public"`
}

type TMDBListsResponse struct {
	Page         int        `json:"page"`
	Results      []TMDBList `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type TMDBListDetails struct {
	ID          TMDBFlexID        `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"created_by"`
	ItemCount   int               `json:"item_count"`
	Items       []TMDBMediaResult `json:"items"`
}

type TMDBCreateListResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	ListID        int    `json:"list_id"`
}

type TMDBItemStatus struct {
	ID          TMDBFlexID `json:"id"`
	ItemPresent bool       `json:"item_present"`
}

// Request bodies.

type TMDBSessionRequest struct {
	RequestToken string `json:"request_token"`
}

type TMDBDeleteSessionRequest struct {
	SessionID string `json:"session_id"`
}

type TMDBWatchlistRequest struct {
	MediaType string `json:"media_type"`
	MediaID   int    `json:"media_id"`
	Watchlist bool   `json:"watchlist"`
}

type TMDBFavoriteRequest struct {
	MediaType string `json:"media_type"`
	MediaID   int    `json:"media_id"`
	Favorite  bool   `json:"favorite"`
}

type TMDBCreateListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

type TMDBListItemRequest struct {
	MediaID int `json:"media_id"`
}

type TMDBRatingRequest struct {
	Value float64 `json:"value"`
}
