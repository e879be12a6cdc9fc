// Package models defines the domain value objects handed from repositories to
// state holders, and the TMDB wire types they are mapped from.
package models

import (
	"time"
)

// MediaType tags a catalog item.
type MediaType string

const (
	MediaTypeAll    MediaType = "all"
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTV     MediaType = "tv"
	MediaTypePerson MediaType = "person"
)

// ParseMediaType accepts the TMDB path segment for a media type.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypeAll, MediaTypeMovie, MediaTypeTV, MediaTypePerson:
		return MediaType(s), true
	}
	return "", false
}

// TimeWindow selects the trending period.
type TimeWindow string

const (
	TimeWindowDay  TimeWindow = "day"
	TimeWindowWeek TimeWindow = "week"
)

// MediaInfo is a single catalog item. UID is generated on the client for list
// diffing; ID is the server identity.
type MediaInfo struct {
	UID                string      `json:"uid"`
	ID                 int         `json:"id"`
	MediaType          MediaType   `json:"media_type"`
	Title              string      `json:"title"`
	OriginalTitle      string      `json:"original_title,omitempty"`
	Overview           string      `json:"overview,omitempty"`
	PosterPath         string      `json:"poster_path,omitempty"`
	BackdropPath       string      `json:"backdrop_path,omitempty"`
	ProfilePath        string      `json:"profile_path,omitempty"`
	ReleaseDate        *time.Time  `json:"release_date,omitempty"`
	VoteAverage        float64     `json:"vote_average"`
	VoteCount          int         `json:"vote_count"`
	Popularity         float64     `json:"popularity"`
	GenreIDs           []int       `json:"genre_ids,omitempty"`
	OriginalLanguage   string      `json:"original_language,omitempty"`
	OriginCountry      []string    `json:"origin_country,omitempty"`
	Adult              bool        `json:"adult"`
	KnownForDepartment string      `json:"known_for_department,omitempty"`
	KnownFor           []MediaInfo `json:"known_for,omitempty"`
}

// MediaResponseInfo is one page of MediaInfo. IsPaging is set while a page
// fetch for the same logical list is in flight.
type MediaResponseInfo struct {
	Page         int         `json:"page"`
	Results      []MediaInfo `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
	IsPaging     bool        `json:"-"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaDetails is the detail page payload for a movie or TV show.
type MediaDetails struct {
	ID                  int        `json:"id"`
	MediaType           MediaType  `json:"media_type"`
	Title               string     `json:"title"`
	OriginalTitle       string     `json:"original_title,omitempty"`
	Tagline             string     `json:"tagline,omitempty"`
	Overview            string     `json:"overview,omitempty"`
	Status              string     `json:"status,omitempty"`
	Homepage            string     `json:"homepage,omitempty"`
	IMDBID              string     `json:"imdb_id,omitempty"`
	PosterPath          string     `json:"poster_path,omitempty"`
	BackdropPath        string     `json:"backdrop_path,omitempty"`
	ReleaseDate         *time.Time `json:"release_date,omitempty"`
	Runtime             int        `json:"runtime,omitempty"`
	NumberOfSeasons     int        `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes    int        `json:"number_of_episodes,omitempty"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int        `json:"vote_count"`
	Genres              []Genre    `json:"genres,omitempty"`
	OriginalLanguage    string     `json:"original_language,omitempty"`
	OriginCountry       []string   `json:"origin_country,omitempty"`
	ProductionCountries []Country  `json:"production_countries,omitempty"`
	SpokenLanguages     []Language `json:"spoken_languages,omitempty"`
}

// Image is one artwork entry.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	VoteAverage float64 `json:"vote_average"`
	Language    string  `json:"language,omitempty"`
}

// MediaImages groups the artwork of one media item.
type MediaImages struct {
	ID        int     `json:"id"`
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
	Logos     []Image `json:"logos"`
}

// Review is a user review.
type Review struct {
	ID         string     `json:"id"`
	Author     string     `json:"author"`
	AvatarPath string     `json:"avatar_path,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	Content    string     `json:"content"`
	URL        string     `json:"url,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// ReviewsResponse is one page of reviews.
type ReviewsResponse struct {
	Page         int      `json:"page"`
	Results      []Review `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}
