package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amaumene/cinescope/internal/models"
)

// DateLayout is the TMDB calendar date format.
const DateLayout = "2006-01-02"

// parseDate returns nil for empty or malformed input.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mapMedia converts one result row. fallback is used when the row has no
// media_type, which is the case for every endpoint scoped to one type.
func mapMedia(r models.TMDBMediaResult, fallback models.MediaType) models.MediaInfo {
	mediaType, ok := models.ParseMediaType(r.MediaType)
	if !ok || mediaType == models.MediaTypeAll {
		mediaType = fallback
	}

	info := models.MediaInfo{
		UID:                uuid.NewString(),
		ID:                 r.ID,
		MediaType:          mediaType,
		Title:              firstNonEmpty(r.Title, r.Name),
		OriginalTitle:      firstNonEmpty(r.OriginalTitle, r.OriginalName),
		Overview:           r.Overview,
		PosterPath:         deref(r.PosterPath),
		BackdropPath:       deref(r.BackdropPath),
		ProfilePath:        deref(r.ProfilePath),
		ReleaseDate:        parseDate(firstNonEmpty(r.ReleaseDate, r.FirstAirDate)),
		VoteAverage:        r.VoteAverage,
		VoteCount:          r.VoteCount,
		Popularity:         r.Popularity,
		GenreIDs:           r.GenreIDs,
		OriginalLanguage:   r.OriginalLanguage,
		OriginCountry:      r.OriginCountry,
		Adult:              r.Adult,
		KnownForDepartment: r.KnownForDepartment,
	}

	if len(r.KnownFor) > 0 {
		info.KnownFor = make([]models.MediaInfo, 0, len(r.KnownFor))
		for _, k := range r.KnownFor {
			info.KnownFor = append(info.KnownFor, mapMedia(k, models.MediaTypeMovie))
		}
	}
	return info
}

func mapMediaList(rows []models.TMDBMediaResult, fallback models.MediaType) []models.MediaInfo {
	out := make([]models.MediaInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapMedia(r, fallback))
	}
	return out
}

func mapPage(resp *models.TMDBPagedResponse, fallback models.MediaType) models.MediaResponseInfo {
	return models.MediaResponseInfo{
		Page:         resp.Page,
		Results:      mapMediaList(resp.Results, fallback),
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
}

func mapGenres(genres []models.TMDBGenre) []models.Genre {
	out := make([]models.Genre, 0, len(genres))
	for _, g := range genres {
		out = append(out, models.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func mapProductionCountries(in []models.TMDBProductionCountry) []models.Country {
	out := make([]models.Country, 0, len(in))
	for _, c := range in {
		out = append(out, models.Country{Code: c.ISO, EnglishName: c.Name})
	}
	return out
}

func mapSpokenLanguages(in []models.TMDBSpokenLanguage) []models.Language {
	out := make([]models.Language, 0, len(in))
	for _, l := range in {
		out = append(out, models.Language{Code: l.ISO, EnglishName: l.EnglishName, Name: l.Name})
	}
	return out
}

func mapMovieDetails(d *models.TMDBMovieDetails) models.MediaDetails {
	details := models.MediaDetails{
		ID:                  d.ID,
		MediaType:           models.MediaTypeMovie,
		Title:               d.Title,
		OriginalTitle:       d.OriginalTitle,
		Tagline:             d.Tagline,
		Overview:            d.Overview,
		Status:              d.Status,
		Homepage:            d.Homepage,
		IMDBID:              d.IMDBId,
		PosterPath:          deref(d.PosterPath),
		BackdropPath:        deref(d.BackdropPath),
		ReleaseDate:         parseDate(d.ReleaseDate),
		VoteAverage:         d.VoteAverage,
		VoteCount:           d.VoteCount,
		Genres:              mapGenres(d.Genres),
		OriginalLanguage:    d.OriginalLanguage,
		OriginCountry:       d.OriginCountry,
		ProductionCountries: mapProductionCountries(d.ProductionCountries),
		SpokenLanguages:     mapSpokenLanguages(d.SpokenLanguages),
	}
	if d.Runtime != nil {
		details.Runtime = *d.Runtime
	}
	return details
}

func mapTVDetails(d *models.TMDBTVDetails) models.MediaDetails {
	details := models.MediaDetails{
		ID:                  d.ID,
		MediaType:           models.MediaTypeTV,
		Title:               d.Name,
		OriginalTitle:       d.OriginalName,
		Tagline:             d.Tagline,
		Overview:            d.Overview,
		Status:              d.Status,
		Homepage:            d.Homepage,
		IMDBID:              d.ExternalIds.IMDBId,
		PosterPath:          deref(d.PosterPath),
		BackdropPath:        deref(d.BackdropPath),
		ReleaseDate:         parseDate(d.FirstAirDate),
		NumberOfSeasons:     d.NumberOfSeasons,
		NumberOfEpisodes:    d.NumberOfEpisodes,
		VoteAverage:         d.VoteAverage,
		VoteCount:           d.VoteCount,
		Genres:              mapGenres(d.Genres),
		OriginalLanguage:    d.OriginalLanguage,
		OriginCountry:       d.OriginCountry,
		ProductionCountries: mapProductionCountries(d.ProductionCountries),
		SpokenLanguages:     mapSpokenLanguages(d.SpokenLanguages),
	}
	if len(d.EpisodeRunTime) > 0 {
		details.Runtime = d.EpisodeRunTime[0]
	}
	return details
}

func mapCredits(c *models.TMDBCredits) models.Credits {
	credits := models.Credits{
		ID:   c.ID,
		Cast: make([]models.CastMember, 0, len(c.Cast)),
		Crew: make([]models.CrewMember, 0, len(c.Crew)),
	}
	for _, m := range c.Cast {
		credits.Cast = append(credits.Cast, models.CastMember{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Character,
			ProfilePath: deref(m.ProfilePath),
			Order:       m.Order,
		})
	}
	sort.SliceStable(credits.Cast, func(i, j int) bool {
		return credits.Cast[i].Order < credits.Cast[j].Order
	})
	for _, m := range c.Crew {
		credits.Crew = append(credits.Crew, models.CrewMember{
			ID:          m.ID,
			Name:        m.Name,
			Department:  m.Department,
			Job:         m.Job,
			ProfilePath: deref(m.ProfilePath),
		})
	}
	return credits
}

func mapImageList(in []models.TMDBImage) []models.Image {
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		out = append(out, models.Image{
			FilePath:    img.FilePath,
			Width:       img.Width,
			Height:      img.Height,
			AspectRatio: img.AspectRatio,
			VoteAverage: img.VoteAverage,
			Language:    deref(img.ISO639),
		})
	}
	return out
}

func mapImages(i *models.TMDBImages) models.MediaImages {
	return models.MediaImages{
		ID:        i.ID,
		Backdrops: mapImageList(i.Backdrops),
		Posters:   mapImageList(i.Posters),
		Logos:     mapImageList(i.Logos),
	}
}

func mapReviews(r *models.TMDBReviewsResponse) models.ReviewsResponse {
	out := models.ReviewsResponse{
		Page:         r.Page,
		Results:      make([]models.Review, 0, len(r.Results)),
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
	for _, rv := range r.Results {
		out.Results = append(out.Results, models.Review{
			ID:         rv.ID,
			Author:     firstNonEmpty(rv.Author, rv.AuthorDetails.Username),
			AvatarPath: deref(rv.AuthorDetails.AvatarPath),
			Rating:     rv.AuthorDetails.Rating,
			Content:    rv.Content,
			URL:        rv.URL,
			CreatedAt:  parseTimestamp(rv.CreatedAt),
		})
	}
	return out
}

func mapAccountState(s *models.TMDBAccountStates) models.AccountState {
	return models.AccountState{
		ID:        s.ID,
		Favorite:  s.Favorite,
		Watchlist: s.Watchlist,
		Rated:     s.Rated,
	}
}

func mapCountries(in []models.TMDBCountry) []models.Country {
	out := make([]models.Country, 0, len(in))
	for _, c := range in {
		out = append(out, models.Country{Code: c.ISO, EnglishName: c.EnglishName, NativeName: c.NativeName})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out
}

func mapLanguages(in []models.TMDBLanguage) []models.Language {
	out := make([]models.Language, 0, len(in))
	for _, l := range in {
		out = append(out, models.Language{Code: l.ISO, EnglishName: l.EnglishName, Name: l.Name})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out
}

func mapList(l models.TMDBList) models.MyList {
	return models.MyList{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		Public:        bool(l.Public),
		ItemCount:     l.ItemCount,
		FavoriteCount: l.FavoriteCount,
		PosterPath:    deref(l.PosterPath),
		AddState:      models.NotLoading(),
	}
}

func mapLists(r *models.TMDBListsResponse) models.MyListsResponse {
	out := models.MyListsResponse{
		Page:         r.Page,
		Results:      make([]models.MyList, 0, len(r.Results)),
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
	for _, l := range r.Results {
		out.Results = append(out.Results, mapList(l))
	}
	return out
}

func mapListDetails(d *models.TMDBListDetails) models.ListDetails {
	return models.ListDetails{
		ID:          string(d.ID),
		Name:        d.Name,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		ItemCount:   d.ItemCount,
		Items:       mapMediaList(d.Items, models.MediaTypeMovie),
	}
}

func mapUser(a *models.TMDBAccount, sessionID string) *models.User {
	return &models.User{
		AccountID:    a.ID,
		SessionID:    sessionID,
		Username:     a.Username,
		Name:         a.Name,
		Language:     a.ISO639,
		Region:       a.ISO3166,
		IncludeAdult: a.IncludeAdult,
	}
}
