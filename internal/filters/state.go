// Package filters holds the discover filter state machine. State is a value;
// every transition goes through Reduce and returns a new State.
package filters

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/repository"
)

// Unset marks a field the user has not touched.
const Unset = ""

// Display bounds for the range pickers. They are never written into State;
// an untouched bound stays Unset.
const (
	MinRatingDisplay    = 0.0
	MaxRatingDisplay    = 10.0
	MinRuntimeDisplay   = 0
	MaxRuntimeDisplay   = 400
	MinVoteCountDisplay = 0

	SearchDebounce = 150 * time.Millisecond
)

type Category string

const (
	CategoryRating  Category = "rating"
	CategoryAirDate Category = "air_date"
	CategoryRuntime Category = "runtime"
	CategoryAdult   Category = "adult"
	CategoryOrigin  Category = "origin"
)

// Categories lists every filter category in display order.
var Categories = []Category{CategoryRating, CategoryAirDate, CategoryRuntime, CategoryAdult, CategoryOrigin}

type AirDateMode string

const (
	AirDateRange AirDateMode = "range"
	AirDateYear  AirDateMode = "year"
)

type OriginType string

const (
	OriginCountry  OriginType = "country"
	OriginLanguage OriginType = "language"
)

type RatingFilter struct {
	Min          string `json:"min"`
	Max          string `json:"max"`
	MinVoteCount string `json:"min_vote_count"`
}

// AirDateFilter has two exclusive sub-modes. Mode only selects which fields
// are editable; it is not a value.
type AirDateFilter struct {
	Mode AirDateMode `json:"mode"`
	From string      `json:"from"`
	To   string      `json:"to"`
	Year string      `json:"year"`
}

type RuntimeFilter struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type AdultFilter struct {
	Include bool `json:"include"`
}

// OriginFilter selects one country or one original language. Type is a
// sub-mode like AirDateFilter.Mode.
type OriginFilter struct {
	Type  OriginType `json:"type"`
	Value string     `json:"value"`
}

type Applied struct {
	Rating  bool `json:"rating"`
	AirDate bool `json:"air_date"`
	Runtime bool `json:"runtime"`
	Adult   bool `json:"adult"`
	Origin  bool `json:"origin"`
}

// Any reports whether at least one category is applied.
func (a Applied) Any() bool {
	return a.Rating || a.AirDate || a.Runtime || a.Adult || a.Origin
}

type State struct {
	Rating  RatingFilter  `json:"rating"`
	AirDate AirDateFilter `json:"air_date"`
	Runtime RuntimeFilter `json:"runtime"`
	Adult   AdultFilter   `json:"adult"`
	Origin  OriginFilter  `json:"origin"`
	Applied Applied       `json:"applied"`

	SelectedTab int    `json:"selected_tab"`
	SearchQuery string `json:"search_query"`

	Countries         []models.Country  `json:"countries,omitempty"`
	Languages         []models.Language `json:"languages,omitempty"`
	FilteredCountries []models.Country  `json:"filtered_countries,omitempty"`
	FilteredLanguages []models.Language `json:"filtered_languages,omitempty"`
}

// Baseline is the pristine state every applied flag is computed against.
func Baseline() State {
	return State{
		AirDate: AirDateFilter{Mode: AirDateRange},
		Origin:  OriginFilter{Type: OriginCountry},
	}
}

var baseline = Baseline()

func airDateValues(f AirDateFilter) [3]string {
	return [3]string{f.From, f.To, f.Year}
}

// isApplied compares one category's values against the baseline.
func (s State) isApplied(c Category) bool {
	switch c {
	case CategoryRating:
		return s.Rating != baseline.Rating
	case CategoryAirDate:
		return airDateValues(s.AirDate) != airDateValues(baseline.AirDate)
	case CategoryRuntime:
		return s.Runtime != baseline.Runtime
	case CategoryAdult:
		return s.Adult != baseline.Adult
	case CategoryOrigin:
		return s.Origin.Value != baseline.Origin.Value
	}
	return false
}

func (s State) withApplied(c Category) State {
	v := s.isApplied(c)
	switch c {
	case CategoryRating:
		s.Applied.Rating = v
	case CategoryAirDate:
		s.Applied.AirDate = v
	case CategoryRuntime:
		s.Applied.Runtime = v
	case CategoryAdult:
		s.Applied.Adult = v
	case CategoryOrigin:
		s.Applied.Origin = v
	}
	return s
}

// ClearCategory resets one category to the baseline. Other categories are
// untouched.
func ClearCategory(s State, c Category) State {
	switch c {
	case CategoryRating:
		s.Rating = baseline.Rating
	case CategoryAirDate:
		s.AirDate = baseline.AirDate
	case CategoryRuntime:
		s.Runtime = baseline.Runtime
	case CategoryAdult:
		s.Adult = baseline.Adult
	case CategoryOrigin:
		s.Origin = baseline.Origin
	}
	return s.withApplied(c)
}

// ClearAll resets everything except the selected tab and the reference lists.
func ClearAll(s State) State {
	out := Baseline()
	out.SelectedTab = s.SelectedTab
	out.Countries = s.Countries
	out.Languages = s.Languages
	out.FilteredCountries = s.Countries
	out.FilteredLanguages = s.Languages
	return out
}

// MatchCountries returns the countries whose display name contains query,
// ignoring case. An empty query matches everything.
func MatchCountries(countries []models.Country, query string) []models.Country {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return countries
	}
	out := make([]models.Country, 0)
	for _, c := range countries {
		if strings.Contains(strings.ToLower(c.DisplayName()), q) {
			out = append(out, c)
		}
	}
	return out
}

func MatchLanguages(languages []models.Language, query string) []models.Language {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return languages
	}
	out := make([]models.Language, 0)
	for _, l := range languages {
		if strings.Contains(strings.ToLower(l.DisplayName()), q) {
			out = append(out, l)
		}
	}
	return out
}

// DiscoverQuery converts the applied categories into discover parameters.
// Categories that are not applied contribute nothing.
func (s State) DiscoverQuery() repository.DiscoverQuery {
	var q repository.DiscoverQuery

	if s.Applied.Rating {
		q.MinRating = parseFloat(s.Rating.Min)
		q.MaxRating = parseFloat(s.Rating.Max)
		q.MinVoteCount = parseInt(s.Rating.MinVoteCount)
	}
	if s.Applied.AirDate {
		switch s.AirDate.Mode {
		case AirDateYear:
			q.Year = parseInt(s.AirDate.Year)
		default:
			q.ReleaseFrom = parseDate(s.AirDate.From)
			q.ReleaseTo = parseDate(s.AirDate.To)
		}
	}
	if s.Applied.Runtime {
		q.MinRuntime = parseInt(s.Runtime.Min)
		q.MaxRuntime = parseInt(s.Runtime.Max)
	}
	if s.Applied.Adult {
		q.IncludeAdult = s.Adult.Include
	}
	if s.Applied.Origin {
		switch s.Origin.Type {
		case OriginLanguage:
			q.OriginalLanguage = s.Origin.Value
		default:
			q.OriginCountry = s.Origin.Value
		}
	}
	return q
}

func parseFloat(v string) *float64 {
	if v == Unset {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseInt(v string) *int {
	if v == Unset {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func parseDate(v string) *time.Time {
	if v == Unset {
		return nil
	}
	t, err := time.Parse(repository.DateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}
