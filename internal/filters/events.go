package filters

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/repository"
)

// Event is a user intent on the filter screen. The set is closed.
type Event interface {
	Type() string
	apply(State) State
}

// Reduce applies e to s. Invalid values leave s unchanged.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

type SetRatingRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (SetRatingRange) Type() string { return "set_rating_range" }

func (e SetRatingRange) apply(s State) State {
	minV, okMin := validFloat(e.Min, MinRatingDisplay, MaxRatingDisplay)
	maxV, okMax := validFloat(e.Max, MinRatingDisplay, MaxRatingDisplay)
	if !okMin || !okMax || (minV != nil && maxV != nil && *minV > *maxV) {
		return s
	}
	s.Rating.Min, s.Rating.Max = e.Min, e.Max
	return s.withApplied(CategoryRating)
}

type SetMinVoteCount struct {
	Value string `json:"value"`
}

func (SetMinVoteCount) Type() string { return "set_min_vote_count" }

func (e SetMinVoteCount) apply(s State) State {
	if _, ok := validInt(e.Value, MinVoteCountDisplay, -1); !ok {
		return s
	}
	s.Rating.MinVoteCount = e.Value
	return s.withApplied(CategoryRating)
}

// SetAirDateMode switches between range and single year. The values of the
// mode being left are cleared.
type SetAirDateMode struct {
	Mode AirDateMode `json:"mode"`
}

func (SetAirDateMode) Type() string { return "set_air_date_mode" }

func (e SetAirDateMode) apply(s State) State {
	if e.Mode != AirDateRange && e.Mode != AirDateYear {
		return s
	}
	if e.Mode == s.AirDate.Mode {
		return s
	}
	s.AirDate = AirDateFilter{Mode: e.Mode}
	return s.withApplied(CategoryAirDate)
}

type SetAirDateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (SetAirDateRange) Type() string { return "set_air_date_range" }

func (e SetAirDateRange) apply(s State) State {
	if s.AirDate.Mode != AirDateRange {
		return s
	}
	from, okFrom := validDate(e.From)
	to, okTo := validDate(e.To)
	if !okFrom || !okTo || (from != nil && to != nil && from.After(*to)) {
		return s
	}
	s.AirDate.From, s.AirDate.To = e.From, e.To
	return s.withApplied(CategoryAirDate)
}

type SetAirDateYear struct {
	Year string `json:"year"`
}

func (SetAirDateYear) Type() string { return "set_air_date_year" }

func (e SetAirDateYear) apply(s State) State {
	if s.AirDate.Mode != AirDateYear {
		return s
	}
	if _, ok := validInt(e.Year, 1, 9999); !ok {
		return s
	}
	s.AirDate.Year = e.Year
	return s.withApplied(CategoryAirDate)
}

type SetRuntimeRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (SetRuntimeRange) Type() string { return "set_runtime_range" }

func (e SetRuntimeRange) apply(s State) State {
	minV, okMin := validInt(e.Min, MinRuntimeDisplay, MaxRuntimeDisplay)
	maxV, okMax := validInt(e.Max, MinRuntimeDisplay, MaxRuntimeDisplay)
	if !okMin || !okMax || (minV != nil && maxV != nil && *minV > *maxV) {
		return s
	}
	s.Runtime.Min, s.Runtime.Max = e.Min, e.Max
	return s.withApplied(CategoryRuntime)
}

type SetIncludeAdult struct {
	Include bool `json:"include"`
}

func (SetIncludeAdult) Type() string { return "set_include_adult" }

func (e SetIncludeAdult) apply(s State) State {
	s.Adult.Include = e.Include
	return s.withApplied(CategoryAdult)
}

// SetOriginType switches between country and language; the selected value
// is cleared.
type SetOriginType struct {
	OriginType OriginType `json:"origin_type"`
}

func (SetOriginType) Type() string { return "set_origin_type" }

func (e SetOriginType) apply(s State) State {
	if e.OriginType != OriginCountry && e.OriginType != OriginLanguage {
		return s
	}
	if e.OriginType == s.Origin.Type {
		return s
	}
	s.Origin = OriginFilter{Type: e.OriginType}
	return s.withApplied(CategoryOrigin)
}

type SelectOrigin struct {
	Value string `json:"value"`
}

func (SelectOrigin) Type() string { return "select_origin" }

func (e SelectOrigin) apply(s State) State {
	s.Origin.Value = e.Value
	return s.withApplied(CategoryOrigin)
}

// SetSearchQuery records the origin search text. Candidate lists are
// refreshed by FilterOrigins once the debounce fires.
type SetSearchQuery struct {
	Query string `json:"query"`
}

func (SetSearchQuery) Type() string { return "set_search_query" }

func (e SetSearchQuery) apply(s State) State {
	s.SearchQuery = e.Query
	return s
}

// FilterOrigins recomputes the candidate lists from the current query.
type FilterOrigins struct{}

func (FilterOrigins) Type() string { return "filter_origins" }

func (FilterOrigins) apply(s State) State {
	s.FilteredCountries = MatchCountries(s.Countries, s.SearchQuery)
	s.FilteredLanguages = MatchLanguages(s.Languages, s.SearchQuery)
	return s
}

type SelectTab struct {
	Tab int `json:"tab"`
}

func (SelectTab) Type() string { return "select_tab" }

func (e SelectTab) apply(s State) State {
	s.SelectedTab = e.Tab
	return s
}

// SetReferenceData installs the country and language catalogs.
type SetReferenceData struct {
	Countries []models.Country  `json:"countries"`
	Languages []models.Language `json:"languages"`
}

func (SetReferenceData) Type() string { return "set_reference_data" }

func (e SetReferenceData) apply(s State) State {
	s.Countries = e.Countries
	s.Languages = e.Languages
	return FilterOrigins{}.apply(s)
}

type ClearCategoryEvent struct {
	Category Category `json:"category"`
}

func (ClearCategoryEvent) Type() string { return "clear_category" }

func (e ClearCategoryEvent) apply(s State) State {
	return ClearCategory(s, e.Category)
}

type ClearAllEvent struct{}

func (ClearAllEvent) Type() string { return "clear_all" }

func (ClearAllEvent) apply(s State) State {
	return ClearAll(s)
}

var eventFactories = map[string]func() Event{
	SetRatingRange{}.Type():     func() Event { return &SetRatingRange{} },
	SetMinVoteCount{}.Type():    func() Event { return &SetMinVoteCount{} },
	SetAirDateMode{}.Type():     func() Event { return &SetAirDateMode{} },
	SetAirDateRange{}.Type():    func() Event { return &SetAirDateRange{} },
	SetAirDateYear{}.Type():     func() Event { return &SetAirDateYear{} },
	SetRuntimeRange{}.Type():    func() Event { return &SetRuntimeRange{} },
	SetIncludeAdult{}.Type():    func() Event { return &SetIncludeAdult{} },
	SetOriginType{}.Type():      func() Event { return &SetOriginType{} },
	SelectOrigin{}.Type():       func() Event { return &SelectOrigin{} },
	SetSearchQuery{}.Type():     func() Event { return &SetSearchQuery{} },
	FilterOrigins{}.Type():      func() Event { return &FilterOrigins{} },
	SelectTab{}.Type():          func() Event { return &SelectTab{} },
	SetReferenceData{}.Type():   func() Event { return &SetReferenceData{} },
	ClearCategoryEvent{}.Type(): func() Event { return &ClearCategoryEvent{} },
	ClearAllEvent{}.Type():      func() Event { return &ClearAllEvent{} },
}

// DecodeEvent parses {"type": "...", ...fields}.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	factory, ok := eventFactories[head.Type]
	if !ok {
		return nil, fmt.Errorf("unknown filter event %q", head.Type)
	}
	e := factory()
	if err := json.Unmarshal(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// validFloat accepts Unset or a number within [lo, hi].
func validFloat(v string, lo, hi float64) (*float64, bool) {
	if v == Unset {
		return nil, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < lo || f > hi {
		return nil, false
	}
	return &f, true
}

// validInt accepts Unset or an integer >= lo and, when hi >= 0, <= hi.
func validInt(v string, lo, hi int) (*int, bool) {
	if v == Unset {
		return nil, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		return nil, false
	}
	return &n, true
}

func validDate(v string) (*time.Time, bool) {
	if v == Unset {
		return nil, true
	}
	t, err := time.Parse(repository.DateLayout, v)
	if err != nil {
		return nil, false
	}
	return &t, true
}
