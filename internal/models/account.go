package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// User is the authenticated session identity persisted in the local store.
type User struct {
	AccountID       int    `json:"account_id"`
	AccountObjectID string `json:"account_object_id,omitempty"`
	SessionID       string `json:"session_id"`
	Username        string `json:"username"`
	Name            string `json:"name,omitempty"`
	Language        string `json:"language,omitempty"`
	Region          string `json:"region,omitempty"`
	IncludeAdult    bool   `json:"include_adult"`
}

// Theme is the UI theme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Preferences are app settings persisted in the local store.
type Preferences struct {
	Theme         Theme  `json:"theme"`
	DynamicColors bool   `json:"dynamic_colors"`
	ShowAdult     bool   `json:"show_adult"`
	DefaultTab    string `json:"default_tab"`
	Language      string `json:"language"`
	Region        string `json:"region"`
}

// DefaultPreferences is what a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeSystem,
		DynamicColors: true,
		DefaultTab:    "home",
		Language:      "en-US",
		Region:        "US",
	}
}

// AccountState is the relationship between the account and one media item.
type AccountState struct {
	ID        int   `json:"id"`
	Favorite  bool  `json:"favorite"`
	Watchlist bool  `json:"watchlist"`
	Rated     Rated `json:"rated"`
}

const (
	MinRating = 1.0
	MaxRating = 10.0
)

// Rated is either NotRated or a rating value. The zero value is NotRated.
// On the wire NotRated is the literal false and a rating is {"value": n}.
type Rated struct {
	rated bool
	value float64
}

// NotRated returns the unrated variant.
func NotRated() Rated {
	return Rated{}
}

// RatedValue returns a rating, rejecting values outside MinRating..MaxRating.
func RatedValue(v float64) (Rated, error) {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return Rated{}, fmt.Errorf("rating %v out of range %v..%v", v, MinRating, MaxRating)
	}
	return Rated{rated: true, value: v}, nil
}

// Value returns the rating and true, or 0 and false for NotRated.
func (r Rated) Value() (float64, bool) {
	return r.value, r.rated
}

func (r Rated) IsRated() bool {
	return r.rated
}

func (r Rated) String() string {
	if !r.rated {
		return "NotRated"
	}
	return fmt.Sprintf("Value(%g)", r.value)
}

type ratedValue struct {
	Value *float64 `json:"value"`
}

func (r Rated) MarshalJSON() ([]byte, error) {
	if !r.rated {
		return []byte("false"), nil
	}
	return json.Marshal(ratedValue{Value: &r.value})
}

func (r *Rated) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		return nil
	case "false":
		*r = NotRated()
		return nil
	case "true":
		return fmt.Errorf("invalid rated value: true")
	}

	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("invalid rated value: %s", data)
	}

	var rv ratedValue
	if err := json.Unmarshal(data, &rv); err != nil {
		return fmt.Errorf("invalid rated value: %w", err)
	}
	if rv.Value == nil {
		return fmt.Errorf("invalid rated value: missing value")
	}
	parsed, err := RatedValue(*rv.Value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
