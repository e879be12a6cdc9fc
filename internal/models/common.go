package models

// CastMember represents a cast member in credits
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember represents a crew member in credits
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Credits represents cast and crew information
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Country is an origin country with its display name
type Country struct {
	Code        string `json:"code"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name,omitempty"`
}

// DisplayName returns the name shown in pickers.
func (c Country) DisplayName() string {
	if c.EnglishName != "" {
		return c.EnglishName
	}
	return c.NativeName
}

// Language is a spoken or original language with its display name
type Language struct {
	Code        string `json:"code"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name,omitempty"`
}

// DisplayName returns the name shown in pickers.
func (l Language) DisplayName() string {
	if l.EnglishName != "" {
		return l.EnglishName
	}
	return l.Name
}
