package models

import (
	"encoding/json"

	"github.com/amaumene/cinescope/internal/errors"
)

// LoadStatus is the variant tag of LoadState.
type LoadStatus string

const (
	LoadStatusNotLoading LoadStatus = "not_loading"
	LoadStatusLoading    LoadStatus = "loading"
	LoadStatusError      LoadStatus = "error"
	LoadStatusSuccess    LoadStatus = "success"
)

// LoadState tracks one in-flight operation. Err is set only for LoadStatusError.
type LoadState struct {
	Status LoadStatus
	Err    *errors.DataError
}

func NotLoading() LoadState { return LoadState{Status: LoadStatusNotLoading} }
func Loading() LoadState    { return LoadState{Status: LoadStatusLoading} }
func Succeeded() LoadState  { return LoadState{Status: LoadStatusSuccess} }

func Failed(err *errors.DataError) LoadState {
	return LoadState{Status: LoadStatusError, Err: err}
}

func (s LoadState) IsLoading() bool {
	return s.Status == LoadStatusLoading
}

func (s LoadState) MarshalJSON() ([]byte, error) {
	out := struct {
		Status  LoadStatus `json:"status"`
		Error   string     `json:"error,omitempty"`
		Message string     `json:"message,omitempty"`
	}{Status: s.Status}
	if s.Status == "" {
		out.Status = LoadStatusNotLoading
	}
	if s.Err != nil {
		out.Error = string(s.Err.Kind)
		out.Message = s.Err.Message
	}
	return json.Marshal(out)
}

// MyList is a user-owned list. AddState tracks the add-media mutation issued
// from the UI against this list.
type MyList struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Public        bool      `json:"public"`
	ItemCount     int       `json:"item_count"`
	FavoriteCount int       `json:"favorite_count"`
	PosterPath    string    `json:"poster_path,omitempty"`
	AddState      LoadState `json:"add_state"`
}

// MyListsResponse is one page of the account's lists.
type MyListsResponse struct {
	Page         int      `json:"page"`
	Results      []MyList `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// ListDetails is a list with its items.
type ListDetails struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CreatedBy   string      `json:"created_by,omitempty"`
	ItemCount   int         `json:"item_count"`
	Items       []MediaInfo `json:"items"`
}
