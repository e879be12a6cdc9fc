// Package repository wraps the gateway per feature area. Every call maps the
// wire payload to domain models and returns a result.Result; gateway and
// local store errors are classified exactly once, here.
package repository

import (
	stderrors "errors"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/internal/result"
)

// ErrNotSignedIn is returned by account operations when no session is stored.
var ErrNotSignedIn = stderrors.New("no active session")

func failure[T any](err error) result.Result[T] {
	return result.Failure[T](errors.Classify(err))
}

func accountMedia(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeTV {
		return "tv"
	}
	return "movies"
}
