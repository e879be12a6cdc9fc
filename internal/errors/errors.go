// Package errors defines the closed set of data-access failures returned across
// the repository boundary and the classifier that maps transport, decode and
// storage errors onto it.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// Kind identifies one DataError variant.
type Kind string

// Local kinds
const (
	KindDiskFull     Kind = "DISK_FULL"
	KindLocalUnknown Kind = "LOCAL_UNKNOWN"
)

// Remote kinds
const (
	KindRequestTimeout    Kind = "REQUEST_TIMEOUT"
	KindTooManyRequests   Kind = "TOO_MANY_REQUESTS"
	KindNoInternet        Kind = "NO_INTERNET"
	KindInvalidService    Kind = "INVALID_SERVICE"
	KindInternalError     Kind = "INTERNAL_ERROR"
	KindInvalidHeader     Kind = "INVALID_HEADER"
	KindAPIMaintenance    Kind = "API_MAINTENANCE"
	KindBackendConnection Kind = "BACKEND_CONNECTION"
	KindBackendTimeout    Kind = "BACKEND_TIMEOUT"
	KindServer            Kind = "SERVER"
	KindSerialization     Kind = "SERIALIZATION"
	KindUnknown           Kind = "UNKNOWN"
	KindCustom            Kind = "CUSTOM"
)

// IsLocal reports whether k belongs to the storage branch.
func (k Kind) IsLocal() bool {
	return k == KindDiskFull || k == KindLocalUnknown
}

// IsRemote reports whether k belongs to the network/server branch.
func (k Kind) IsRemote() bool {
	switch k {
	case KindRequestTimeout, KindTooManyRequests, KindNoInternet, KindInvalidService,
		KindInternalError, KindInvalidHeader, KindAPIMaintenance, KindBackendConnection,
		KindBackendTimeout, KindServer, KindSerialization, KindUnknown, KindCustom:
		return true
	}
	return false
}

// DataError is a classified failure. Message is only meaningful for KindCustom,
// where it carries the server-supplied text.
type DataError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *DataError) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Cause
}

// Is matches another *DataError of the same kind.
func (e *DataError) Is(target error) bool {
	t, ok := target.(*DataError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates a DataError of the given kind.
func New(kind Kind, cause error) *DataError {
	return &DataError{Kind: kind, Cause: cause}
}

// NewCustom creates a KindCustom error carrying a server message.
func NewCustom(message string, cause error) *DataError {
	return &DataError{Kind: KindCustom, Message: message, Cause: cause}
}

// Sentinels for errors.Is comparisons.
var (
	ErrDiskFull        = &DataError{Kind: KindDiskFull}
	ErrRequestTimeout  = &DataError{Kind: KindRequestTimeout}
	ErrTooManyRequests = &DataError{Kind: KindTooManyRequests}
	ErrNoInternet      = &DataError{Kind: KindNoInternet}
	ErrInvalidHeader   = &DataError{Kind: KindInvalidHeader}
	ErrSerialization   = &DataError{Kind: KindSerialization}
	ErrUnknown         = &DataError{Kind: KindUnknown}
)

// StatusError is implemented by transport errors that carry an HTTP status and
// the TMDB status payload.
type StatusError interface {
	error
	HTTPStatus() int
	APIStatusCode() int
	APIMessage() string
}

// LocalError marks errors raised by the local store.
type LocalError struct {
	Op  string
	Err error
}

func (e *LocalError) Error() string {
	return fmt.Sprintf("local store %s: %v", e.Op, e.Err)
}

func (e *LocalError) Unwrap() error {
	return e.Err
}

// Classify maps err onto exactly one DataError. A nil err yields nil and an
// existing *DataError is returned unchanged.
func Classify(err error) *DataError {
	if err == nil {
		return nil
	}

	var de *DataError
	if stderrors.As(err, &de) {
		return de
	}

	var local *LocalError
	if stderrors.As(err, &local) {
		if stderrors.Is(err, syscall.ENOSPC) {
			return New(KindDiskFull, err)
		}
		return New(KindLocalUnknown, err)
	}

	var status StatusError
	if stderrors.As(err, &status) {
		return classifyStatus(status)
	}

	if isTimeout(err) {
		return New(KindRequestTimeout, err)
	}

	if isSerialization(err) {
		return New(KindSerialization, err)
	}

	if isConnectivity(err) {
		return New(KindNoInternet, err)
	}

	return New(KindUnknown, err)
}

func classifyStatus(err StatusError) *DataError {
	// TMDB-specific status codes are more precise than the HTTP status
	switch err.APIStatusCode() {
	case 2, 10:
		return New(KindInvalidService, err)
	case 3, 7, 14:
		return New(KindInvalidHeader, err)
	case 9, 46:
		return New(KindAPIMaintenance, err)
	case 11:
		return New(KindInternalError, err)
	case 24:
		return New(KindBackendTimeout, err)
	case 25:
		return New(KindTooManyRequests, err)
	case 43:
		return New(KindBackendConnection, err)
	}

	switch status := err.HTTPStatus(); {
	case status == 429:
		return New(KindTooManyRequests, err)
	case status == 401 || status == 403:
		return New(KindInvalidHeader, err)
	case status == 503:
		return New(KindAPIMaintenance, err)
	case status == 502:
		return New(KindBackendConnection, err)
	case status == 504:
		return New(KindBackendTimeout, err)
	case status >= 500:
		return New(KindServer, err)
	}

	if msg := err.APIMessage(); msg != "" {
		return NewCustom(msg, err)
	}
	return New(KindUnknown, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func isSerialization(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return stderrors.As(err, &syntaxErr) ||
		stderrors.As(err, &typeErr) ||
		stderrors.Is(err, io.ErrUnexpectedEOF)
}

func isConnectivity(err error) bool {
	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if stderrors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	if stderrors.Is(err, syscall.ECONNREFUSED) ||
		stderrors.Is(err, syscall.ENETUNREACH) ||
		stderrors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	return false
}
