// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// Timeout for one TMDB call, including the body read
	RequestTimeout = 15 * time.Second

	// Timeout for fetching an image for color extraction
	ImageTimeout = 10 * time.Second

	// Time given to in-flight shell API requests on shutdown
	ShutdownTimeout = 5 * time.Second
)
