package security

import (
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	keyPattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	unsafeKeyChars   = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	unsafeTokenChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
	hexPattern       = regexp.MustCompile(`^[a-fA-F0-9]+$`)
)

// APIKeyValidator provides secure validation and handling of TMDB credentials
type APIKeyValidator struct {
	minLength int
	maxLength int
}

// NewAPIKeyValidator creates a new API key validator with reasonable defaults
func NewAPIKeyValidator() *APIKeyValidator {
	return &APIKeyValidator{
		minLength: 8,
		maxLength: 1024,
	}
}

// ValidateAPIKey validates API key format and length
func (v *APIKeyValidator) ValidateAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	if len(apiKey) < v.minLength || len(apiKey) > v.maxLength {
		return false
	}

	return keyPattern.MatchString(apiKey)
}

// SanitizeAPIKey removes dangerous characters and trims whitespace
func (v *APIKeyValidator) SanitizeAPIKey(apiKey string) string {
	return unsafeKeyChars.ReplaceAllString(strings.TrimSpace(apiKey), "")
}

// SanitizeAccessToken is SanitizeAPIKey keeping the dots that separate JWT segments.
func (v *APIKeyValidator) SanitizeAccessToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "Bearer ")
	return unsafeTokenChars.ReplaceAllString(token, "")
}

// MaskAPIKey creates a masked version for logging (shows only first/last few chars)
func (v *APIKeyValidator) MaskAPIKey(apiKey string) string {
	if len(apiKey) == 0 {
		return "[empty]"
	}

	if len(apiKey) <= 8 {
		return "[***]"
	}

	return apiKey[:3] + "..." + apiKey[len(apiKey)-3:]
}

// IsValidTMDBKey validates a TMDB v3 API key (32 hex characters)
func (v *APIKeyValidator) IsValidTMDBKey(apiKey string) bool {
	if !v.ValidateAPIKey(apiKey) {
		return false
	}

	if len(apiKey) != 32 {
		return false
	}

	return hexPattern.MatchString(apiKey)
}

// IsValidAccessToken validates a TMDB read access token, which is a JWT.
// The signature is TMDB's to check; only the shape and encoding are verified.
func (v *APIKeyValidator) IsValidAccessToken(token string) bool {
	if len(token) < v.minLength || len(token) > v.maxLength {
		return false
	}

	_, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	return err == nil
}
