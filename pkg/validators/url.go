package validators

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrURLRequired  = errors.New("URL is required")
	ErrURLScheme    = errors.New("URL must start with http:// or https://")
	ErrURLInvalid   = errors.New("invalid URL format")
	ErrURLShortHost = errors.New("invalid URL: hostname too short")
	ErrURLNotGoogle = errors.New("URL must be a Google address (google.com or g.page)")
)

// ValidateURL checks that raw is a well-formed absolute http(s) URL.
func ValidateURL(raw string) error {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ErrURLRequired
	}
	if !strings.HasPrefix(cleaned, "http://") && !strings.HasPrefix(cleaned, "https://") {
		return ErrURLScheme
	}
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return ErrURLInvalid
	}
	if len(parsed.Hostname()) < 3 {
		return ErrURLShortHost
	}
	return nil
}

// ValidateGoogleReviewURL checks that raw is a valid URL pointing at a Google
// review destination (google.com or g.page).
func ValidateGoogleReviewURL(raw string) error {
	if err := ValidateURL(raw); err != nil {
		return err
	}
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(cleaned, "google.com") && !strings.Contains(cleaned, "g.page") {
		return ErrURLNotGoogle
	}
	return nil
}
