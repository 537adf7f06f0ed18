package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"https google maps", "https://google.com/maps/place/x", nil},
		{"http allowed", "http://example.com", nil},
		{"trims surrounding spaces", "  https://g.page/my-business  ", nil},
		{"empty", "", ErrURLRequired},
		{"spaces only", "   ", ErrURLRequired},
		{"no scheme", "google.com/maps", ErrURLScheme},
		{"ftp scheme", "ftp://google.com", ErrURLScheme},
		{"hostname too short", "https://ab", ErrURLShortHost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGoogleReviewURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"google.com", "https://google.com/maps/place/x", nil},
		{"g.page short link", "https://g.page/r/abc/review", nil},
		{"case insensitive host", "https://G.PAGE/r/abc", nil},
		{"non google host", "https://example.com/review", ErrURLNotGoogle},
		{"bad scheme still rejected first", "g.page/r/abc", ErrURLScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoogleReviewURL(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
