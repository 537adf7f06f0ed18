package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// GoogleLinkPlaceholder is the token inside a default message template that is
// replaced with the business's actual Google review URL at render time.
const GoogleLinkPlaceholder = "{{link_google}}"

// WarnMissingPlaceholder is returned by ValidateMessage when the template is
// valid but carries no placeholder. Non-fatal: the rendered message will
// simply not contain the review link.
const WarnMissingPlaceholder = "message does not contain the {{link_google}} variable; the review link will not be included"

var (
	ErrMessageEmpty    = errors.New("message cannot be empty")
	ErrMessageTooShort = errors.New("message too short (minimum 10 characters)")
	ErrMessageTooLong  = errors.New("message too long (maximum 1000 characters)")
)

// ValidateMessage checks a default message template. A valid template missing
// the {{link_google}} placeholder yields an empty error and a warning string.
// Length bounds count characters, not bytes, so accented text is measured the
// way users see it.
func ValidateMessage(message string) (warning string, err error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", ErrMessageEmpty
	}
	length := utf8.RuneCountInString(trimmed)
	if length < 10 {
		return "", ErrMessageTooShort
	}
	if length > 1000 {
		return "", ErrMessageTooLong
	}
	if !strings.Contains(trimmed, GoogleLinkPlaceholder) {
		return WarnMissingPlaceholder, nil
	}
	return "", nil
}

// RenderMessage substitutes every occurrence of {{link_google}} with the
// given review URL.
func RenderMessage(template, googleLink string) string {
	return strings.ReplaceAll(template, GoogleLinkPlaceholder, googleLink)
}
