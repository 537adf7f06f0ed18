// Package walink builds WhatsApp wa.me deep links. All functions are pure:
// identical inputs always produce byte-identical URLs.
package walink

import (
	"net/url"
	"strings"

	"avaliaja_backend/pkg/validators"
)

// wa.me expects the text parameter encoded the way JavaScript's
// encodeURIComponent does it: space as %20 (never +) and ! ' ( ) * left
// literal. url.QueryEscape differs exactly in those characters, so the
// escaped output is patched after the fact. The %XX replacements cannot
// collide with escaped input because QueryEscape turns a literal '%' into
// %25 first.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeMessage percent-encodes a message for use as a wa.me text query value.
func EncodeMessage(message string) string {
	return componentEscaper.Replace(url.QueryEscape(message))
}

// BuildLink produces the wa.me deep link opening a chat with phone,
// pre-filled with message. The phone is reduced to digits only; message
// content is not validated here, callers validate upstream.
func BuildLink(phone, message string) string {
	return "https://wa.me/" + validators.Digits(phone) + "?text=" + EncodeMessage(message)
}

// BuildReviewLink renders the default message template, substituting the
// {{link_google}} placeholder with googleReviewLink, and wraps the result in
// a wa.me deep link for phone.
func BuildReviewLink(phone, defaultMessage, googleReviewLink string) string {
	return BuildLink(phone, validators.RenderMessage(defaultMessage, googleReviewLink))
}
