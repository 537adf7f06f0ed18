package models

import "errors"

// ReviewStatus is the client review lifecycle:
//
//	NOT_SENT -> SENT -> REVIEWED_MANUAL
//
// There is no transition backwards and no skipping from NOT_SENT straight to
// REVIEWED_MANUAL. Both persistence backends enforce the transition against
// the expected current status in a single conditional write, so concurrent
// duplicate requests cannot both succeed.
type ReviewStatus string

const (
	ReviewStatusNotSent        ReviewStatus = "NOT_SENT"
	ReviewStatusSent           ReviewStatus = "SENT"
	ReviewStatusReviewedManual ReviewStatus = "REVIEWED_MANUAL"
)

// Valid reports whether s is one of the known lifecycle states.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusNotSent, ReviewStatusSent, ReviewStatusReviewedManual:
		return true
	}
	return false
}

// Policy rejection reasons, each distinct and surfaced to the caller.
var (
	// ErrReviewAlreadySent: at most one outbound request per client, ever.
	ErrReviewAlreadySent = errors.New("review request was already sent to this client")

	// ErrClientComplained: once complained is recorded, the client is
	// permanently ineligible. Checked even though a complained client never
	// leaves NOT_SENT through the normal flow.
	ErrClientComplained = errors.New("clients who complained cannot receive review requests")

	// ErrReviewNotSent: only a client that received the link can be
	// confirmed as reviewed.
	ErrReviewNotSent = errors.New("only clients who received the review link can be marked as reviewed")
)

// CanRequestReview reports whether a review request may be generated for the
// client right now. The status guard runs before the complained guard so a
// client that somehow advanced reports "already sent" rather than "blocked".
func (c *Client) CanRequestReview() error {
	if c.ReviewStatus != ReviewStatusNotSent {
		return ErrReviewAlreadySent
	}
	if c.Complained {
		return ErrClientComplained
	}
	return nil
}

// CanMarkReviewed reports whether the client may be marked as manually
// reviewed right now.
func (c *Client) CanMarkReviewed() error {
	if c.ReviewStatus != ReviewStatusSent {
		return ErrReviewNotSent
	}
	return nil
}
