package models

import "time"

// Business is the per-account configuration used to build review requests.
// At most one row exists per owning account.
type Business struct {
	ID               string    `json:"id" db:"id"`
	AccountID        string    `json:"userId" db:"account_id"`
	BusinessName     string    `json:"businessName" db:"business_name"`
	WhatsappNumber   string    `json:"whatsappNumber" db:"whatsapp_number"` // canonical digits-only form
	GoogleReviewLink string    `json:"googleReviewLink" db:"google_review_link"`
	DefaultMessage   string    `json:"defaultMessage" db:"default_message"` // may contain {{link_google}}
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}
