package models

import "time"

// Client represents one person a business has served. Every query and
// mutation is scoped by the owning account; there is no cross-account
// visibility.
type Client struct {
	ID             string       `json:"id" db:"id"`
	AccountID      string       `json:"userId" db:"account_id"`
	Name           *string      `json:"name" db:"name"`
	Phone          string       `json:"phone" db:"phone"` // canonical digits-only form, unique per account
	Satisfied      bool         `json:"satisfied" db:"satisfied"`
	Complained     bool         `json:"complained" db:"complained"`
	ReviewStatus   ReviewStatus `json:"reviewStatus" db:"review_status"`
	SentAt         *time.Time   `json:"sentAt" db:"sent_at"`
	ReviewedAt     *time.Time   `json:"reviewedAt" db:"reviewed_at"`
	AttendanceDate time.Time    `json:"attendanceDate" db:"attendance_date"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
}

// ClientMetrics aggregates send/review counts over a single account's
// clients. Windows are half-open [boundary, now) in server local time.
type ClientMetrics struct {
	SentToday     int `json:"sentToday"`
	SentWeek      int `json:"sentWeek"`
	SentMonth     int `json:"sentMonth"`
	ReviewedWeek  int `json:"reviewedWeek"`
	ReviewedMonth int `json:"reviewedMonth"`
}
