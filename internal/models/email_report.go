// internal/models/email_report.go
package models

import "time"

// EmailTaskReport is a user's digest schedule: the next send instant (UTC)
// and the user's timezone preference. Exactly one exists per user; it is
// created alongside the user and advanced by the digest scheduler.
type EmailTaskReport struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	SendTime time.Time `json:"send_time"`
	TimeZone string    `json:"time_zone"`
}
