// Package models defines the records shared by both storage backends. JSON
// field names are the persisted wire names and must stay stable: records
// written by either backend have to be readable by the other.
package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusBanned   Status = "banned"
)

// Effective maps the legacy empty status to approved.
func (s Status) Effective() Status {
	if s == "" {
		return StatusApproved
	}
	return s
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusBanned:
		return true
	}
	return false
}

// User is a registered marketplace member.
type User struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	// Password holds the encoded credential hash. Only the local backend
	// keeps it inside the user record.
	Password string `json:"password,omitempty"`
	Status   Status `json:"status,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	BannedAt   *time.Time `json:"bannedAt,omitempty"`
	UnbannedAt *time.Time `json:"unbannedAt,omitempty"`
}

// CanSell reports whether the user may list products and open the dashboard.
func (u *User) CanSell() bool {
	return u.Status.Effective() == StatusApproved
}

// ApplyStatus sets the status and stamps the matching moderation timestamp.
// unban distinguishes approved-after-ban from a first approval.
func (u *User) ApplyStatus(status Status, at time.Time, unban bool) {
	u.Status = status
	t := at
	switch {
	case status == StatusBanned:
		u.BannedAt = &t
	case status == StatusApproved && unban:
		u.UnbannedAt = &t
	case status == StatusApproved:
		u.ApprovedAt = &t
	}
}

// NormalizeEmail trims and lower-cases an address; uniqueness and lookups
// always compare normalized values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
