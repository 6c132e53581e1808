package domain

import "time"

// AuditLog records an account event for its owner.
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"userId"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details,omitempty"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

const (
	AuditCategoryAuth    = "auth"
	AuditCategoryProfile = "profile"
)

const (
	AuditActionSignup        = "signup"
	AuditActionSignin        = "signin"
	AuditActionSignout       = "signout"
	AuditActionProfileUpdate = "profile_update"
	AuditActionProfileImage  = "profile_image"
)
