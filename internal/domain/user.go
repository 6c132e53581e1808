package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Location     *string   `db:"location" json:"location,omitempty"`
	ImageURL     *string   `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfilePatch is the body of a profile update.
type ProfilePatch struct {
	Name     Optional[string] `json:"name"`
	Email    Optional[string] `json:"email"`
	Phone    Optional[string] `json:"phone"`
	Location Optional[string] `json:"location"`
}

// ProfileUpdate is a validated ProfilePatch.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Phone    Optional[string]
	Location Optional[string]
}

func (p ProfilePatch) Normalize() (ProfileUpdate, error) {
	var u ProfileUpdate
	if p.Name.Set {
		name := strings.TrimSpace(p.Name.Value)
		if p.Name.Null || name == "" {
			return ProfileUpdate{}, NewError(ErrInvalidInput, "Name cannot be empty")
		}
		u.Name = &name
	}
	if p.Email.Set {
		email := NormalizeEmail(p.Email.Value)
		if p.Email.Null || email == "" {
			return ProfileUpdate{}, NewError(ErrInvalidInput, "Email cannot be empty")
		}
		u.Email = &email
	}
	u.Phone = p.Phone
	u.Location = p.Location
	return u, nil
}

// Fields lists the names of the fields the update touches.
func (u ProfileUpdate) Fields() []string {
	var out []string
	if u.Name != nil {
		out = append(out, "name")
	}
	if u.Email != nil {
		out = append(out, "email")
	}
	if u.Phone.Set {
		out = append(out, "phone")
	}
	if u.Location.Set {
		out = append(out, "location")
	}
	return out
}

func (u ProfileUpdate) Empty() bool {
	return len(u.Fields()) == 0
}

func (u ProfileUpdate) Apply(user *User, now time.Time) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Phone.Set {
		user.Phone = u.Phone.Ptr()
	}
	if u.Location.Set {
		user.Location = u.Location.Ptr()
	}
	user.UpdatedAt = now
}
