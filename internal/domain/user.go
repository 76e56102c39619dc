package domain

import (
	"strings"
	"time"
)

// User represents a registered CookFeed account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName returns the name shown in the UI, falling back to the local
// part of the email address for accounts that never set a name.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// ProfileUpdate carries a partial update of the public profile fields.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string
	Bio          *string
	ProfileImage *string
}

// IsEmpty reports whether no field was supplied.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.ProfileImage == nil
}
