package domain

import "time"

// Session is a refresh-token backed login. Only the token hash is stored.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	UserAgent        string    `json:"user_agent,omitempty"`
	IPAddress        string    `json:"ip_address,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the session can no longer be refreshed at t.
func (s *Session) ExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}
