package domain

import "time"

// RefreshToken is a persisted long-lived credential. A user may hold several
// at once, one per active session. It is exchangeable for new access tokens
// only while the row exists and has not expired.
type RefreshToken struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
