// Package session holds the server-side authentication state of a client.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session binds a client to one user until ExpiresAt. The zero value is the
// anonymous session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Anonymous is the session of a request that carries no valid cookie.
var Anonymous = Session{}

func New(userID, username string, now time.Time, ttl time.Duration) Session {
	now = now.UTC()
	return Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s Session) IsAnonymous() bool {
	return s.ID == "" || s.UserID == ""
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// TTL returns how long the session stays valid from now.
func (s Session) TTL(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}
