package httpdto

// RegisterRequest is used for POST /auth/register. Accepts JSON or form bodies.
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginRequest is used for POST /auth/login
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SessionUserDTO is the user attached to the current session
type SessionUserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResponse is returned after register and login
type AuthResponse struct {
	User      SessionUserDTO `json:"user"`
	ExpiresAt string         `json:"expires_at"`
}

// HomeResponse is returned by the landing page; User is nil for anonymous visitors
type HomeResponse struct {
	User      *SessionUserDTO `json:"user"`
	FeedScope string          `json:"feed_scope"`
}
