package domain

import "time"

// Role determines what an authenticated caller may do
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Session represents an authenticated login session
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenClaims are the domain-level claims carried in a JWT
type TokenClaims struct {
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// AuthContext is the per-request authentication context
type AuthContext struct {
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id"`
}

// IsAdmin reports whether the caller has the admin role
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
}
