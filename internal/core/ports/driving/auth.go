package driving

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// AuthService handles authentication and session management
type AuthService interface {
	// Authenticate validates credentials and creates a session
	Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// Logout invalidates the session for the given token
	Logout(ctx context.Context, token string) error
}
