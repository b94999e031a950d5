package driven

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// SessionStore handles login-session persistence (Redis or in-memory).
type SessionStore interface {
	// Save stores a session until its expiry
	Save(ctx context.Context, session *domain.Session) error

	// GetByToken retrieves a session by its token
	GetByToken(ctx context.Context, token string) (*domain.Session, error)

	// Delete removes a session by ID
	Delete(ctx context.Context, id string) error
}
