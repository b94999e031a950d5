package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService authenticates the configured operator credential and manages
// sessions.
type authService struct {
	adminEmail   string
	adminHash    string
	sessionStore driven.SessionStore
	authAdapter  driven.AuthAdapter
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService. adminHash is the bcrypt hash
// of the operator password.
func NewAuthService(
	adminEmail, adminHash string,
	sessionStore driven.SessionStore,
	authAdapter driven.AuthAdapter,
) driving.AuthService {
	return &authService{
		adminEmail:   adminEmail,
		adminHash:    adminHash,
		sessionStore: sessionStore,
		authAdapter:  authAdapter,
		tokenTTL:     24 * time.Hour,
	}
}

// Authenticate validates credentials and creates a session
func (s *authService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if req.Email != s.adminEmail || !s.authAdapter.VerifyPassword(req.Password, s.adminHash) {
		return nil, domain.ErrInvalidCredentials
	}

	sessionID := generateID()
	now := time.Now()
	claims := &domain.TokenClaims{
		Email:     req.Email,
		Role:      domain.RoleAdmin,
		SessionID: sessionID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	}

	token, err := s.authAdapter.GenerateToken(claims)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(s.tokenTTL)
	session := &domain.Session{
		ID:        sessionID,
		Email:     req.Email,
		Role:      domain.RoleAdmin,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.sessionStore.Save(ctx, session); err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     req.Email,
		Role:      domain.RoleAdmin,
	}, nil
}

// ValidateToken validates a JWT token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	session, err := s.sessionStore.GetByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	return &domain.AuthContext{
		Email:     session.Email,
		Role:      session.Role,
		SessionID: session.ID,
	}, nil
}

// Logout invalidates the session for the given token
func (s *authService) Logout(ctx context.Context, token string) error {
	session, err := s.sessionStore.GetByToken(ctx, token)
	if err != nil {
		return nil
	}
	return s.sessionStore.Delete(ctx, session.ID)
}

// Helper functions

func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
