package services

import (
	"context"
	"errors"

	"travelbook/internal/apperrors"
	"travelbook/internal/models"
	"travelbook/internal/repositories"

	"go.uber.org/zap"
)

// MsgUnauthorized is the single message every rejected session gets.
const MsgUnauthorized = "Unauthorized, please login to continue"

// SessionGuard resolves a session token to the account it was issued for.
type SessionGuard struct {
	userRepo repositories.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewSessionGuard creates a new SessionGuard.
func NewSessionGuard(userRepo repositories.UserRepository, tokens TokenIssuer, logger *zap.Logger) *SessionGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionGuard{userRepo: userRepo, tokens: tokens, logger: logger}
}

// Authenticate returns the account behind token. A missing token, an invalid
// or expired one, and a deleted account all yield the same Unauthorized error.
func (g *SessionGuard) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.Unauthorized(MsgUnauthorized)
	}

	userID, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Debug("session rejected", zap.String("reason", "invalid token"))
		return nil, apperrors.Unauthorized(MsgUnauthorized)
	}

	user, err := g.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			g.logger.Debug("session rejected", zap.String("reason", "account not found"), zap.String("user_id", userID))
			return nil, apperrors.Unauthorized(MsgUnauthorized)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}
