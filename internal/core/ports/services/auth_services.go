package services

import (
	"context"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// AuthSvc authenticates users.
type AuthSvc interface {
	// Login checks the credentials and issues a signed access token.
	// Unknown users, wrong passwords and disabled users all yield
	// apperrors.ErrUnauthorized.
	Login(ctx context.Context, username, password string) (*domain.Session, error)
}
