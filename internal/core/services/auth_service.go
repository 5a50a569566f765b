package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/platform/config"
	"github.com/SscSPs/student_savings_app/internal/utils"
)

// authService checks credentials and issues access tokens.
type authService struct {
	BaseService
	cfg   *config.Config
	users portssvc.UserSvc
	now   func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, users portssvc.UserSvc) portssvc.AuthSvc {
	return &authService{cfg: cfg, users: users, now: time.Now}
}

var _ portssvc.AuthSvc = (*authService)(nil)

// Login implements portssvc.AuthSvc.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	logger := s.GetLogger(ctx).With(slog.String("username", username))

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login failed: unknown user")
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login failed: wrong password")
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		logger.Warn("Login failed: user disabled")
		return nil, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, user.Role, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return nil, apperrors.NewAppError(500, "failed to issue token", err)
	}
	logger.Info("User logged in", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}
