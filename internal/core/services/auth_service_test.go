package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/student_savings_app/internal/apperrors"
	"github.com/SscSPs/student_savings_app/internal/core/domain"
	"github.com/SscSPs/student_savings_app/internal/core/services"
	"github.com/SscSPs/student_savings_app/internal/platform/config"
	"github.com/SscSPs/student_savings_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{JWTSecret: "auth-secret", JWTExpiryDuration: time.Hour, JWTIssuer: "test"}
	hash, err := utils.HashPassword("rahasia123")
	require.NoError(t, err)

	active := &domain.User{UserID: "staff-1", Username: "budi", Role: domain.RoleStaff, PasswordHash: hash, IsActive: true}
	disabled := &domain.User{UserID: "staff-2", Username: "eko", Role: domain.RoleStaff, PasswordHash: hash, IsActive: false}

	repo := new(MockDirectoryRepository)
	repo.On("FindUserByUsername", ctx, "budi").Return(active, nil)
	repo.On("FindUserByUsername", ctx, "eko").Return(disabled, nil)
	repo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	auth := services.NewAuthService(cfg, services.NewDirectoryService(repo))

	session, err := auth.Login(ctx, "budi", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", session.User.UserID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	claims, err := utils.ParseAndValidateJWT(session.Token, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.Subject)
	assert.Equal(t, domain.RoleStaff, claims.Role)

	for _, tc := range []struct{ username, password string }{
		{"budi", "wrong-password"},
		{"eko", "rahasia123"},
		{"ghost", "rahasia123"},
	} {
		_, err := auth.Login(ctx, tc.username, tc.password)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, tc.username)
	}
}
