package dto

import (
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
)

// LoginRequest defines the credentials posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ToLoginResponse converts a domain.Session to LoginResponse DTO.
func ToLoginResponse(s *domain.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      ToUserResponse(&s.User),
	}
}
