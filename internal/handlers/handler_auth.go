package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles login and identity requests.
type authHandler struct {
	authService portssvc.AuthSvc
	userService portssvc.UserSvc
}

func newAuthHandler(as portssvc.AuthSvc, us portssvc.UserSvc) *authHandler {
	return &authHandler{authService: as, userService: us}
}

// registerAuthRoutes sets up the public login route behind the IP rate limiter.
func registerAuthRoutes(r *gin.Engine, h *authHandler, loginLimiter *limiter.Limiter) {
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
	}
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT carrying the user's role.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, logger, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}

// me godoc
// @Summary Current user
// @Description Returns the authenticated user.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *authHandler) me(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to load current user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
