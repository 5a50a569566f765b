package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// directoryHandler handles administrator management of users, classes,
// students and staff.
type directoryHandler struct {
	directoryService portssvc.DirectorySvcFacade
}

func newDirectoryHandler(ds portssvc.DirectorySvcFacade) *directoryHandler {
	return &directoryHandler{directoryService: ds}
}

// registerDirectoryRoutes registers the administrator-only directory routes.
func registerDirectoryRoutes(rg *gin.RouterGroup, h *directoryHandler) {
	users := rg.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.PATCH("/:userID/active", h.setUserActive)
	}

	rg.POST("/classes", h.createClass)
	rg.POST("/students", h.createStudent)

	staff := rg.Group("/staff")
	{
		staff.POST("", h.createStaff)
		staff.GET("", h.listStaff)
		staff.GET("/:staffID", h.getStaff)
	}
}

// actorID returns the authenticated user, answering 401 when it is missing.
func actorID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// createUser godoc
// @Summary Create an administrator
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /users [post]
func (h *directoryHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	user, err := h.directoryService.CreateUser(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create user")
		return
	}
	logger.Info("User created", slog.String("new_user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Limit number of results" default(20)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *directoryHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	users, err := h.directoryService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// setUserActive godoc
// @Summary Enable or disable a user
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param body body dto.SetUserActiveRequest true "Active flag"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{userID}/active [patch]
func (h *directoryHandler) setUserActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	user, err := h.directoryService.SetUserActive(c.Request.Context(), c.Param("userID"), *req.IsActive, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// createClass godoc
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Param class body dto.CreateClassRequest true "Class details"
// @Success 201 {object} dto.ClassResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /classes [post]
func (h *directoryHandler) createClass(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	class, err := h.directoryService.CreateClass(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create class")
		return
	}
	c.JSON(http.StatusCreated, dto.ToClassResponse(class))
}

// listClasses godoc
// @Summary List classes
// @Tags classes
// @Produce json
// @Success 200 {object} dto.ListClassesResponse
// @Security BearerAuth
// @Router /classes [get]
func (h *directoryHandler) listClasses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	classes, err := h.directoryService.ListClasses(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list classes")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClassesResponse(classes))
}

// createStudent godoc
// @Summary Enrol a student
// @Description Creates the login, the student profile and a zero balance account.
// @Tags students
// @Accept json
// @Produce json
// @Param student body dto.CreateStudentRequest true "Student details"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /students [post]
func (h *directoryHandler) createStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	student, err := h.directoryService.CreateStudent(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create student")
		return
	}
	logger.Info("Student created", slog.String("student_id", student.StudentID))
	c.JSON(http.StatusCreated, dto.ToStudentResponse(student))
}

// createStaff godoc
// @Summary Register a staff member
// @Tags staff
// @Accept json
// @Produce json
// @Param staff body dto.CreateStaffRequest true "Staff details"
// @Success 201 {object} dto.StaffResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff [post]
func (h *directoryHandler) createStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	staff, err := h.directoryService.CreateStaff(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create staff")
		return
	}
	logger.Info("Staff created", slog.String("staff_id", staff.StaffID))
	c.JSON(http.StatusCreated, dto.ToStaffResponse(staff))
}

// listStaff godoc
// @Summary List staff
// @Tags staff
// @Produce json
// @Success 200 {object} dto.ListStaffResponse
// @Security BearerAuth
// @Router /staff [get]
func (h *directoryHandler) listStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	staff, err := h.directoryService.ListStaff(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list staff")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStaffResponse(staff))
}

// getStaff godoc
// @Summary Get a staff member
// @Tags staff
// @Produce json
// @Param staffID path string true "Staff ID"
// @Success 200 {object} dto.StaffResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff/{staffID} [get]
func (h *directoryHandler) getStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	staff, err := h.directoryService.GetStaff(c.Request.Context(), c.Param("staffID"))
	if err != nil {
		respondError(c, logger, err, "Failed to load staff")
		return
	}
	c.JSON(http.StatusOK, dto.ToStaffResponse(staff))
}
