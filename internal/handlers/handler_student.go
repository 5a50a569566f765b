package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// studentHandler serves balances and histories, both to students looking at
// their own account and to staff looking up a student.
type studentHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	profileService portssvc.ProfileSvc
}

func newStudentHandler(ls portssvc.LedgerSvcFacade, ps portssvc.ProfileSvc) *studentHandler {
	return &studentHandler{ledgerService: ls, profileService: ps}
}

// registerStudentSelfRoutes registers the student dashboard.
func registerStudentSelfRoutes(rg *gin.RouterGroup, h *studentHandler) {
	me := rg.Group("/me")
	{
		me.GET("/balance", h.getMyBalance)
		me.GET("/transactions", h.listMyTransactions)
	}
}

// registerStudentLookupRoutes registers the read-only student views used by staff.
func registerStudentLookupRoutes(rg *gin.RouterGroup, h *studentHandler) {
	students := rg.Group("/students")
	{
		students.GET("", h.listStudents)
		students.GET("/:studentID", h.getStudent)
		students.GET("/:studentID/transactions", h.listStudentTransactions)
	}
}

// getMyBalance godoc
// @Summary My balance
// @Tags students
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/balance [get]
func (h *studentHandler) getMyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.ledgerService.GetBalance(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, logger, err, "Failed to load balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(account))
}

// listMyTransactions godoc
// @Summary My transaction history
// @Description Lists every entry on the authenticated student's account, newest first.
// @Tags students
// @Produce json
// @Success 200 {object} dto.ListStudentEntriesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/transactions [get]
func (h *studentHandler) listMyTransactions(c *gin.Context) {
	studentID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	h.writeStudentEntries(c, studentID)
}

// listStudents godoc
// @Summary List students
// @Tags students
// @Produce json
// @Param classID query string false "Restrict to one class"
// @Success 200 {object} dto.ListStudentsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /students [get]
func (h *studentHandler) listStudents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListStudentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	students, err := h.profileService.ListStudents(c.Request.Context(), optional(params.ClassID))
	if err != nil {
		respondError(c, logger, err, "Failed to list students")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStudentsResponse(students))
}

// getStudent godoc
// @Summary Get a student
// @Description Returns the student's profile with the current balance.
// @Tags students
// @Produce json
// @Param studentID path string true "Student ID"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /students/{studentID} [get]
func (h *studentHandler) getStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	student, err := h.profileService.GetStudent(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		respondError(c, logger, err, "Failed to load student")
		return
	}
	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

// listStudentTransactions godoc
// @Summary A student's transaction history
// @Tags students
// @Produce json
// @Param studentID path string true "Student ID"
// @Success 200 {object} dto.ListStudentEntriesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /students/{studentID}/transactions [get]
func (h *studentHandler) listStudentTransactions(c *gin.Context) {
	h.writeStudentEntries(c, c.Param("studentID"))
}

func (h *studentHandler) writeStudentEntries(c *gin.Context, studentID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.ledgerService.EntriesByStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, logger, err, "Failed to list student transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStudentEntriesResponse(rows))
}
