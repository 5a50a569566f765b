package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/student_savings_app/internal/core/domain"
	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the administrator reports.
type reportingHandler struct {
	ledgerService portssvc.LedgerQuerySvc
	loc           *time.Location
	now           func() time.Time
}

func newReportingHandler(ls portssvc.LedgerQuerySvc, loc *time.Location) *reportingHandler {
	return &reportingHandler{ledgerService: ls, loc: loc, now: time.Now}
}

func registerReportingRoutes(rg *gin.RouterGroup, h *reportingHandler) {
	rg.GET("/staff/:staffID/transactions", h.listStaffTransactions)

	reports := rg.Group("/reports")
	{
		reports.GET("/transactions", h.transactionReport)
		reports.GET("/daily-summary", h.dailySummary)
	}
}

// listStaffTransactions godoc
// @Summary Postings by a staff member
// @Tags reports
// @Produce json
// @Param staffID path string true "Staff ID"
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Success 200 {object} dto.ListStaffEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /staff/{staffID}/transactions [get]
func (h *reportingHandler) listStaffTransactions(c *gin.Context) {
	listStaffEntries(c, h.ledgerService, h.loc, c.Param("staffID"))
}

// transactionReport godoc
// @Summary Transaction report
// @Description Lists entries matching every given filter, newest first. Dates are inclusive calendar days.
// @Tags reports
// @Produce json
// @Param startDate query string false "First day (YYYY-MM-DD)"
// @Param endDate query string false "Last day (YYYY-MM-DD)"
// @Param studentID query string false "Student ID"
// @Param classID query string false "Class ID"
// @Param type query string false "DEPOSIT or WITHDRAWAL"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/transactions [get]
func (h *reportingHandler) transactionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	filter := domain.ReportFilter{
		StudentID: optional(params.StudentID),
		ClassID:   optional(params.ClassID),
	}
	var err error
	if filter.StartDate, err = parseDay(params.StartDate, h.loc, "startDate"); err != nil {
		respondError(c, logger, err, "Invalid startDate")
		return
	}
	if filter.EndDate, err = parseDay(params.EndDate, h.loc, "endDate"); err != nil {
		respondError(c, logger, err, "Invalid endDate")
		return
	}
	if params.Type != "" {
		t := domain.EntryType(params.Type)
		filter.Type = &t
	}

	rows, err := h.ledgerService.Report(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(rows))
}

// dailySummary godoc
// @Summary Daily summary
// @Description Counts and totals deposits and withdrawals of one calendar day. Defaults to today.
// @Tags reports
// @Produce json
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Success 200 {object} dto.DailySummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/daily-summary [get]
func (h *reportingHandler) dailySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, err := parseDay(c.Query("date"), h.loc, "date")
	if err != nil {
		respondError(c, logger, err, "Invalid date")
		return
	}
	day := h.now().In(h.loc)
	if date != nil {
		day = *date
	}

	summary, err := h.ledgerService.DailySummary(c.Request.Context(), day)
	if err != nil {
		respondError(c, logger, err, "Failed to build daily summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToDailySummaryResponse(summary))
}
