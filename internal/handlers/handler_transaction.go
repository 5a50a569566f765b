package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/student_savings_app/internal/core/ports/services"
	"github.com/SscSPs/student_savings_app/internal/dto"
	"github.com/SscSPs/student_savings_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves the staff dashboard: posting and the staff
// member's own history.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	loc           *time.Location
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade, loc *time.Location) *transactionHandler {
	return &transactionHandler{ledgerService: ls, loc: loc}
}

func registerTransactionRoutes(rg *gin.RouterGroup, h *transactionHandler) {
	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.postTransaction)
		transactions.GET("/mine", h.listMine)
	}
}

// postTransaction godoc
// @Summary Record a deposit or withdrawal
// @Description Applies the transaction to the student's balance and appends a ledger entry atomically. The authenticated staff member is recorded as the author.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.PostTransactionRequest true "Transaction details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or request"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger.Info("Received request to post transaction",
		slog.String("student_id", req.StudentID),
		slog.String("type", string(req.Type)),
		slog.String("amount", req.Amount.String()))

	entry, err := h.ledgerService.PostTransaction(c.Request.Context(), staffID, req.StudentID, req.Type, req.Amount, req.Description)
	if err != nil {
		respondError(c, logger, err, "Failed to post transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(*entry))
}

// listMine godoc
// @Summary List my postings
// @Description Lists the entries the authenticated staff member posted, newest first, optionally for one calendar day.
// @Tags transactions
// @Produce json
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Success 200 {object} dto.ListStaffEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/mine [get]
func (h *transactionHandler) listMine(c *gin.Context) {
	staffID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	listStaffEntries(c, h.ledgerService, h.loc, staffID)
}

// listStaffEntries answers both the staff member's own history and the
// administrator's view of any staff member.
func listStaffEntries(c *gin.Context, ls portssvc.LedgerQuerySvc, loc *time.Location, staffID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StaffEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}
	date, err := parseDay(params.Date, loc, "date")
	if err != nil {
		respondError(c, logger, err, "Invalid date")
		return
	}

	rows, err := ls.EntriesByStaff(c.Request.Context(), staffID, date)
	if err != nil {
		respondError(c, logger, err, "Failed to list staff transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStaffEntriesResponse(rows))
}
