package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rcmbooks/internal/ledger"
	"rcmbooks/internal/middleware"
	"rcmbooks/internal/port"
	"rcmbooks/internal/service"
)

// LedgerHandler exposes the electronic credit ledger.
type LedgerHandler struct {
	ledgerService service.LedgerService
	regRepo       port.RegistrationRepository
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService service.LedgerService, regRepo port.RegistrationRepository) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, regRepo: regRepo}
}

// Balance handles GET /api/v1/ledger/balance
// Optional ?as_of=YYYY-MM-DD returns the balance at a past date.
func (h *LedgerHandler) Balance(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	if asOf := c.Query("as_of"); asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "as_of must be YYYY-MM-DD")
			return
		}
		balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), registrationID, t)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, balance)
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), registrationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, balance)
}

// Statement handles GET /api/v1/ledger/statement
func (h *LedgerHandler) Statement(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	entries, err := h.ledgerService.Statement(c.Request.Context(), registrationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entries)
}

// UtilizeInput is the output-liability payload for a set-off run.
type UtilizeInput struct {
	Liability ledger.Liability `json:"liability" binding:"required"`
	EntryDate time.Time        `json:"entry_date" binding:"required"`
}

// Utilize handles POST /api/v1/ledger/utilize
func (h *LedgerHandler) Utilize(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	var input UtilizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reg, err := h.regRepo.GetByID(c.Request.Context(), registrationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	utilization, err := h.ledgerService.Utilize(c.Request.Context(), reg, input.Liability, input.EntryDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, utilization)
}
