package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/middleware"
	"rcmbooks/internal/port"
	"rcmbooks/internal/service"
)

// TransactionHandler handles the reverse-charge transaction lifecycle:
// record, pay, evaluate credit.
type TransactionHandler struct {
	rcmService service.RCMService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(rcmService service.RCMService) *TransactionHandler {
	return &TransactionHandler{rcmService: rcmService}
}

// Create handles POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	registrationID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tx, err := h.rcmService.RecordTransaction(c.Request.Context(), registrationID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, tx)
}

// List handles GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filter := port.TransactionFilter{
		ReturnPeriod:   c.Query("period"),
		Classification: domain.RCMCategory(c.Query("classification")),
		PaymentStatus:  domain.PaymentStatus(c.Query("payment_status")),
		SupplierGSTIN:  c.Query("supplier_gstin"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t
		}
	}

	txs, total, err := h.rcmService.ListTransactions(c.Request.Context(), registrationID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, txs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid transaction ID")
		return
	}

	tx, err := h.rcmService.GetTransaction(c.Request.Context(), registrationID, txID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tx)
}

// Delete handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid transaction ID")
		return
	}

	if err := h.rcmService.DeleteTransaction(c.Request.Context(), registrationID, txID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": true})
}

// RecordPayment handles POST /api/v1/transactions/:id/payment
func (h *TransactionHandler) RecordPayment(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid transaction ID")
		return
	}

	var input service.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tx, err := h.rcmService.RecordPayment(c.Request.Context(), registrationID, txID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tx)
}

// EvaluateITC handles POST /api/v1/transactions/:id/itc
func (h *TransactionHandler) EvaluateITC(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid transaction ID")
		return
	}

	var input service.EvaluateITCInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.rcmService.EvaluateITC(c.Request.Context(), registrationID, txID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ITCHistory handles GET /api/v1/transactions/:id/itc
func (h *TransactionHandler) ITCHistory(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid transaction ID")
		return
	}

	history, err := h.rcmService.ITCHistory(c.Request.Context(), registrationID, txID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, history)
}
