package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rcmbooks/internal/middleware"
	"rcmbooks/internal/service"
)

// ComplianceHandler handles payment compliance tracking endpoints.
type ComplianceHandler struct {
	complianceService service.ComplianceService
}

// NewComplianceHandler creates a new ComplianceHandler.
func NewComplianceHandler(complianceService service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

// Refresh handles POST /api/v1/periods/:period/compliance
func (h *ComplianceHandler) Refresh(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	records, err := h.complianceService.Refresh(c.Request.Context(), registrationID, period, time.Now().UTC())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// ListByPeriod handles GET /api/v1/periods/:period/compliance
func (h *ComplianceHandler) ListByPeriod(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	records, err := h.complianceService.ListByPeriod(c.Request.Context(), registrationID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// GetByTransaction handles GET /api/v1/transactions/:id/compliance
func (h *ComplianceHandler) GetByTransaction(c *gin.Context) {
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

	rec, err := h.complianceService.GetByTransaction(c.Request.Context(), registrationID, txID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// SendReminders handles POST /api/v1/compliance/reminders
func (h *ComplianceHandler) SendReminders(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	sent, err := h.complianceService.SendReminders(c.Request.Context(), registrationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"reminders_sent": sent})
}
