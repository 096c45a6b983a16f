package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/middleware"
	"rcmbooks/internal/service"
)

// ReconciliationHandler handles GSTR-2B import and reconciliation endpoints.
type ReconciliationHandler struct {
	reconService service.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconService: reconService}
}

// ImportFeedInput is the wholesale GSTR-2B statement for one period.
type ImportFeedInput struct {
	Entries []domain.GSTR2BEntry `json:"entries" binding:"required"`
}

// ImportFeed handles PUT /api/v1/periods/:period/gstr2b
func (h *ReconciliationHandler) ImportFeed(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	var input ImportFeedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.reconService.ImportFeed(c.Request.Context(), registrationID, period, input.Entries); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "gstr-2b feed imported", "entries": len(input.Entries)})
}

// Run handles POST /api/v1/periods/:period/reconciliation
func (h *ReconciliationHandler) Run(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	result, err := h.reconService.Run(c.Request.Context(), registrationID, period, time.Now().UTC())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Get handles GET /api/v1/periods/:period/reconciliation
func (h *ReconciliationHandler) Get(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	result, err := h.reconService.Get(c.Request.Context(), registrationID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// ExportCSV handles GET /api/v1/periods/:period/reconciliation/export
func (h *ReconciliationHandler) ExportCSV(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	url, err := h.reconService.ExportCSV(c.Request.Context(), registrationID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}
