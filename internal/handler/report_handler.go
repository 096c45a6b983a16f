package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rcmbooks/internal/gstr3b"
	"rcmbooks/internal/middleware"
	"rcmbooks/internal/port"
	"rcmbooks/internal/service"
)

// ReportHandler handles GSTR-3B report and period lifecycle endpoints.
type ReportHandler struct {
	reportService service.ReportService
	periodRepo    port.PeriodRepository
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, periodRepo port.PeriodRepository) *ReportHandler {
	return &ReportHandler{reportService: reportService, periodRepo: periodRepo}
}

// Build handles GET /api/v1/periods/:period/report
func (h *ReportHandler) Build(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	report, err := h.reportService.Build(c.Request.Context(), registrationID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Validate handles GET /api/v1/periods/:period/report/validate
func (h *ReportHandler) Validate(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	report, violations, err := h.reportService.Validate(c.Request.Context(), registrationID, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"report": report, "violations": violations})
}

// ReconcileWithBooks handles POST /api/v1/periods/:period/report/books
func (h *ReportHandler) ReconcileWithBooks(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	var books gstr3b.BookTotals
	if err := c.ShouldBindJSON(&books); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	adjustments, err := h.reportService.ReconcileWithBooks(c.Request.Context(), registrationID, period, books)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"adjustments": adjustments})
}

// File handles POST /api/v1/periods/:period/report/file
func (h *ReportHandler) File(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}
	period := c.Param("period")

	archiveURL, err := h.reportService.File(c.Request.Context(), registrationID, period, time.Now().UTC())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"archive_url": archiveURL})
}

// ListPeriods handles GET /api/v1/periods
func (h *ReportHandler) ListPeriods(c *gin.Context) {
	registrationID, err := middleware.GetRegistrationID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing registration context")
		return
	}

	periods, err := h.periodRepo.List(c.Request.Context(), registrationID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, periods)
}
