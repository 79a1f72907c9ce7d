package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/habitflow/habitflow-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "invalid category_id")
			return
		}
		categoryID = &id
	}
	report, err := h.reportService.GenerateReport(c.Request.Context(), c.Query("start"), c.Query("end"), categoryID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, report)
}
