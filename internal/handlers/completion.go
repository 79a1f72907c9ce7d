package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-backend/internal/services"
)

type CompletionHandler struct {
	completionService services.CompletionService
}

func NewCompletionHandler(completionService services.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

type logCompletionRequest struct {
	Date  string `json:"date" binding:"required"`
	Count int    `json:"count"`
	Note  string `json:"note"`
}

func (h *CompletionHandler) LogCompletion(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	var req logCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid completion payload")
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	row, err := h.completionService.LogCompletion(c.Request.Context(), services.LogCompletionInput{
		HabitID: habitID,
		Date:    req.Date,
		Count:   req.Count,
		Note:    req.Note,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, row)
}

func (h *CompletionHandler) ListLogs(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	logs, err := h.completionService.ListLogs(c.Request.Context(), habitID, c.Query("start"), c.Query("end"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, logs)
}

func (h *CompletionHandler) ConsistencyScore(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	score, err := h.completionService.ConsistencyScore(c.Request.Context(), habitID, c.Query("start"), c.Query("end"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"score": score})
}
