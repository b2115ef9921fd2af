package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/scheduler"
	"github.com/rverbytskyi/planora/pkg/response"
)

// AdminHandler exposes operational endpoints for administrators.
type AdminHandler struct {
	reminder *scheduler.Reminder
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(reminder *scheduler.Reminder) *AdminHandler {
	return &AdminHandler{reminder: reminder}
}

// RunReminders triggers a reminder pass immediately. The pass is
// idempotent, so a manual run after the scheduled one sends nothing.
func (h *AdminHandler) RunReminders(c *gin.Context) {
	if err := h.reminder.RunOnce(requestContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"completed": true})
}
