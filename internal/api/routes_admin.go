package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/handlers"
	"github.com/rverbytskyi/planora/internal/middleware"
)

func registerAdminRoutes(api *gin.RouterGroup, deps Deps) {
	if deps.Reminder == nil {
		return
	}

	handler := handlers.NewAdminHandler(deps.Reminder)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.POST("/reminders/run", handler.RunReminders)
	}
}
