package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/handlers"
)

func registerNotificationRoutes(api *gin.RouterGroup, deps Deps) error {
	handler, err := handlers.NewNotificationHandler(deps.DB, deps.Hub, deps.JWT)
	if err != nil {
		return err
	}

	group := api.Group("/notifications")
	{
		group.GET("", handler.List)
		group.GET("/unread-count", handler.UnreadCount)
		group.POST("/read-all", handler.MarkAllRead)
		group.POST("/:id/read", handler.MarkRead)
		group.GET("/stream", handler.Stream)
	}

	return nil
}
