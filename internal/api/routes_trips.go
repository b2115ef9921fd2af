package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/handlers"
)

func registerTripRoutes(api *gin.RouterGroup, deps Deps) error {
	handler, err := handlers.NewTripHandler(deps.Trips, deps.Status)
	if err != nil {
		return err
	}

	trips := api.Group("/trips")
	{
		trips.GET("", handler.List)
		trips.POST("", handler.Create)
		trips.GET("/countdown", handler.Countdowns)
		trips.GET("/:id", handler.Get)
		trips.PUT("/:id", handler.Update)
		trips.PATCH("/:id/status", handler.UpdateStatus)
		trips.POST("/:id/cancel", handler.Cancel)
		trips.GET("/:id/countdown", handler.Countdown)
	}

	return nil
}
