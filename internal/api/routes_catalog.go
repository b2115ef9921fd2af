package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/handlers"
	"github.com/rverbytskyi/planora/internal/middleware"
)

func registerCatalogRoutes(api *gin.RouterGroup, deps Deps) error {
	handler, err := handlers.NewCatalogHandler(deps.DB)
	if err != nil {
		return err
	}

	admin := middleware.AdminOnly()

	countries := api.Group("/countries")
	{
		countries.GET("", handler.ListCountries)
		countries.GET("/:id", handler.GetCountry)
		countries.POST("", admin, handler.CreateCountry)
		countries.PUT("/:id", admin, handler.UpdateCountry)
	}

	cities := api.Group("/cities")
	{
		cities.GET("", handler.ListCities)
		cities.GET("/:id", handler.GetCity)
		cities.POST("", admin, handler.CreateCity)
		cities.PUT("/:id", admin, handler.UpdateCity)
	}

	activities := api.Group("/activities")
	{
		activities.GET("", handler.ListActivities)
		activities.GET("/:id", handler.GetActivity)
		activities.POST("", admin, handler.CreateActivity)
		activities.PUT("/:id", admin, handler.UpdateActivity)
	}

	return nil
}
