package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/handlers"
)

func registerGeoRoutes(api *gin.RouterGroup, deps Deps) {
	handler := handlers.NewGeoHandler(deps.Weather, deps.Geocoding, deps.Nominatim, deps.Maps)

	api.GET("/cities/:id/weather", handler.CityWeather)

	geo := api.Group("/geo")
	{
		geo.GET("/weather", handler.Weather)
		geo.GET("/geocode", handler.Geocode)
		geo.GET("/forward", handler.Forward)
		geo.GET("/reverse", handler.Reverse)
		geo.GET("/route", handler.Route)
		geo.GET("/nearby", handler.Nearby)
	}
}
