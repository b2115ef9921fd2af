package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/geo"
	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/errors"
	"github.com/rverbytskyi/planora/pkg/response"
)

// GeoHandler exposes weather, geocoding and map proxy endpoints.
type GeoHandler struct {
	weather   *services.WeatherService
	geocoding *geo.GeocodingClient
	nominatim *geo.NominatimClient
	maps      *geo.MapsClient
}

// NewGeoHandler constructs a geo handler.
func NewGeoHandler(weather *services.WeatherService, geocoding *geo.GeocodingClient, nominatim *geo.NominatimClient, maps *geo.MapsClient) *GeoHandler {
	return &GeoHandler{
		weather:   weather,
		geocoding: geocoding,
		nominatim: nominatim,
		maps:      maps,
	}
}

// CityWeather returns the forecast for a catalog city.
func (h *GeoHandler) CityWeather(c *gin.Context) {
	forecast, err := h.weather.ForecastForCity(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, forecast)
}

// Weather returns the forecast for arbitrary coordinates.
func (h *GeoHandler) Weather(c *gin.Context) {
	lat, okLat := parseFloatQuery(c, "lat")
	lon, okLon := parseFloatQuery(c, "lon")
	if !okLat || !okLon {
		response.Error(c, errors.NewBadRequest("lat and lon query parameters are required"))
		return
	}

	forecast, err := h.weather.ForecastForCoordinates(requestContext(c), lat, lon)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, forecast)
}

// Geocode resolves a place name to coordinates.
func (h *GeoHandler) Geocode(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, errors.NewBadRequest("name query parameter is required"))
		return
	}

	places, err := h.geocoding.Search(requestContext(c), name, parseIntQuery(c, "limit", 5))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, places)
}

// Forward resolves a free-form address via Nominatim.
func (h *GeoHandler) Forward(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.Error(c, errors.NewBadRequest("q query parameter is required"))
		return
	}

	places, err := h.nominatim.Forward(requestContext(c), query, parseIntQuery(c, "limit", 5))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, places)
}

// Reverse resolves coordinates to the nearest address via Nominatim.
func (h *GeoHandler) Reverse(c *gin.Context) {
	lat, okLat := parseFloatQuery(c, "lat")
	lon, okLon := parseFloatQuery(c, "lon")
	if !okLat || !okLon {
		response.Error(c, errors.NewBadRequest("lat and lon query parameters are required"))
		return
	}

	place, err := h.nominatim.Reverse(requestContext(c), lat, lon)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, place)
}

// Route computes a driving route between two coordinates via OSRM.
func (h *GeoHandler) Route(c *gin.Context) {
	fromLat, ok1 := parseFloatQuery(c, "from_lat")
	fromLon, ok2 := parseFloatQuery(c, "from_lon")
	toLat, ok3 := parseFloatQuery(c, "to_lat")
	toLon, ok4 := parseFloatQuery(c, "to_lon")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		response.Error(c, errors.NewBadRequest("from_lat, from_lon, to_lat and to_lon query parameters are required"))
		return
	}

	route, err := h.maps.Route(requestContext(c), fromLat, fromLon, toLat, toLon)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, route)
}

// Nearby finds points of interest around a coordinate via Overpass.
func (h *GeoHandler) Nearby(c *gin.Context) {
	lat, okLat := parseFloatQuery(c, "lat")
	lon, okLon := parseFloatQuery(c, "lon")
	if !okLat || !okLon {
		response.Error(c, errors.NewBadRequest("lat and lon query parameters are required"))
		return
	}

	places, err := h.maps.Nearby(requestContext(c), lat, lon,
		parseIntQuery(c, "radius", 1000), c.Query("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, places)
}
