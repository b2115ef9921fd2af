package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/response"
)

// CatalogHandler exposes the country, city and activity catalogs.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(db *gorm.DB) (*CatalogHandler, error) {
	service, err := services.NewCatalogService(db)
	if err != nil {
		return nil, err
	}
	return &CatalogHandler{service: service}, nil
}

// ListCountries returns the country catalog.
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	includeInactive := strings.EqualFold(c.Query("include_inactive"), "true")
	countries, err := h.service.ListCountries(requestContext(c), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, countries)
}

// GetCountry returns one country with its cities.
func (h *CatalogHandler) GetCountry(c *gin.Context) {
	country, err := h.service.GetCountry(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, country)
}

// CreateCountry registers a country (admin only).
func (h *CatalogHandler) CreateCountry(c *gin.Context) {
	var payload services.CountryInput
	if !bindAndValidate(c, &payload) {
		return
	}

	country, err := h.service.CreateCountry(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, country)
}

// UpdateCountry edits a country (admin only).
func (h *CatalogHandler) UpdateCountry(c *gin.Context) {
	var payload services.CountryInput
	if !bindAndValidate(c, &payload) {
		return
	}

	country, err := h.service.UpdateCountry(requestContext(c), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, country)
}

// ListCities returns the city catalog, optionally filtered by country.
func (h *CatalogHandler) ListCities(c *gin.Context) {
	cities, err := h.service.ListCities(requestContext(c), c.Query("country_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, cities)
}

// GetCity returns one city with its activities.
func (h *CatalogHandler) GetCity(c *gin.Context) {
	city, err := h.service.GetCity(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, city)
}

// CreateCity registers a city (admin only).
func (h *CatalogHandler) CreateCity(c *gin.Context) {
	var payload services.CityInput
	if !bindAndValidate(c, &payload) {
		return
	}

	city, err := h.service.CreateCity(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, city)
}

// UpdateCity edits a city (admin only).
func (h *CatalogHandler) UpdateCity(c *gin.Context) {
	var payload services.CityInput
	if !bindAndValidate(c, &payload) {
		return
	}

	city, err := h.service.UpdateCity(requestContext(c), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, city)
}

// ListActivities returns activities, optionally filtered by city.
func (h *CatalogHandler) ListActivities(c *gin.Context) {
	activities, err := h.service.ListActivities(requestContext(c), c.Query("city_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, activities)
}

// GetActivity returns one activity.
func (h *CatalogHandler) GetActivity(c *gin.Context) {
	activity, err := h.service.GetActivity(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, activity)
}

// CreateActivity registers an activity (admin only).
func (h *CatalogHandler) CreateActivity(c *gin.Context) {
	var payload services.ActivityInput
	if !bindAndValidate(c, &payload) {
		return
	}

	activity, err := h.service.CreateActivity(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, activity)
}

// UpdateActivity edits an activity (admin only).
func (h *CatalogHandler) UpdateActivity(c *gin.Context) {
	var payload services.ActivityInput
	if !bindAndValidate(c, &payload) {
		return
	}

	activity, err := h.service.UpdateActivity(requestContext(c), c.Param("id"), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, activity)
}
