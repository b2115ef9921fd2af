package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/models"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

// CountryInput defines attributes for creating or updating a country.
type CountryInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Code     string `json:"code" validate:"required,len=2,alpha"`
	IsActive *bool  `json:"is_active"`
}

// CityInput defines attributes for creating or updating a city.
type CityInput struct {
	CountryID   string  `json:"country_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	IsActive    *bool   `json:"is_active"`
}

// ActivityInput defines attributes for creating or updating an activity.
type ActivityInput struct {
	CityID       string  `json:"city_id" validate:"required"`
	Name         string  `json:"name" validate:"required,max=255"`
	Description  string  `json:"description"`
	Category     string  `json:"category" validate:"max=64"`
	UnitPrice    float64 `json:"unit_price" validate:"min=0"`
	DurationType string  `json:"duration_type" validate:"required,oneof=HOURS DAYS"`
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
	IsActive     *bool   `json:"is_active"`
}

// CatalogService manages the country, city and activity catalogs.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) (*CatalogService, error) {
	if db == nil {
		return nil, errors.New("catalog service: db is required")
	}
	return &CatalogService{db: db}, nil
}

// ListCountries returns active countries ordered by name.
func (s *CatalogService) ListCountries(ctx context.Context, includeInactive bool) ([]models.Country, error) {
	ctx = ensureContext(ctx)
	query := s.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var countries []models.Country
	if err := query.Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("catalog service: list countries: %w", err)
	}
	return countries, nil
}

// GetCountry loads a country together with its active cities.
func (s *CatalogService) GetCountry(ctx context.Context, id string) (*models.Country, error) {
	ctx = ensureContext(ctx)
	var country models.Country
	if err := s.db.WithContext(ctx).
		Preload("Cities", "is_active = ?", true).
		Where("id = ?", id).
		First(&country).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("catalog service: load country: %w", err)
	}
	return &country, nil
}

// CreateCountry registers a new country.
func (s *CatalogService) CreateCountry(ctx context.Context, input CountryInput) (*models.Country, error) {
	ctx = ensureContext(ctx)
	country := models.Country{
		Name:     strings.TrimSpace(input.Name),
		Code:     strings.ToUpper(strings.TrimSpace(input.Code)),
		IsActive: boolOrDefault(input.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(&country).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("Country already exists")
		}
		return nil, fmt.Errorf("catalog service: create country: %w", err)
	}
	return &country, nil
}

// UpdateCountry edits an existing country.
func (s *CatalogService) UpdateCountry(ctx context.Context, id string, input CountryInput) (*models.Country, error) {
	ctx = ensureContext(ctx)
	var country models.Country
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&country).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("catalog service: load country: %w", err)
	}

	country.Name = strings.TrimSpace(input.Name)
	country.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	country.IsActive = boolOrDefault(input.IsActive, country.IsActive)

	if err := s.db.WithContext(ctx).Save(&country).Error; err != nil {
		return nil, fmt.Errorf("catalog service: update country: %w", err)
	}
	return &country, nil
}

// ListCities returns active cities, optionally filtered by country.
func (s *CatalogService) ListCities(ctx context.Context, countryID string) ([]models.City, error) {
	ctx = ensureContext(ctx)
	query := s.db.WithContext(ctx).
		Preload("Country").
		Where("is_active = ?", true).
		Order("name ASC")
	if countryID != "" {
		query = query.Where("country_id = ?", countryID)
	}

	var cities []models.City
	if err := query.Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("catalog service: list cities: %w", err)
	}
	return cities, nil
}

// GetCity loads a city together with its active activities.
func (s *CatalogService) GetCity(ctx context.Context, id string) (*models.City, error) {
	ctx = ensureContext(ctx)
	var city models.City
	if err := s.db.WithContext(ctx).
		Preload("Country").
		Preload("Activities", "is_active = ?", true).
		Where("id = ?", id).
		First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("catalog service: load city: %w", err)
	}
	return &city, nil
}

// CreateCity registers a new city under an existing country.
func (s *CatalogService) CreateCity(ctx context.Context, input CityInput) (*models.City, error) {
	ctx = ensureContext(ctx)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Country{}).
		Where("id = ?", input.CountryID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("catalog service: check country: %w", err)
	}
	if count == 0 {
		return nil, apperrors.NewBadRequest("Unknown country")
	}

	city := models.City{
		CountryID:   input.CountryID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsActive:    boolOrDefault(input.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(&city).Error; err != nil {
		return nil, fmt.Errorf("catalog service: create city: %w", err)
	}
	return &city, nil
}

// UpdateCity edits an existing city.
func (s *CatalogService) UpdateCity(ctx context.Context, id string, input CityInput) (*models.City, error) {
	ctx = ensureContext(ctx)
	var city models.City
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("catalog service: load city: %w", err)
	}

	city.Name = strings.TrimSpace(input.Name)
	city.Description = strings.TrimSpace(input.Description)
	city.Latitude = input.Latitude
	city.Longitude = input.Longitude
	city.IsActive = boolOrDefault(input.IsActive, city.IsActive)

	if err := s.db.WithContext(ctx).Save(&city).Error; err != nil {
		return nil, fmt.Errorf("catalog service: update city: %w", err)
	}
	return &city, nil
}

// ListActivities returns active activities, optionally filtered by city.
func (s *CatalogService) ListActivities(ctx context.Context, cityID string) ([]models.Activity, error) {
	ctx = ensureContext(ctx)
	query := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC")
	if cityID != "" {
		query = query.Where("city_id = ?", cityID)
	}

	var activities []models.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("catalog service: list activities: %w", err)
	}
	return activities, nil
}

// GetActivity loads a single activity.
func (s *CatalogService) GetActivity(ctx context.Context, id string) (*models.Activity, error) {
	ctx = ensureContext(ctx)
	var activity models.Activity
	if err := s.db.WithContext(ctx).
		Preload("City").
		Where("id = ?", id).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("catalog service: load activity: %w", err)
	}
	return &activity, nil
}

// CreateActivity registers a new activity under an existing city.
func (s *CatalogService) CreateActivity(ctx context.Context, input ActivityInput) (*models.Activity, error) {
	ctx = ensureContext(ctx)

	durationType := models.DurationType(strings.ToUpper(strings.TrimSpace(input.DurationType)))
	if !durationType.Valid() {
		return nil, apperrors.NewBadRequest("Duration type must be HOURS or DAYS")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.City{}).
		Where("id = ?", input.CityID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("catalog service: check city: %w", err)
	}
	if count == 0 {
		return nil, apperrors.NewBadRequest("Unknown city")
	}

	activity := models.Activity{
		CityID:       input.CityID,
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		Category:     strings.TrimSpace(input.Category),
		UnitPrice:    input.UnitPrice,
		DurationType: durationType,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		IsActive:     boolOrDefault(input.IsActive, true),
	}
	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		return nil, fmt.Errorf("catalog service: create activity: %w", err)
	}
	return &activity, nil
}

// UpdateActivity edits an existing activity.
func (s *CatalogService) UpdateActivity(ctx context.Context, id string, input ActivityInput) (*models.Activity, error) {
	ctx = ensureContext(ctx)
	var activity models.Activity
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("catalog service: load activity: %w", err)
	}

	durationType := models.DurationType(strings.ToUpper(strings.TrimSpace(input.DurationType)))
	if !durationType.Valid() {
		return nil, apperrors.NewBadRequest("Duration type must be HOURS or DAYS")
	}

	activity.Name = strings.TrimSpace(input.Name)
	activity.Description = strings.TrimSpace(input.Description)
	activity.Category = strings.TrimSpace(input.Category)
	activity.UnitPrice = input.UnitPrice
	activity.DurationType = durationType
	activity.Latitude = input.Latitude
	activity.Longitude = input.Longitude
	activity.IsActive = boolOrDefault(input.IsActive, activity.IsActive)

	if err := s.db.WithContext(ctx).Save(&activity).Error; err != nil {
		return nil, fmt.Errorf("catalog service: update activity: %w", err)
	}
	return &activity, nil
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
