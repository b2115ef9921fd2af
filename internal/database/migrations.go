package database

import (
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Country{},
		&models.City{},
		&models.Activity{},
		&models.Trip{},
		&models.TripNotification{},
	)
}

// SeedData populates a starter catalog so a fresh install is browsable.
func SeedData(db *gorm.DB) error {
	countries := []models.Country{
		{BaseModel: models.BaseModel{ID: "seed-country-fr"}, Name: "France", Code: "FR", IsActive: true},
		{BaseModel: models.BaseModel{ID: "seed-country-jp"}, Name: "Japan", Code: "JP", IsActive: true},
	}
	for _, country := range countries {
		if err := db.Where(models.Country{Code: country.Code}).Attrs(country).FirstOrCreate(&models.Country{}).Error; err != nil {
			return err
		}
	}

	cities := []models.City{
		{
			BaseModel: models.BaseModel{ID: "seed-city-paris"},
			CountryID: "seed-country-fr",
			Name:      "Paris",
			Latitude:  48.8566,
			Longitude: 2.3522,
			IsActive:  true,
		},
		{
			BaseModel: models.BaseModel{ID: "seed-city-tokyo"},
			CountryID: "seed-country-jp",
			Name:      "Tokyo",
			Latitude:  35.6762,
			Longitude: 139.6503,
			IsActive:  true,
		},
	}
	for _, city := range cities {
		if err := db.Where(models.City{BaseModel: models.BaseModel{ID: city.ID}}).Attrs(city).FirstOrCreate(&models.City{}).Error; err != nil {
			return err
		}
	}

	activities := []models.Activity{
		{
			BaseModel:    models.BaseModel{ID: "seed-activity-louvre"},
			CityID:       "seed-city-paris",
			Name:         "Louvre Museum Tour",
			Category:     "culture",
			UnitPrice:    25,
			DurationType: models.DurationHours,
			Latitude:     48.8606,
			Longitude:    2.3376,
			IsActive:     true,
		},
		{
			BaseModel:    models.BaseModel{ID: "seed-activity-fuji"},
			CityID:       "seed-city-tokyo",
			Name:         "Mount Fuji Day Trip",
			Category:     "outdoors",
			UnitPrice:    120,
			DurationType: models.DurationDays,
			Latitude:     35.3606,
			Longitude:    138.7274,
			IsActive:     true,
		},
	}
	for _, activity := range activities {
		if err := db.Where(models.Activity{BaseModel: models.BaseModel{ID: activity.ID}}).Attrs(activity).FirstOrCreate(&models.Activity{}).Error; err != nil {
			return err
		}
	}

	return nil
}
