package models

import (
	"gorm.io/datatypes"
)

// Country is a top-level catalog entry.
type Country struct {
	BaseModel

	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Code     string `gorm:"type:varchar(2);uniqueIndex;not null" json:"code"`
	IsActive bool   `gorm:"default:true;index" json:"is_active"`

	Cities []City `gorm:"foreignKey:CountryID" json:"cities,omitempty"`
}

// City belongs to a country and carries a cached weather snapshot.
type City struct {
	BaseModel

	CountryID string   `gorm:"type:uuid;index;not null" json:"country_id"`
	Country   *Country `json:"country,omitempty"`

	Name        string  `gorm:"index;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsActive    bool    `gorm:"default:true;index" json:"is_active"`

	// Weather holds the latest cached forecast payload for the city.
	Weather          datatypes.JSON `json:"weather,omitempty"`
	WeatherFetchedAt *int64         `json:"weather_fetched_at,omitempty"`

	Activities []Activity `gorm:"foreignKey:CityID" json:"activities,omitempty"`
}

// DurationType describes how an activity is priced.
type DurationType string

const (
	DurationHours DurationType = "HOURS"
	DurationDays  DurationType = "DAYS"
)

// Valid reports whether the duration type is one of the known values.
func (d DurationType) Valid() bool {
	return d == DurationHours || d == DurationDays
}

// Activity is a bookable catalog item priced per hour or per day.
type Activity struct {
	BaseModel

	CityID string `gorm:"type:uuid;index;not null" json:"city_id"`
	City   *City  `json:"city,omitempty"`

	Name         string       `gorm:"not null" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	Category     string       `gorm:"type:varchar(64);index" json:"category"`
	UnitPrice    float64      `gorm:"not null" json:"unit_price"`
	DurationType DurationType `gorm:"type:varchar(16);not null" json:"duration_type"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	IsActive     bool         `gorm:"default:true;index" json:"is_active"`
}
