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

// SearchResult groups catalog matches for a query.
type SearchResult struct {
	Query     string           `json:"query"`
	Countries []models.Country `json:"countries"`
	Cities    []models.City    `json:"cities"`
}

// SearchService performs cross-catalog lookups.
type SearchService struct {
	db *gorm.DB
}

// NewSearchService constructs a SearchService.
func NewSearchService(db *gorm.DB) (*SearchService, error) {
	if db == nil {
		return nil, errors.New("search service: db is required")
	}
	return &SearchService{db: db}, nil
}

// Search matches countries and cities by name. Matched cities include
// their active activities so a result is directly plannable.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	ctx = ensureContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewBadRequest("Search query is required")
	}
	pattern := "%" + strings.ToLower(query) + "%"

	result := &SearchResult{Query: query}

	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND LOWER(name) LIKE ?", true, pattern).
		Order("name ASC").
		Limit(20).
		Find(&result.Countries).Error; err != nil {
		return nil, fmt.Errorf("search service: countries: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Preload("Country").
		Preload("Activities", "is_active = ?", true).
		Where("is_active = ? AND LOWER(name) LIKE ?", true, pattern).
		Order("name ASC").
		Limit(20).
		Find(&result.Cities).Error; err != nil {
		return nil, fmt.Errorf("search service: cities: %w", err)
	}

	return result, nil
}
