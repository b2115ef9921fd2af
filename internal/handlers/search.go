package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/response"
)

// SearchHandler exposes cross-catalog search.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler constructs a search handler.
func NewSearchHandler(db *gorm.DB) (*SearchHandler, error) {
	service, err := services.NewSearchService(db)
	if err != nil {
		return nil, err
	}
	return &SearchHandler{service: service}, nil
}

// Search matches countries and cities by name.
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.service.Search(requestContext(c), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
