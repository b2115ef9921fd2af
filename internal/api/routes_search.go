package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rverbytskyi/planora/internal/handlers"
)

func registerSearchRoutes(api *gin.RouterGroup, deps Deps) error {
	handler, err := handlers.NewSearchHandler(deps.DB)
	if err != nil {
		return err
	}

	api.GET("/search", handler.Search)
	return nil
}
