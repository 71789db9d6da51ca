package api

import (
	"net/http"

	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	log            *logger.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

// GetCatalog godoc
// @Summary List the shared reference data
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Catalog
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	cat, err := h.catalogService.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}
