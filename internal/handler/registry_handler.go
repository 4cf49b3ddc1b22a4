package handler

import (
	"net/http"

	"github.com/act-collective/intelligence-service/internal/service"
	"github.com/act-collective/intelligence-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegistryHandler handles project registry HTTP requests
type RegistryHandler struct {
	registryService *service.RegistryService
	logger          *zap.Logger
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(registryService *service.RegistryService, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{
		registryService: registryService,
		logger:          logger,
	}
}

// RefreshRegistry handles pulling the latest project definitions from the
// upstream registry and replacing the local lexicon
// POST /api/v1/registry/refresh
func (h *RegistryHandler) RefreshRegistry(c *gin.Context) {
	count, err := h.registryService.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to refresh project registry", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusBadGateway, "Failed to refresh project registry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"projects": count}})
}
