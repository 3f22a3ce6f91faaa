package handler

import (
	"net/http"

	"github.com/helpapp/marketplace/internal/middleware"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceHandler serves the service catalog
type ServiceHandler struct {
	service service.CatalogService
	logger  *zap.Logger
}

func NewServiceHandler(s service.CatalogService, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{service: s, logger: logger}
}

func (h *ServiceHandler) ListServices(c *gin.Context) {
	services, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *ServiceHandler) CreateService(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	svc, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Service created successfully", "service": svc})
}

// RegisterServiceRoutes registers catalog routes. Listing is public.
func (h *ServiceHandler) RegisterServiceRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	serviceGroup := rg.Group("/services")
	{
		serviceGroup.GET("", h.ListServices)
		serviceGroup.POST("", authMW, middleware.AdminMiddleware(), h.CreateService)
	}
}
