package handler

import (
	"net/http"

	"github.com/helpapp/marketplace/internal/middleware"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service service.ReviewService
	logger  *zap.Logger
}

func NewReviewHandler(s service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{service: s, logger: logger}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review created successfully", "review": review})
}

func (h *ReviewHandler) RegisterReviewRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/reviews", authMW, middleware.RoleMiddleware(model.RoleClient), h.CreateReview)
}
