package handler

import (
	"net/http"

	"github.com/helpapp/marketplace/internal/middleware"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler handles booking related requests
type BookingHandler struct {
	service service.BookingService
	logger  *zap.Logger
}

func NewBookingHandler(s service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: s, logger: logger}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": booking})
}

func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	bookings, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) DecideBooking(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req model.DecideBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.service.Decide(c.Request.Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully", "booking": booking})
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	booking, err := h.service.Complete(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to complete booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking completed successfully", "booking": booking})
}

// RegisterBookingRoutes registers booking routes; all of them need a caller.
func (h *BookingHandler) RegisterBookingRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(authMW)
	{
		bookingGroup.GET("", h.GetMyBookings)
		bookingGroup.POST("", middleware.RoleMiddleware(model.RoleClient), h.CreateBooking)
		bookingGroup.PATCH("/:id", middleware.RoleMiddleware(model.RoleProvider), h.DecideBooking)
		bookingGroup.PATCH("/:id/complete", middleware.RoleMiddleware(model.RoleProvider), h.CompleteBooking)
	}
}
