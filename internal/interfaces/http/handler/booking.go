package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	schedulingapp "github.com/venuedesk/backend/internal/application/scheduling"
)

// BookingHandler handles booking and rate card API endpoints
type BookingHandler struct {
	BaseHandler
	bookingService *schedulingapp.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *schedulingapp.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Create drafts a new booking in REQUESTED state
func (h *BookingHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	var req schedulingapp.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.bookingService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one booking
func (h *BookingHandler) GetByID(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID format")
		return
	}

	resp, err := h.bookingService.GetByID(c.Request.Context(), ownerID, bookingID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns bookings matching the filter
func (h *BookingHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	var filter schedulingapp.BookingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.bookingService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Confirm moves a booking from REQUESTED to CONFIRMED
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm)
}

// Complete moves a booking from CONFIRMED to COMPLETED
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.bookingService.Complete)
}

// Cancel cancels a booking with an optional reason
func (h *BookingHandler) Cancel(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID format")
		return
	}

	var req schedulingapp.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BindingError(c, err)
		return
	}

	resp, err := h.bookingService.Cancel(c.Request.Context(), ownerID, bookingID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reschedule moves a confirmed booking into a new slot
func (h *BookingHandler) Reschedule(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID format")
		return
	}

	var req schedulingapp.RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.bookingService.Reschedule(c.Request.Context(), ownerID, bookingID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpsertRate creates or replaces a resource's rate card
func (h *BookingHandler) UpsertRate(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	var req schedulingapp.UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.bookingService.UpsertRate(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetRate returns a resource's rate card
func (h *BookingHandler) GetRate(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	resourceID, err := parseIDParam(c, "resource_id")
	if err != nil {
		h.BadRequest(c, "Invalid resource ID format")
		return
	}

	resp, err := h.bookingService.GetRate(c.Request.Context(), ownerID, resourceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// transition runs a reason-less booking state change
func (h *BookingHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, ownerID, bookingID uuid.UUID) (*schedulingapp.BookingResponse, error),
) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid booking ID format")
		return
	}

	resp, err := fn(c.Request.Context(), ownerID, bookingID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
