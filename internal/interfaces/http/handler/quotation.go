package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/venuedesk/backend/internal/application/billing"
	"github.com/venuedesk/backend/internal/interfaces/http/dto"
)

// QuotationHandler handles quotation API endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *billingapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *billingapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
	}
}

// Create drafts a quotation for a venue slot
func (h *QuotationHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	var req billingapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.quotationService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one quotation
func (h *QuotationHandler) GetByID(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	resp, err := h.quotationService.GetByID(c.Request.Context(), ownerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns the owner's quotations, newest first
func (h *QuotationHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.quotationService.List(c.Request.Context(), ownerID, listReq.Page, listReq.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Send issues a draft quotation to the customer
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, h.quotationService.Send)
}

// Resend re-delivers an already issued quotation
func (h *QuotationHandler) Resend(c *gin.Context) {
	h.transition(c, h.quotationService.Resend)
}

// Accept accepts a quotation and creates the confirmed booking
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.transition(c, h.quotationService.Accept)
}

// Expire marks a quotation past its validity window as expired
func (h *QuotationHandler) Expire(c *gin.Context) {
	h.transition(c, h.quotationService.Expire)
}

// Decline declines a quotation with the customer's reason
func (h *QuotationHandler) Decline(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	var req billingapp.DeclineQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BindingError(c, err)
		return
	}

	resp, err := h.quotationService.Decline(c.Request.Context(), ownerID, quotationID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// transition runs a reason-less quotation state change
func (h *QuotationHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, ownerID, quotationID uuid.UUID) (*billingapp.QuotationResponse, error),
) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid owner ID")
		return
	}

	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	resp, err := fn(c.Request.Context(), ownerID, quotationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
