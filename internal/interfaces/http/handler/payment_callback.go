package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/venuedesk/backend/internal/application/billing"
)

// PaymentCallbackHandler handles payment gateway webhook endpoints.
// These endpoints are called by the payment gateway, not by operators,
// so they sit outside JWT authentication and resolve the venue owner
// from the webhook URL instead.
type PaymentCallbackHandler struct {
	BaseHandler
	callbackService *billingapp.PaymentCallbackService
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(callbackService *billingapp.PaymentCallbackService) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		callbackService: callbackService,
	}
}

// HandleStripeCallback receives and processes a payment event from Stripe.
// The raw body and Stripe-Signature header are passed through untouched so
// the gateway adapter can verify the signature over the exact bytes sent.
func (h *PaymentCallbackHandler) HandleStripeCallback(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("owner_id"))
	if err != nil {
		h.BadRequest(c, "Invalid owner ID in callback URL")
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	result, err := h.callbackService.Process(c.Request.Context(), ownerID, payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, billingapp.ErrCallbackVerificationFailed):
			h.Error(c, http.StatusBadRequest, "CALLBACK_VERIFICATION_FAILED", "Signature verification failed")
		case errors.Is(err, billingapp.ErrCallbackInvalidPayload):
			h.Error(c, http.StatusBadRequest, "CALLBACK_INVALID_PAYLOAD", "Callback payload is not usable")
		default:
			h.HandleDomainError(c, err)
		}
		return
	}

	h.Success(c, result)
}
