package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/venuedesk/backend/internal/application/billing"
	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
	"github.com/venuedesk/backend/internal/interfaces/http/dto"
)

type stubGateway struct {
	callback *effect.CheckoutCallback
	err      error
}

func (g *stubGateway) CreateCheckoutLink(_ context.Context, _ valueobject.Money, _ string, _ map[string]string) (string, error) {
	return "https://pay.example.com/link", nil
}

func (g *stubGateway) VerifyCallback(_ context.Context, _ []byte, _ string) (*effect.CheckoutCallback, error) {
	return g.callback, g.err
}

type stubIdempotencyStore struct {
	seen bool
	err  error
}

func (s *stubIdempotencyStore) Seen(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return s.seen, s.err
}

func newCallbackRouter(gateway effect.PaymentGateway, store effect.IdempotencyStore) *gin.Engine {
	svc := billingapp.NewPaymentCallbackService(billingapp.PaymentCallbackServiceConfig{
		Gateway:     gateway,
		Idempotency: store,
	})
	h := NewPaymentCallbackHandler(svc)

	router := gin.New()
	router.POST("/payment/callback/stripe/:owner_id", h.HandleStripeCallback)
	return router
}

func postCallback(router *gin.Engine, ownerID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/callback/stripe/"+ownerID, strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=123,v1=abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleStripeCallback_InvalidOwnerID(t *testing.T) {
	router := newCallbackRouter(&stubGateway{}, &stubIdempotencyStore{})

	w := postCallback(router, "not-a-uuid", "{}")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleStripeCallback_VerificationFailure(t *testing.T) {
	router := newCallbackRouter(&stubGateway{err: errors.New("bad signature")}, &stubIdempotencyStore{})

	w := postCallback(router, uuid.NewString(), "{}")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CALLBACK_VERIFICATION_FAILED")
}

func TestHandleStripeCallback_InvalidPayload(t *testing.T) {
	// Verified but missing a reference, so no invoice can be matched
	router := newCallbackRouter(&stubGateway{callback: &effect.CheckoutCallback{EventID: "evt_1"}}, &stubIdempotencyStore{})

	w := postCallback(router, uuid.NewString(), "{}")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CALLBACK_INVALID_PAYLOAD")
}

func TestHandleStripeCallback_DuplicateDeliveryAcknowledged(t *testing.T) {
	gateway := &stubGateway{callback: &effect.CheckoutCallback{
		EventID:   "evt_retry",
		Reference: "INV-2026-00042",
		Amount:    valueobject.NewMoneyAUD(decimal.NewFromInt(150)),
		Method:    "card",
		PaidAt:    time.Now(),
	}}
	router := newCallbackRouter(gateway, &stubIdempotencyStore{seen: true})

	w := postCallback(router, uuid.NewString(), "{}")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "evt_retry", data["event_id"])
	assert.Equal(t, "INV-2026-00042", data["reference"])
	assert.Equal(t, true, data["duplicate"])
}
