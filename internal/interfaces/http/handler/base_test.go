package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
	"github.com/venuedesk/backend/internal/interfaces/http/dto"
	"github.com/venuedesk/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, gin.H{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Created(c, gin.H{"id": uuid.NewString()})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandler_ErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set(middleware.RequestIDContextKey, "req-42")

	h.BadRequest(c, "bad input")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestHandleDomainError_SlotUnavailable(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	interval, err := valueobject.NewTimeInterval(date, 600, 720)
	require.NoError(t, err)

	h.HandleDomainError(c, &scheduling.SlotUnavailableError{
		ConflictingBookingID: uuid.New(),
		ConflictingInterval:  interval,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "conflicts with booking")
}

func TestHandleDomainError_DuplicateInvoice(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleDomainError(c, &billing.DuplicateDocumentError{
		ExistingInvoiceID: uuid.New(),
		Kind:              billing.InvoiceKindDeposit,
		Status:            billing.InvoiceStatusSent,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_INVOICE", resp.Error.Code)
}

func TestHandleDomainError_OverPayment(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleDomainError(c, &billing.OverPaymentError{
		Attempted:   decimal.NewFromInt(500),
		Outstanding: decimal.NewFromInt(200),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OVER_PAYMENT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "500.00")
	assert.Contains(t, resp.Error.Message, "200.00")
}

func TestHandleDomainError_DomainErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *shared.DomainError
		status int
	}{
		{"not found maps to 404", shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found"), http.StatusNotFound},
		{"invalid transition maps to 409", shared.NewDomainError("INVALID_TRANSITION", "Cannot send a voided invoice"), http.StatusConflict},
		{"invalid interval maps to 400", shared.NewDomainError("INVALID_INTERVAL", "End must be after start"), http.StatusBadRequest},
		{"stale write maps to 409", shared.NewDomainError("CONCURRENCY_CONFLICT", "Document was modified"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.err.Code, resp.Error.Code)
			assert.Equal(t, tt.err.Message, resp.Error.Message)
		})
	}
}

func TestHandleDomainError_WrappedDomainError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	wrapped := errorsJoin(shared.NewDomainError("RATE_NOT_FOUND", "No rate card for resource"))
	h.HandleDomainError(c, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RATE_NOT_FOUND", resp.Error.Code)
}

func TestHandleDomainError_UnknownError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleDomainError(c, errors.New("something broke"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	// Internal details never leak to the client
	assert.NotContains(t, resp.Error.Message, "something broke")
}

func TestHandleDomainError_NilError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleDomainError(c, nil)

	assert.Empty(t, w.Body.String())
}

func errorsJoin(err error) error {
	return &wrappedError{inner: err}
}

type wrappedError struct {
	inner error
}

func (w *wrappedError) Error() string { return "operation failed: " + w.inner.Error() }
func (w *wrappedError) Unwrap() error { return w.inner }
