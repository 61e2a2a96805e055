package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/application/effect"
)

var (
	// ErrCallbackVerificationFailed is returned when the gateway signature check fails
	ErrCallbackVerificationFailed = errors.New("payment callback: signature verification failed")
	// ErrCallbackInvalidPayload is returned when the callback payload is unusable
	ErrCallbackInvalidPayload = errors.New("payment callback: invalid payload")
)

// callbackDedupeTTL bounds how long processed delivery IDs are remembered
const callbackDedupeTTL = 72 * time.Hour

// PaymentCallbackService turns verified gateway callbacks into payment
// records on the matching invoice. Deliveries are deduplicated by the
// gateway's event ID, so retried webhooks are acknowledged without
// double-recording.
type PaymentCallbackService struct {
	gateway     effect.PaymentGateway
	idempotency effect.IdempotencyStore
	invoiceSvc  *InvoiceService
	logger      *zap.Logger
}

// PaymentCallbackServiceConfig holds the collaborators for a PaymentCallbackService
type PaymentCallbackServiceConfig struct {
	Gateway     effect.PaymentGateway
	Idempotency effect.IdempotencyStore
	InvoiceSvc  *InvoiceService
	Logger      *zap.Logger
}

// NewPaymentCallbackService creates a new PaymentCallbackService
func NewPaymentCallbackService(config PaymentCallbackServiceConfig) *PaymentCallbackService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentCallbackService{
		gateway:     config.Gateway,
		idempotency: config.Idempotency,
		invoiceSvc:  config.InvoiceSvc,
		logger:      logger,
	}
}

// PaymentCallbackResult reports what a processed callback did
type PaymentCallbackResult struct {
	EventID   string `json:"event_id"`
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Duplicate bool   `json:"duplicate"`
}

// Process verifies, deduplicates and applies one webhook delivery.
// A duplicate delivery returns a successful result flagged Duplicate so the
// gateway stops retrying.
func (s *PaymentCallbackService) Process(ctx context.Context, ownerID uuid.UUID, payload []byte, signature string) (*PaymentCallbackResult, error) {
	callback, err := s.gateway.VerifyCallback(ctx, payload, signature)
	if err != nil {
		s.logger.Warn("Callback verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCallbackVerificationFailed, err)
	}
	if callback == nil || callback.Reference == "" {
		return nil, ErrCallbackInvalidPayload
	}

	if s.idempotency != nil && callback.EventID != "" {
		key := fmt.Sprintf("payment_callback:%s", callback.EventID)
		seen, err := s.idempotency.Seen(ctx, key, callbackDedupeTTL)
		if err != nil {
			// Dedupe store down: processing anyway risks a double record,
			// which the over-payment guard catches; refusing risks losing
			// the payment. Process and let the ledger decide.
			s.logger.Warn("Idempotency store unavailable, processing callback unchecked",
				zap.String("event_id", callback.EventID),
				zap.Error(err))
		} else if seen {
			s.logger.Info("Duplicate callback delivery acknowledged",
				zap.String("event_id", callback.EventID),
				zap.String("reference", callback.Reference))
			return &PaymentCallbackResult{
				EventID:   callback.EventID,
				Reference: callback.Reference,
				Amount:    callback.Amount.StringFixed(2),
				Duplicate: true,
			}, nil
		}
	}

	method := callback.Method
	if method == "" {
		method = "gateway"
	}

	if err := s.invoiceSvc.recordPaymentByReference(ctx, ownerID, callback.Reference, callback.Amount, method, callback.EventID); err != nil {
		return nil, err
	}

	s.logger.Info("Gateway payment recorded",
		zap.String("event_id", callback.EventID),
		zap.String("reference", callback.Reference),
		zap.String("amount", callback.Amount.StringFixed(2)))

	return &PaymentCallbackResult{
		EventID:   callback.EventID,
		Reference: callback.Reference,
		Amount:    callback.Amount.StringFixed(2),
	}, nil
}
