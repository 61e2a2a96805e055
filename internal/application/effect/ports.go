package effect

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// NotificationKind names the customer-facing message templates
type NotificationKind string

const (
	NotifyBookingRequested  NotificationKind = "booking_requested"
	NotifyBookingConfirmed  NotificationKind = "booking_confirmed"
	NotifyBookingCancelled  NotificationKind = "booking_cancelled"
	NotifyBookingMoved      NotificationKind = "booking_moved"
	NotifyQuotationIssued   NotificationKind = "quotation_issued"
	NotifyQuotationAccepted NotificationKind = "quotation_accepted"
	NotifyInvoiceIssued     NotificationKind = "invoice_issued"
	NotifyInvoiceReceipt    NotificationKind = "invoice_receipt"
	NotifyInvoiceOverdue    NotificationKind = "invoice_overdue"
)

// Notifier delivers customer notifications. Fire-and-report: failures are
// logged by the dispatcher, never propagated as a transition failure.
type Notifier interface {
	Send(ctx context.Context, kind NotificationKind, recipient string, payload map[string]interface{}) (messageID string, err error)
}

// DocumentSnapshot is the immutable view of a document handed to the renderer
type DocumentSnapshot struct {
	DocumentType string                 `json:"document_type"`
	DocumentID   uuid.UUID              `json:"document_id"`
	Number       string                 `json:"number"`
	OwnerID      uuid.UUID              `json:"owner_id"`
	Fields       map[string]interface{} `json:"fields"`
}

// DocumentRenderer produces a PDF from a document snapshot.
// Implementations must be pure given the snapshot.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, snapshot DocumentSnapshot) ([]byte, error)
}

// DocumentArchive stores rendered documents and returns a retrieval URL
type DocumentArchive interface {
	Store(ctx context.Context, key string, content []byte) (url string, err error)
}

// CheckoutCallback is the verified, gateway-neutral payment confirmation
type CheckoutCallback struct {
	EventID   string
	Reference string // invoice number the checkout link was created for
	Amount    valueobject.Money
	Method    string
	PaidAt    time.Time
}

// PaymentGateway creates hosted checkout links and verifies their callbacks
type PaymentGateway interface {
	CreateCheckoutLink(ctx context.Context, amount valueobject.Money, reference string, metadata map[string]string) (url string, err error)
	VerifyCallback(ctx context.Context, payload []byte, signature string) (*CheckoutCallback, error)
}

// AuditLog records who changed what. Best-effort: implementations must not
// block or fail a transition.
type AuditLog interface {
	Record(ctx context.Context, actorID uuid.UUID, action string, before, after interface{})
}

// IdempotencyStore deduplicates externally-triggered operations such as
// webhook deliveries
type IdempotencyStore interface {
	// Seen atomically records the key and reports whether it was already present
	Seen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
