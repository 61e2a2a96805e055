package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/backend/internal/domain/shared"
)

// DuplicateDocumentError is returned when creating an invoice would violate
// the one-live-invoice-per-(booking, kind) rule. It carries the existing
// invoice so callers can tell the operator what to void first.
type DuplicateDocumentError struct {
	ExistingInvoiceID uuid.UUID
	Kind              InvoiceKind
	Status            InvoiceStatus
}

// Error implements the error interface
func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("booking already has a %s invoice %s in %s status", e.Kind, e.ExistingInvoiceID, e.Status)
}

// QuotationRepository persists quotations
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Quotation, error)
	FindByNumber(ctx context.Context, ownerID uuid.UUID, quotationNumber string) (*Quotation, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Quotation, error)
	// FindExpirable returns non-terminal quotations whose validity window
	// passed before the cutoff
	FindExpirable(ctx context.Context, cutoff time.Time, limit int) ([]Quotation, error)
	// NextNumber allocates the next quotation number for the owner
	NextNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
	Save(ctx context.Context, quotation *Quotation) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, quotation *Quotation) error
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, ownerID uuid.UUID, invoiceNumber string) (*Invoice, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindByBooking(ctx context.Context, ownerID, bookingID uuid.UUID) ([]Invoice, error)
	// FindActiveByBookingAndKind returns the invoice of the given kind for
	// the booking that is not VOID or REFUNDED, or shared.ErrNotFound
	FindActiveByBookingAndKind(ctx context.Context, ownerID, bookingID uuid.UUID, kind InvoiceKind) (*Invoice, error)
	// FindOverdueCandidates returns SENT and PARTIAL invoices whose due date
	// passed before the cutoff
	FindOverdueCandidates(ctx context.Context, cutoff time.Time, limit int) ([]Invoice, error)
	// NextNumber allocates the next invoice number for the owner
	NextNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
