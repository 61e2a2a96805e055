package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// InvoiceService orchestrates the invoice lifecycle and its payment ledger
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	bookingRepo    scheduling.BookingRepository
	dispatcher     *effect.Dispatcher
	eventPublisher shared.EventPublisher
	taxPolicy      billing.TaxPolicy
	logger         *zap.Logger
}

// InvoiceServiceConfig holds the collaborators for an InvoiceService
type InvoiceServiceConfig struct {
	InvoiceRepo    billing.InvoiceRepository
	BookingRepo    scheduling.BookingRepository
	Dispatcher     *effect.Dispatcher
	EventPublisher shared.EventPublisher
	TaxPolicy      billing.TaxPolicy
	Logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(config InvoiceServiceConfig) *InvoiceService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := config.TaxPolicy
	if policy.Mode == "" {
		policy = billing.DefaultTaxPolicy()
	}
	return &InvoiceService{
		invoiceRepo:    config.InvoiceRepo,
		bookingRepo:    config.BookingRepo,
		dispatcher:     config.Dispatcher,
		eventPublisher: config.EventPublisher,
		taxPolicy:      policy,
		logger:         logger,
	}
}

// Create drafts an invoice for a booking. At most one invoice per
// (booking, kind) may exist outside VOID/REFUNDED; a second attempt returns
// DuplicateDocumentError carrying the existing invoice's identity.
func (s *InvoiceService) Create(ctx context.Context, ownerID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	kind := billing.InvoiceKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_KIND", "Invoice kind is not valid")
	}

	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, req.BookingID)
	if err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.FindActiveByBookingAndKind(ctx, ownerID, booking.ID, kind)
	switch {
	case err == nil:
		return nil, &billing.DuplicateDocumentError{
			ExistingInvoiceID: existing.ID,
			Kind:              existing.Kind,
			Status:            existing.Status,
		}
	case !shared.IsNotFound(err):
		return nil, err
	}

	price, depositCredit, err := s.priceForKind(ctx, ownerID, booking, kind, req)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(ownerID, number, booking.ID, kind, price, depositCredit, req.DueDate)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// priceForKind derives the invoiced breakdown and any deposit credit for the
// requested invoice kind. The booking's persisted price is authoritative for
// FINAL invoices; the request amount is a fallback for bookings priced
// outside the system, and the charged amount for BOND and ADD-ONS.
func (s *InvoiceService) priceForKind(
	ctx context.Context,
	ownerID uuid.UUID,
	booking *scheduling.Booking,
	kind billing.InvoiceKind,
	req CreateInvoiceRequest,
) (valueobject.PriceBreakdown, valueobject.Money, error) {
	zero := valueobject.NewMoneyAUD(decimal.Zero)

	taxMode := s.taxPolicy.Mode
	if req.TaxMode != "" {
		taxMode = billing.TaxMode(req.TaxMode)
	}
	taxRate := s.taxPolicy.RatePercent
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	switch kind {
	case billing.InvoiceKindFinal:
		price := booking.Price
		if !booking.Priced {
			if req.Amount == nil {
				return valueobject.PriceBreakdown{}, zero, shared.NewDomainError("INVALID_AMOUNT", "Booking carries no price and no amount was supplied")
			}
			var err error
			price, err = billing.SplitTax(valueobject.NewMoneyAUD(*req.Amount), taxMode, taxRate)
			if err != nil {
				return valueobject.PriceBreakdown{}, zero, err
			}
		}
		credit, err := s.paidDepositCredit(ctx, ownerID, booking.ID)
		if err != nil {
			return valueobject.PriceBreakdown{}, zero, err
		}
		return price, credit, nil

	case billing.InvoiceKindDeposit:
		if !booking.Deposit.Deposit.IsPositive() {
			return valueobject.PriceBreakdown{}, zero, shared.NewDomainError("INVALID_DEPOSIT_SPEC", "Booking requires no deposit")
		}
		// The deposit is a gross-inclusive share of the booking total
		price, err := billing.SplitTax(booking.Deposit.Deposit, billing.TaxInclusive, taxRate)
		if err != nil {
			return valueobject.PriceBreakdown{}, zero, err
		}
		return price, zero, nil

	case billing.InvoiceKindBond, billing.InvoiceKindAddOns:
		if req.Amount == nil {
			return valueobject.PriceBreakdown{}, zero, shared.NewDomainError("INVALID_AMOUNT", "Amount is required for this invoice kind")
		}
		price, err := billing.SplitTax(valueobject.NewMoneyAUD(*req.Amount), taxMode, taxRate)
		if err != nil {
			return valueobject.PriceBreakdown{}, zero, err
		}
		return price, zero, nil
	}

	return valueobject.PriceBreakdown{}, zero, shared.NewDomainError("INVALID_INVOICE_KIND", "Invoice kind is not valid")
}

// paidDepositCredit returns the amount already collected through the
// booking's deposit invoice, zero when none exists
func (s *InvoiceService) paidDepositCredit(ctx context.Context, ownerID, bookingID uuid.UUID) (valueobject.Money, error) {
	zero := valueobject.NewMoneyAUD(decimal.Zero)

	deposit, err := s.invoiceRepo.FindActiveByBookingAndKind(ctx, ownerID, bookingID, billing.InvoiceKindDeposit)
	if err != nil {
		if shared.IsNotFound(err) {
			return zero, nil
		}
		return zero, err
	}
	return deposit.PaidAmount, nil
}

// Send marks the invoice as sent, emails the rendered document and includes a
// checkout link for the outstanding amount
func (s *InvoiceService) Send(ctx context.Context, ownerID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	warnings := s.dispatch(ctx, ownerID, s.sendIntents(invoice, s.customerEmail(ctx, ownerID, invoice.BookingID)))

	response := ToInvoiceResponse(invoice)
	response.Warnings = warnings
	return &response, nil
}

// Resend re-dispatches the send side effects without changing state
func (s *InvoiceService) Resend(ctx context.Context, ownerID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanRecordPayment() {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Only open invoices can be resent")
	}

	warnings := s.dispatch(ctx, ownerID, s.sendIntents(invoice, s.customerEmail(ctx, ownerID, invoice.BookingID)))

	response := ToInvoiceResponse(invoice)
	response.Warnings = warnings
	return &response, nil
}

// RecordPayment appends a payment to the invoice's ledger. Over-payments are
// rejected with the typed OverPaymentError; settling the invoice sends a
// receipt.
func (s *InvoiceService) RecordPayment(ctx context.Context, ownerID, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, invoice.AmountDue.Currency())
	if err != nil {
		return nil, err
	}

	if err := invoice.RecordPayment(amount, req.Method, req.Reference); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	var warnings []string
	if invoice.Status == billing.InvoiceStatusPaid {
		warnings = s.dispatch(ctx, ownerID, []effect.Intent{effect.NotifyCustomer{
			Kind:      effect.NotifyInvoiceReceipt,
			Recipient: s.customerEmail(ctx, ownerID, invoice.BookingID),
			Payload: map[string]interface{}{
				"invoice_number": invoice.InvoiceNumber,
				"paid_amount":    invoice.PaidAmount.StringFixed(2),
			},
		}})
	}

	response := ToInvoiceResponse(invoice)
	response.Warnings = warnings
	return &response, nil
}

// Void cancels an invoice by explicit operator action
func (s *InvoiceService) Void(ctx context.Context, ownerID, invoiceID uuid.UUID, reason string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Void(reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Refund reverses a paid invoice by explicit operator action
func (s *InvoiceService) Refund(ctx context.Context, ownerID, invoiceID uuid.UUID, reason string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Refund(reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkOverdueDue sweeps open invoices past their due date and flags them.
// Intended to be run periodically; returns the number flagged.
func (s *InvoiceService) MarkOverdueDue(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	now := time.Now()

	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, now, batchSize)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range candidates {
		invoice := &candidates[i]
		if err := invoice.MarkOverdue(now); err != nil {
			continue
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			s.logger.Warn("Failed to mark invoice overdue",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err))
			continue
		}
		s.publishEvents(ctx, invoice)
		flagged++
	}
	return flagged, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, ownerID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOwner(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ListByBooking retrieves all invoices raised for a booking
func (s *InvoiceService) ListByBooking(ctx context.Context, ownerID, bookingID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByBooking(ctx, ownerID, bookingID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, nil
}

// recordPaymentByReference resolves an invoice by number and records a
// gateway-confirmed payment against it. Used by the payment callback path.
func (s *InvoiceService) recordPaymentByReference(ctx context.Context, ownerID uuid.UUID, invoiceNumber string, amount valueobject.Money, method, reference string) error {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, ownerID, invoiceNumber)
	if err != nil {
		return err
	}

	if err := invoice.RecordPayment(amount, method, reference); err != nil {
		var overpay *billing.OverPaymentError
		if errors.As(err, &overpay) {
			s.logger.Error("Gateway callback exceeds outstanding amount",
				zap.String("invoice_number", invoiceNumber),
				zap.String("attempted", overpay.Attempted.StringFixed(2)),
				zap.String("outstanding", overpay.Outstanding.StringFixed(2)))
		}
		return err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return err
	}

	s.publishEvents(ctx, invoice)
	return nil
}

func (s *InvoiceService) sendIntents(invoice *billing.Invoice, recipient string) []effect.Intent {
	intents := []effect.Intent{effect.GeneratePDFAndEmail{
		Snapshot:  invoiceSnapshot(invoice),
		Kind:      effect.NotifyInvoiceIssued,
		Recipient: recipient,
	}}
	if invoice.Outstanding().IsPositive() {
		intents = append(intents, effect.CreatePaymentLink{
			Amount:    invoice.Outstanding(),
			Reference: invoice.InvoiceNumber,
			Recipient: recipient,
			Metadata: map[string]string{
				"invoice_id": invoice.ID.String(),
				"booking_id": invoice.BookingID.String(),
			},
		})
	}
	return intents
}

// customerEmail resolves the invoice's recipient through its booking.
// Best-effort: a missing booking just means no notification goes out.
func (s *InvoiceService) customerEmail(ctx context.Context, ownerID, bookingID uuid.UUID) string {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, bookingID)
	if err != nil {
		s.logger.Debug("Could not resolve invoice recipient",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err))
		return ""
	}
	return booking.CustomerEmail
}

func (s *InvoiceService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range agg.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	agg.ClearDomainEvents()
}

func (s *InvoiceService) dispatch(ctx context.Context, actorID uuid.UUID, intents []effect.Intent) []string {
	if s.dispatcher == nil {
		return nil
	}
	failures := s.dispatcher.Dispatch(ctx, actorID, intents)
	warnings := make([]string, 0, len(failures))
	for _, f := range failures {
		warnings = append(warnings, f.Error())
	}
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
