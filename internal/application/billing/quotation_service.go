package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// QuotationService orchestrates the quotation lifecycle. Accepting a
// quotation is the one place a booking is created from a document, so the
// accept path runs through the booking repository's reservation scope.
type QuotationService struct {
	quotationRepo  billing.QuotationRepository
	bookingRepo    scheduling.BookingRepository
	dispatcher     *effect.Dispatcher
	eventPublisher shared.EventPublisher
	taxPolicy      billing.TaxPolicy
	logger         *zap.Logger
}

// QuotationServiceConfig holds the collaborators for a QuotationService
type QuotationServiceConfig struct {
	QuotationRepo  billing.QuotationRepository
	BookingRepo    scheduling.BookingRepository
	Dispatcher     *effect.Dispatcher
	EventPublisher shared.EventPublisher
	TaxPolicy      billing.TaxPolicy
	Logger         *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(config QuotationServiceConfig) *QuotationService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := config.TaxPolicy
	if policy.Mode == "" {
		policy = billing.DefaultTaxPolicy()
	}
	return &QuotationService{
		quotationRepo:  config.QuotationRepo,
		bookingRepo:    config.BookingRepo,
		dispatcher:     config.Dispatcher,
		eventPublisher: config.EventPublisher,
		taxPolicy:      policy,
		logger:         logger,
	}
}

// Create drafts a new quotation with a derived price and deposit breakdown
func (s *QuotationService) Create(ctx context.Context, ownerID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	interval, err := valueobject.ParseTimeInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	spec, err := parseDepositSpec(req.DepositType, req.DepositValue)
	if err != nil {
		return nil, err
	}

	taxMode := s.taxPolicy.Mode
	if req.TaxMode != "" {
		taxMode = billing.TaxMode(req.TaxMode)
	}
	taxRate := s.taxPolicy.RatePercent
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	number, err := s.quotationRepo.NextNumber(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	quotation, err := billing.NewQuotation(
		ownerID,
		number,
		req.ResourceID,
		req.CustomerName,
		req.CustomerEmail,
		interval,
		valueobject.NewMoneyAUD(req.Amount),
		taxMode,
		taxRate,
		spec,
		req.ValidUntil,
	)
	if err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Send marks the quotation as sent and emails the rendered document
func (s *QuotationService) Send(ctx context.Context, ownerID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOwner(ctx, ownerID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.Send(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)
	warnings := s.dispatch(ctx, ownerID, []effect.Intent{effect.GeneratePDFAndEmail{
		Snapshot:  quotationSnapshot(quotation),
		Kind:      effect.NotifyQuotationIssued,
		Recipient: quotation.CustomerEmail,
	}})

	response := ToQuotationResponse(quotation)
	response.Warnings = warnings
	return &response, nil
}

// Resend re-dispatches the send side effects for an already-sent quotation.
// Side effects are at-least-once; this is the operator's retry lever.
func (s *QuotationService) Resend(ctx context.Context, ownerID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOwner(ctx, ownerID, quotationID)
	if err != nil {
		return nil, err
	}
	if quotation.Status != billing.QuotationStatusSent {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Only sent quotations can be resent")
	}

	warnings := s.dispatch(ctx, ownerID, []effect.Intent{effect.GeneratePDFAndEmail{
		Snapshot:  quotationSnapshot(quotation),
		Kind:      effect.NotifyQuotationIssued,
		Recipient: quotation.CustomerEmail,
	}})

	response := ToQuotationResponse(quotation)
	response.Warnings = warnings
	return &response, nil
}

// Accept converts a sent quotation into a confirmed booking. Pricing is
// recomputed from the quotation's stored inputs, never from its cached
// totals, and the slot is cleared inside the reservation scope. On conflict
// the quotation stays SENT and the conflict error is returned unchanged.
func (s *QuotationService) Accept(ctx context.Context, ownerID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOwner(ctx, ownerID, quotationID)
	if err != nil {
		return nil, err
	}

	if quotation.IsExpiredBy(time.Now()) {
		if err := quotation.Expire(); err == nil {
			if saveErr := s.quotationRepo.SaveWithLock(ctx, quotation); saveErr != nil {
				s.logger.Warn("Failed to persist quotation expiry", zap.Error(saveErr))
			}
			s.publishEvents(ctx, quotation)
		}
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Quotation has expired")
	}

	// The state-machine guard runs before any persistence so a rejected
	// accept cannot leave a slot-blocking booking behind.
	if !quotation.Status.CanTransitionTo(billing.QuotationStatusAccepted) {
		return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot accept quotation in %s status", quotation.Status))
	}

	if err := quotation.RecalculatePricing(); err != nil {
		return nil, err
	}

	var booking *scheduling.Booking

	err = s.bookingRepo.InReservationScope(ctx, ownerID, quotation.ResourceID, quotation.Interval.Date(), func(ctx context.Context, tx scheduling.BookingRepository) error {
		active, err := tx.FindActiveForSlot(ctx, ownerID, quotation.ResourceID, quotation.Interval.Date())
		if err != nil {
			return err
		}
		candidate := scheduling.Candidate{ResourceID: quotation.ResourceID, Interval: quotation.Interval}
		if err := scheduling.CheckConflict(candidate, active, uuid.Nil); err != nil {
			return err
		}

		b, err := scheduling.NewBooking(ownerID, quotation.ResourceID, quotation.CustomerName, quotation.CustomerEmail, quotation.Interval, scheduling.SourceQuotation)
		if err != nil {
			return err
		}
		if err := b.SetPricing(quotation.Price, quotation.DepositSpec, quotation.Deposit); err != nil {
			return err
		}
		b.LinkQuotation(quotation.ID)

		booking = b
		return tx.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	if err := quotation.Accept(booking.ID); err != nil {
		s.releaseBooking(ctx, booking)
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		s.releaseBooking(ctx, booking)
		return nil, err
	}

	s.publishEvents(ctx, booking)
	s.publishEvents(ctx, quotation)

	intents := []effect.Intent{effect.NotifyCustomer{
		Kind:      effect.NotifyQuotationAccepted,
		Recipient: quotation.CustomerEmail,
		Payload: map[string]interface{}{
			"quotation_number": quotation.QuotationNumber,
			"booking_id":       booking.ID.String(),
			"interval":         booking.Interval.String(),
		},
	}}
	if quotation.Deposit.Deposit.IsPositive() {
		intents = append(intents, effect.CreatePaymentLink{
			Amount:    quotation.Deposit.Deposit,
			Reference: booking.ID.String(),
			Recipient: quotation.CustomerEmail,
			Metadata: map[string]string{
				"booking_id":   booking.ID.String(),
				"quotation_id": quotation.ID.String(),
				"purpose":      "deposit",
			},
		})
	}
	warnings := s.dispatch(ctx, ownerID, intents)

	response := ToQuotationResponse(quotation)
	response.Warnings = warnings
	return &response, nil
}

// Decline marks a sent quotation as declined
func (s *QuotationService) Decline(ctx context.Context, ownerID, quotationID uuid.UUID, reason string) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOwner(ctx, ownerID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.Decline(reason); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Expire marks a quotation as expired by explicit operator action
func (s *QuotationService) Expire(ctx context.Context, ownerID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOwner(ctx, ownerID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.Expire(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// ExpireDue sweeps quotations whose validity window passed and expires them.
// Intended to be run periodically; returns the number expired.
func (s *QuotationService) ExpireDue(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	candidates, err := s.quotationRepo.FindExpirable(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range candidates {
		quotation := &candidates[i]
		if err := quotation.Expire(); err != nil {
			continue
		}
		if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
			s.logger.Warn("Failed to expire quotation",
				zap.String("quotation_id", quotation.ID.String()),
				zap.Error(err))
			continue
		}
		s.publishEvents(ctx, quotation)
		expired++
	}
	return expired, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, ownerID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOwner(ctx, ownerID, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations for the owner
func (s *QuotationService) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]QuotationResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	quotations, err := s.quotationRepo.FindAllForOwner(ctx, ownerID, shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	})
	if err != nil {
		return nil, err
	}

	responses := make([]QuotationResponse, 0, len(quotations))
	for i := range quotations {
		responses = append(responses, ToQuotationResponse(&quotations[i]))
	}
	return responses, nil
}

// releaseBooking cancels a booking persisted during an accept that could not
// complete, so the slot does not stay blocked by an orphan booking.
func (s *QuotationService) releaseBooking(ctx context.Context, booking *scheduling.Booking) {
	if err := booking.Cancel("quotation acceptance rolled back"); err != nil {
		s.logger.Error("Failed to cancel orphan booking after accept rollback",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.bookingRepo.SaveWithLock(ctx, booking); err != nil {
		s.logger.Error("Failed to persist orphan booking cancellation",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
	}
}

func (s *QuotationService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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

func (s *QuotationService) dispatch(ctx context.Context, actorID uuid.UUID, intents []effect.Intent) []string {
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
