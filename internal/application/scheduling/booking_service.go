package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/application/effect"
	"github.com/venuedesk/backend/internal/domain/billing"
	"github.com/venuedesk/backend/internal/domain/scheduling"
	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// BookingService orchestrates booking transitions. Every slot-affecting
// operation runs inside the repository's reservation scope so the conflict
// check is atomic with the write it guards.
type BookingService struct {
	bookingRepo    scheduling.BookingRepository
	rateRepo       scheduling.ResourceRateRepository
	dispatcher     *effect.Dispatcher
	eventPublisher shared.EventPublisher
	taxPolicy      billing.TaxPolicy
	logger         *zap.Logger
}

// BookingServiceConfig holds the collaborators for a BookingService
type BookingServiceConfig struct {
	BookingRepo    scheduling.BookingRepository
	RateRepo       scheduling.ResourceRateRepository
	Dispatcher     *effect.Dispatcher
	EventPublisher shared.EventPublisher
	TaxPolicy      billing.TaxPolicy
	Logger         *zap.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(config BookingServiceConfig) *BookingService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := config.TaxPolicy
	if policy.Mode == "" {
		policy = billing.DefaultTaxPolicy()
	}
	return &BookingService{
		bookingRepo:    config.BookingRepo,
		rateRepo:       config.RateRepo,
		dispatcher:     config.Dispatcher,
		eventPublisher: config.EventPublisher,
		taxPolicy:      policy,
		logger:         logger,
	}
}

// priceInterval resolves the resource's rate card for the interval's date and
// derives the full monetary breakdown for it
func (s *BookingService) priceInterval(
	ctx context.Context,
	ownerID, resourceID uuid.UUID,
	interval valueobject.TimeInterval,
	spec valueobject.DepositSpec,
) (valueobject.PriceBreakdown, valueobject.DepositBreakdown, error) {
	rate, err := s.rateRepo.FindByResource(ctx, ownerID, resourceID)
	if err != nil {
		return valueobject.PriceBreakdown{}, valueobject.DepositBreakdown{}, err
	}

	base, err := billing.CalculateBasePrice(rate.Resolve(interval.Date()), interval)
	if err != nil {
		return valueobject.PriceBreakdown{}, valueobject.DepositBreakdown{}, err
	}

	price, err := billing.SplitTax(base, s.taxPolicy.Mode, s.taxPolicy.RatePercent)
	if err != nil {
		return valueobject.PriceBreakdown{}, valueobject.DepositBreakdown{}, err
	}

	deposit, err := billing.CalculateDeposit(price.Gross, spec)
	if err != nil {
		return valueobject.PriceBreakdown{}, valueobject.DepositBreakdown{}, err
	}

	return price, deposit, nil
}

func parseDepositSpec(req CreateBookingRequest) (valueobject.DepositSpec, error) {
	switch req.DepositType {
	case "", string(valueobject.DepositNone):
		return valueobject.NoDeposit(), nil
	case string(valueobject.DepositFixed):
		return valueobject.FixedDeposit(req.DepositValue)
	case string(valueobject.DepositPercentage):
		return valueobject.PercentageDeposit(req.DepositValue)
	default:
		return valueobject.DepositSpec{}, shared.NewDomainError("INVALID_DEPOSIT_SPEC", "Deposit type is not valid")
	}
}

// Create validates, prices and reserves a new booking. The conflict check and
// the insert happen in one reservation scope; on conflict the typed
// SlotUnavailableError is returned unchanged.
func (s *BookingService) Create(ctx context.Context, ownerID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	interval, err := valueobject.ParseTimeInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	spec, err := parseDepositSpec(req)
	if err != nil {
		return nil, err
	}

	source := scheduling.BookingSource(req.Source)
	if req.Source == "" {
		source = scheduling.SourceDirect
	}

	booking, err := scheduling.NewBooking(ownerID, req.ResourceID, req.CustomerName, req.CustomerEmail, interval, source)
	if err != nil {
		return nil, err
	}

	price, deposit, err := s.priceInterval(ctx, ownerID, req.ResourceID, interval, spec)
	if err != nil {
		return nil, err
	}
	if err := booking.SetPricing(price, spec, deposit); err != nil {
		return nil, err
	}

	err = s.bookingRepo.InReservationScope(ctx, ownerID, req.ResourceID, interval.Date(), func(ctx context.Context, tx scheduling.BookingRepository) error {
		active, err := tx.FindActiveForSlot(ctx, ownerID, req.ResourceID, interval.Date())
		if err != nil {
			return err
		}
		candidate := scheduling.Candidate{ResourceID: req.ResourceID, Interval: interval}
		if err := scheduling.CheckConflict(candidate, active, uuid.Nil); err != nil {
			return err
		}
		return tx.Save(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, booking)

	kind := effect.NotifyBookingRequested
	if booking.Status == scheduling.BookingStatusConfirmed {
		kind = effect.NotifyBookingConfirmed
	}
	warnings := s.dispatch(ctx, ownerID, s.bookingIntents(booking, kind))

	response := ToBookingResponse(booking)
	response.Warnings = warnings
	return &response, nil
}

// Confirm moves a pending booking to confirmed, re-running conflict detection
// in the same scope as the status write
func (s *BookingService) Confirm(ctx context.Context, ownerID, bookingID uuid.UUID) (*BookingResponse, error) {
	var booking *scheduling.Booking

	err := s.withBookingScope(ctx, ownerID, bookingID, func(ctx context.Context, tx scheduling.BookingRepository, b *scheduling.Booking) error {
		active, err := tx.FindActiveForSlot(ctx, ownerID, b.ResourceID, b.Interval.Date())
		if err != nil {
			return err
		}
		candidate := scheduling.Candidate{ResourceID: b.ResourceID, Interval: b.Interval}
		if err := scheduling.CheckConflict(candidate, active, b.ID); err != nil {
			return err
		}
		if err := b.Confirm(); err != nil {
			return err
		}
		booking = b
		return tx.SaveWithLock(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, booking)
	warnings := s.dispatch(ctx, ownerID, s.bookingIntents(booking, effect.NotifyBookingConfirmed))

	response := ToBookingResponse(booking)
	response.Warnings = warnings
	return &response, nil
}

// Cancel cancels a booking, freeing its slot
func (s *BookingService) Cancel(ctx context.Context, ownerID, bookingID uuid.UUID, reason string) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := booking.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SaveWithLock(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, booking)
	warnings := s.dispatch(ctx, ownerID, []effect.Intent{effect.NotifyCustomer{
		Kind:      effect.NotifyBookingCancelled,
		Recipient: booking.CustomerEmail,
		Payload: map[string]interface{}{
			"booking_id": booking.ID.String(),
			"interval":   booking.Interval.String(),
			"reason":     reason,
		},
	}})

	response := ToBookingResponse(booking)
	response.Warnings = warnings
	return &response, nil
}

// Complete marks a confirmed booking as completed
func (s *BookingService) Complete(ctx context.Context, ownerID, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := booking.Complete(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.SaveWithLock(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, booking)
	response := ToBookingResponse(booking)
	return &response, nil
}

// Reschedule moves a booking to a new slot. The conflict check excludes the
// booking itself, and the price is recomputed for the new interval since the
// date may cross a weekday/weekend boundary.
func (s *BookingService) Reschedule(ctx context.Context, ownerID, bookingID uuid.UUID, req RescheduleBookingRequest) (*BookingResponse, error) {
	interval, err := valueobject.ParseTimeInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var booking *scheduling.Booking

	err = s.withBookingScopeForDate(ctx, ownerID, bookingID, interval.Date(), func(ctx context.Context, tx scheduling.BookingRepository, b *scheduling.Booking) error {
		active, err := tx.FindActiveForSlot(ctx, ownerID, b.ResourceID, interval.Date())
		if err != nil {
			return err
		}
		candidate := scheduling.Candidate{ResourceID: b.ResourceID, Interval: interval}
		if err := scheduling.CheckConflict(candidate, active, b.ID); err != nil {
			return err
		}

		price, deposit, err := s.priceInterval(ctx, ownerID, b.ResourceID, interval, b.DepositSpec)
		if err != nil {
			return err
		}

		if err := b.Reschedule(interval); err != nil {
			return err
		}
		if err := b.SetPricing(price, b.DepositSpec, deposit); err != nil {
			return err
		}
		booking = b
		return tx.SaveWithLock(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, booking)
	warnings := s.dispatch(ctx, ownerID, []effect.Intent{effect.NotifyCustomer{
		Kind:      effect.NotifyBookingMoved,
		Recipient: booking.CustomerEmail,
		Payload: map[string]interface{}{
			"booking_id": booking.ID.String(),
			"interval":   booking.Interval.String(),
		},
	}})

	response := ToBookingResponse(booking)
	response.Warnings = warnings
	return &response, nil
}

// GetByID retrieves a booking by ID
func (s *BookingService) GetByID(ctx context.Context, ownerID, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, bookingID)
	if err != nil {
		return nil, err
	}
	response := ToBookingResponse(booking)
	return &response, nil
}

// List retrieves bookings for the owner with filtering and pagination
func (s *BookingService) List(ctx context.Context, ownerID uuid.UUID, filter BookingListFilter) ([]BookingResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.ResourceID != nil {
		domainFilter.Filters["resource_id"] = *filter.ResourceID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = valueobject.NormalizeDate(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		domainFilter.Filters["date_to"] = valueobject.NormalizeDate(*filter.DateTo)
	}

	bookings, err := s.bookingRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, ToBookingResponse(&bookings[i]))
	}
	return responses, nil
}

// UpsertRate creates or updates the rate card for a resource
func (s *BookingService) UpsertRate(ctx context.Context, ownerID uuid.UUID, req UpsertRateRequest) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByResource(ctx, ownerID, req.ResourceID)
	switch {
	case err == nil:
		if err := rate.UpdateRates(req.WeekdayRate, req.WeekendRate); err != nil {
			return nil, err
		}
		rate.BillingMode = scheduling.BillingMode(req.BillingMode)
		if !rate.BillingMode.IsValid() {
			return nil, shared.NewDomainError("INVALID_BILLING_MODE", "Billing mode must be hourly or daily")
		}
	case shared.IsNotFound(err):
		rate, err = scheduling.NewResourceRate(ownerID, req.ResourceID, scheduling.BillingMode(req.BillingMode), req.WeekdayRate, req.WeekendRate)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}

	response := ToRateResponse(rate)
	return &response, nil
}

// GetRate retrieves the rate card for a resource
func (s *BookingService) GetRate(ctx context.Context, ownerID, resourceID uuid.UUID) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByResource(ctx, ownerID, resourceID)
	if err != nil {
		return nil, err
	}
	response := ToRateResponse(rate)
	return &response, nil
}

// withBookingScope loads the booking, then re-enters the reservation scope
// for its own resource and date
func (s *BookingService) withBookingScope(ctx context.Context, ownerID, bookingID uuid.UUID, fn func(ctx context.Context, tx scheduling.BookingRepository, b *scheduling.Booking) error) error {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, bookingID)
	if err != nil {
		return err
	}
	return s.bookingRepo.InReservationScope(ctx, ownerID, booking.ResourceID, booking.Interval.Date(), func(ctx context.Context, tx scheduling.BookingRepository) error {
		fresh, err := tx.FindByIDForOwner(ctx, ownerID, bookingID)
		if err != nil {
			return err
		}
		return fn(ctx, tx, fresh)
	})
}

// withBookingScopeForDate is withBookingScope but serialized on a target date
// rather than the booking's current date, for reschedules that change the day
func (s *BookingService) withBookingScopeForDate(ctx context.Context, ownerID, bookingID uuid.UUID, date time.Time, fn func(ctx context.Context, tx scheduling.BookingRepository, b *scheduling.Booking) error) error {
	booking, err := s.bookingRepo.FindByIDForOwner(ctx, ownerID, bookingID)
	if err != nil {
		return err
	}
	return s.bookingRepo.InReservationScope(ctx, ownerID, booking.ResourceID, date, func(ctx context.Context, tx scheduling.BookingRepository) error {
		fresh, err := tx.FindByIDForOwner(ctx, ownerID, bookingID)
		if err != nil {
			return err
		}
		return fn(ctx, tx, fresh)
	})
}

func (s *BookingService) bookingIntents(b *scheduling.Booking, kind effect.NotificationKind) []effect.Intent {
	intents := []effect.Intent{effect.NotifyCustomer{
		Kind:      kind,
		Recipient: b.CustomerEmail,
		Payload: map[string]interface{}{
			"booking_id": b.ID.String(),
			"interval":   b.Interval.String(),
			"gross":      b.Price.Gross.StringFixed(2),
		},
	}}

	if b.Status == scheduling.BookingStatusConfirmed && b.Deposit.Deposit.IsPositive() {
		intents = append(intents, effect.CreatePaymentLink{
			Amount:    b.Deposit.Deposit,
			Reference: b.ID.String(),
			Recipient: b.CustomerEmail,
			Metadata: map[string]string{
				"booking_id": b.ID.String(),
				"purpose":    "deposit",
			},
		})
	}
	return intents
}

func (s *BookingService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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

func (s *BookingService) dispatch(ctx context.Context, actorID uuid.UUID, intents []effect.Intent) []string {
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
