package effect

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

// Intent is a side effect computed by a transition. Intents are dispatched
// after the state change has been persisted; a failed intent is logged and
// reported as a warning, never rolled back. Retry is an explicit operator
// action (resend), not automatic.
type Intent interface {
	IntentKind() string
}

// GeneratePDFAndEmail renders a document, archives the PDF and emails the
// customer a link to it
type GeneratePDFAndEmail struct {
	Snapshot  DocumentSnapshot
	Kind      NotificationKind
	Recipient string
}

// IntentKind returns the intent kind name
func (GeneratePDFAndEmail) IntentKind() string { return "generate_pdf_and_email" }

// CreatePaymentLink creates a hosted checkout link and sends it to the customer
type CreatePaymentLink struct {
	Amount    valueobject.Money
	Reference string
	Recipient string
	Metadata  map[string]string
}

// IntentKind returns the intent kind name
func (CreatePaymentLink) IntentKind() string { return "create_payment_link" }

// NotifyCustomer sends a plain notification without a document attached
type NotifyCustomer struct {
	Kind      NotificationKind
	Recipient string
	Payload   map[string]interface{}
}

// IntentKind returns the intent kind name
func (NotifyCustomer) IntentKind() string { return "notify_customer" }

// Dispatcher executes side-effect intents sequentially against the external
// collaborators. Persisted state is the source of truth; the dispatcher never
// converts a collaborator failure into a transition failure.
type Dispatcher struct {
	notifier Notifier
	renderer DocumentRenderer
	archive  DocumentArchive
	gateway  PaymentGateway
	audit    AuditLog
	logger   *zap.Logger
}

// DispatcherConfig holds the collaborators for a Dispatcher.
// Nil collaborators cause their intents to be skipped with a warning.
type DispatcherConfig struct {
	Notifier Notifier
	Renderer DocumentRenderer
	Archive  DocumentArchive
	Gateway  PaymentGateway
	Audit    AuditLog
	Logger   *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		notifier: config.Notifier,
		renderer: config.Renderer,
		archive:  config.Archive,
		gateway:  config.Gateway,
		audit:    config.Audit,
		logger:   logger,
	}
}

// Dispatch runs each intent in order and returns the failures as warnings.
// Execution continues past failures so one broken collaborator does not
// starve the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, actorID uuid.UUID, intents []Intent) []error {
	var warnings []error
	for _, intent := range intents {
		if err := d.dispatchOne(ctx, intent); err != nil {
			d.logger.Warn("Side effect failed",
				zap.String("intent", intent.IntentKind()),
				zap.String("actor_id", actorID.String()),
				zap.Error(err))
			if d.audit != nil {
				d.audit.Record(ctx, actorID, "side_effect_failed", intent.IntentKind(), err.Error())
			}
			warnings = append(warnings, fmt.Errorf("%s: %w", intent.IntentKind(), err))
		}
	}
	return warnings
}

func (d *Dispatcher) dispatchOne(ctx context.Context, intent Intent) error {
	switch it := intent.(type) {
	case GeneratePDFAndEmail:
		return d.generatePDFAndEmail(ctx, it)
	case CreatePaymentLink:
		return d.createPaymentLink(ctx, it)
	case NotifyCustomer:
		return d.notify(ctx, it.Kind, it.Recipient, it.Payload)
	default:
		return fmt.Errorf("unknown intent kind %q", intent.IntentKind())
	}
}

func (d *Dispatcher) generatePDFAndEmail(ctx context.Context, it GeneratePDFAndEmail) error {
	if d.renderer == nil {
		return fmt.Errorf("no document renderer configured")
	}

	pdf, err := d.renderer.RenderPDF(ctx, it.Snapshot)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	payload := map[string]interface{}{
		"document_type": it.Snapshot.DocumentType,
		"number":        it.Snapshot.Number,
	}

	if d.archive != nil {
		key := fmt.Sprintf("%s/%s/%s.pdf", it.Snapshot.OwnerID, it.Snapshot.DocumentType, it.Snapshot.Number)
		url, err := d.archive.Store(ctx, key, pdf)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		payload["document_url"] = url
	}

	return d.notify(ctx, it.Kind, it.Recipient, payload)
}

func (d *Dispatcher) createPaymentLink(ctx context.Context, it CreatePaymentLink) error {
	if d.gateway == nil {
		return fmt.Errorf("no payment gateway configured")
	}

	url, err := d.gateway.CreateCheckoutLink(ctx, it.Amount, it.Reference, it.Metadata)
	if err != nil {
		return fmt.Errorf("checkout link: %w", err)
	}

	return d.notify(ctx, NotifyInvoiceIssued, it.Recipient, map[string]interface{}{
		"reference":   it.Reference,
		"amount":      it.Amount.StringFixed(2),
		"payment_url": url,
	})
}

func (d *Dispatcher) notify(ctx context.Context, kind NotificationKind, recipient string, payload map[string]interface{}) error {
	if d.notifier == nil {
		return fmt.Errorf("no notifier configured")
	}
	if recipient == "" {
		d.logger.Debug("Skipping notification without recipient", zap.String("kind", string(kind)))
		return nil
	}

	messageID, err := d.notifier.Send(ctx, kind, recipient, payload)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	d.logger.Info("Notification sent",
		zap.String("kind", string(kind)),
		zap.String("message_id", messageID))
	return nil
}
