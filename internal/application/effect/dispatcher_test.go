package effect

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuedesk/backend/internal/domain/shared"
	"github.com/venuedesk/backend/internal/domain/shared/valueobject"
)

type sentNotification struct {
	kind      NotificationKind
	recipient string
	payload   map[string]interface{}
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, kind NotificationKind, recipient string, payload map[string]interface{}) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	n.sent = append(n.sent, sentNotification{kind: kind, recipient: recipient, payload: payload})
	return "msg-1", nil
}

type fakeRenderer struct {
	pdf []byte
	err error
}

func (r *fakeRenderer) RenderPDF(_ context.Context, _ DocumentSnapshot) ([]byte, error) {
	return r.pdf, r.err
}

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) Store(_ context.Context, key string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "https://docs.example.com/" + key, nil
}

type fakeGateway struct {
	url string
	err error
}

func (g *fakeGateway) CreateCheckoutLink(_ context.Context, _ valueobject.Money, _ string, _ map[string]string) (string, error) {
	return g.url, g.err
}

func (g *fakeGateway) VerifyCallback(_ context.Context, _ []byte, _ string) (*CheckoutCallback, error) {
	return nil, errors.New("not implemented")
}

type auditEntry struct {
	actorID uuid.UUID
	action  string
}

type fakeAudit struct {
	entries []auditEntry
}

func (a *fakeAudit) Record(_ context.Context, actorID uuid.UUID, action string, _, _ interface{}) {
	a.entries = append(a.entries, auditEntry{actorID: actorID, action: action})
}

func testSnapshot(ownerID uuid.UUID) DocumentSnapshot {
	return DocumentSnapshot{
		DocumentType: "invoice",
		DocumentID:   uuid.New(),
		Number:       "INV-2026-0001",
		OwnerID:      ownerID,
		Fields:       map[string]interface{}{"total": "550.00"},
	}
}

func TestDispatcher_GeneratePDFAndEmail(t *testing.T) {
	notifier := &fakeNotifier{}
	archive := &fakeArchive{}
	ownerID := uuid.New()
	d := NewDispatcher(DispatcherConfig{
		Notifier: notifier,
		Renderer: &fakeRenderer{pdf: []byte("%PDF-1.7")},
		Archive:  archive,
	})

	warnings := d.Dispatch(context.Background(), uuid.New(), []Intent{
		GeneratePDFAndEmail{
			Snapshot:  testSnapshot(ownerID),
			Kind:      NotifyInvoiceIssued,
			Recipient: "customer@example.com",
		},
	})

	assert.Empty(t, warnings)
	require.Len(t, archive.keys, 1)
	assert.Equal(t, ownerID.String()+"/invoice/INV-2026-0001.pdf", archive.keys[0])

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, NotifyInvoiceIssued, notifier.sent[0].kind)
	assert.Equal(t, "customer@example.com", notifier.sent[0].recipient)
	assert.Equal(t, "https://docs.example.com/"+archive.keys[0], notifier.sent[0].payload["document_url"])
}

func TestDispatcher_ContinuesPastFailures(t *testing.T) {
	notifier := &fakeNotifier{}
	audit := &fakeAudit{}
	actorID := uuid.New()
	d := NewDispatcher(DispatcherConfig{
		Notifier: notifier,
		Renderer: &fakeRenderer{err: errors.New("chrome crashed")},
		Audit:    audit,
	})

	warnings := d.Dispatch(context.Background(), actorID, []Intent{
		GeneratePDFAndEmail{Snapshot: testSnapshot(uuid.New()), Kind: NotifyInvoiceIssued, Recipient: "a@example.com"},
		NotifyCustomer{Kind: NotifyBookingConfirmed, Recipient: "b@example.com"},
	})

	// The render failure is reported but the second intent still runs
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "generate_pdf_and_email")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, NotifyBookingConfirmed, notifier.sent[0].kind)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, actorID, audit.entries[0].actorID)
	assert.Equal(t, "side_effect_failed", audit.entries[0].action)
}

func TestDispatcher_CreatePaymentLink(t *testing.T) {
	notifier := &fakeNotifier{}
	d := NewDispatcher(DispatcherConfig{
		Notifier: notifier,
		Gateway:  &fakeGateway{url: "https://pay.example.com/cs_123"},
	})

	warnings := d.Dispatch(context.Background(), uuid.New(), []Intent{
		CreatePaymentLink{
			Amount:    valueobject.NewMoneyAUD(decimal.NewFromInt(275)),
			Reference: "INV-2026-0002",
			Recipient: "customer@example.com",
		},
	})

	assert.Empty(t, warnings)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, NotifyInvoiceIssued, notifier.sent[0].kind)
	assert.Equal(t, "https://pay.example.com/cs_123", notifier.sent[0].payload["payment_url"])
	assert.Equal(t, "275.00", notifier.sent[0].payload["amount"])
}

func TestDispatcher_NoGatewayConfigured(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{Notifier: &fakeNotifier{}})

	warnings := d.Dispatch(context.Background(), uuid.New(), []Intent{
		CreatePaymentLink{Amount: valueobject.NewMoneyAUD(decimal.NewFromInt(100)), Reference: "INV-1", Recipient: "x@example.com"},
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "no payment gateway configured")
}

func TestDispatcher_EmptyRecipientSkipped(t *testing.T) {
	notifier := &fakeNotifier{}
	d := NewDispatcher(DispatcherConfig{Notifier: notifier})

	warnings := d.Dispatch(context.Background(), uuid.New(), []Intent{
		NotifyCustomer{Kind: NotifyBookingRequested, Recipient: ""},
	})

	assert.Empty(t, warnings)
	assert.Empty(t, notifier.sent)
}

func TestDocumentTimelineHandler_RecordsEvents(t *testing.T) {
	audit := &fakeAudit{}
	h := NewDocumentTimelineHandler(audit, nil)

	assert.Empty(t, h.EventTypes())

	ownerID := uuid.New()
	event := &timelineTestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("booking.confirmed", "Booking", uuid.New(), ownerID),
	}

	require.NoError(t, h.Handle(context.Background(), event))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, ownerID, audit.entries[0].actorID)
	assert.Equal(t, "booking.confirmed", audit.entries[0].action)
}

type timelineTestEvent struct {
	shared.BaseDomainEvent
}
