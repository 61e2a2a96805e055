// Package notify delivers customer-facing messages for document lifecycle events.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/application/effect"
	infraconfig "github.com/venuedesk/backend/internal/infrastructure/config"
)

// SMTPNotifier delivers notifications over plain SMTP with AUTH.
// Failures are reported to the caller; the dispatcher decides whether to log
// or retry, so delivery never blocks a document transition.
type SMTPNotifier struct {
	config *infraconfig.NotifyConfig
	logger *zap.Logger

	// sendMail is swappable for tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates a notifier from configuration
func NewSMTPNotifier(cfg *infraconfig.NotifyConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	if cfg == nil {
		return nil, errors.New("notify configuration is required")
	}
	if cfg.SMTPHost == "" {
		return nil, errors.New("notify SMTP host is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("notify from address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SMTPNotifier{
		config:   cfg,
		logger:   logger,
		sendMail: smtp.SendMail,
	}, nil
}

// Send builds the message for the notification kind and delivers it
func (n *SMTPNotifier) Send(ctx context.Context, kind effect.NotificationKind, recipient string, payload map[string]interface{}) (string, error) {
	if recipient == "" {
		return "", errors.New("notification recipient is required")
	}

	subject, body, err := buildMessage(kind, payload)
	if err != nil {
		return "", err
	}

	messageID := uuid.New().String()
	msg := n.assemble(messageID, recipient, subject, body)

	addr := fmt.Sprintf("%s:%d", n.config.SMTPHost, n.config.SMTPPort)
	var auth smtp.Auth
	if n.config.SMTPUser != "" {
		auth = smtp.PlainAuth("", n.config.SMTPUser, n.config.SMTPPass, n.config.SMTPHost)
	}

	if err := n.sendMail(addr, auth, n.config.FromAddress, []string{recipient}, msg); err != nil {
		return "", fmt.Errorf("smtp delivery failed: %w", err)
	}

	n.logger.Info("notification sent",
		zap.String("kind", string(kind)),
		zap.String("message_id", messageID))

	return messageID, nil
}

// assemble builds the raw RFC 5322 message
func (n *SMTPNotifier) assemble(messageID, recipient, subject, body string) []byte {
	from := n.config.FromAddress
	if n.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", n.config.FromName, n.config.FromAddress)
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "Message-ID: <%s@venuedesk>\r\n", messageID)
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", recipient)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return []byte(buf.String())
}

// buildMessage resolves the subject and body for a notification kind
func buildMessage(kind effect.NotificationKind, payload map[string]interface{}) (string, string, error) {
	str := func(key string) string {
		if v, ok := payload[key]; ok {
			return fmt.Sprintf("%v", v)
		}
		return ""
	}

	switch kind {
	case effect.NotifyBookingRequested:
		return "Booking request received",
			fmt.Sprintf("We have received your booking request for %s. We will confirm it shortly.", str("interval")),
			nil
	case effect.NotifyBookingConfirmed:
		return "Booking confirmed",
			fmt.Sprintf("Your booking for %s is confirmed.", str("interval")),
			nil
	case effect.NotifyBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("Your booking for %s has been cancelled. %s", str("interval"), str("reason")),
			nil
	case effect.NotifyBookingMoved:
		return "Booking rescheduled",
			fmt.Sprintf("Your booking has been moved to %s.", str("interval")),
			nil
	case effect.NotifyQuotationIssued:
		return fmt.Sprintf("Quotation %s", str("number")),
			fmt.Sprintf("Your quotation %s for %s is attached. Total %s, deposit %s. Valid until %s.",
				str("number"), str("interval"), str("gross"), str("deposit"), str("valid_until")),
			nil
	case effect.NotifyQuotationAccepted:
		return fmt.Sprintf("Quotation %s accepted", str("number")),
			fmt.Sprintf("Thank you for accepting quotation %s. Your booking for %s is confirmed.",
				str("number"), str("interval")),
			nil
	case effect.NotifyInvoiceIssued:
		return fmt.Sprintf("Invoice %s", str("number")),
			fmt.Sprintf("Invoice %s is attached. Amount due %s by %s. Pay online: %s",
				str("number"), str("amount_due"), str("due_date"), str("payment_url")),
			nil
	case effect.NotifyInvoiceReceipt:
		return fmt.Sprintf("Payment received for %s", str("number")),
			fmt.Sprintf("We received your payment of %s against invoice %s. Outstanding balance: %s.",
				str("amount"), str("number"), str("outstanding")),
			nil
	case effect.NotifyInvoiceOverdue:
		return fmt.Sprintf("Invoice %s is overdue", str("number")),
			fmt.Sprintf("Invoice %s for %s was due on %s. Please arrange payment.",
				str("number"), str("amount_due"), str("due_date")),
			nil
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}
}

// Ensure SMTPNotifier implements Notifier
var _ effect.Notifier = (*SMTPNotifier)(nil)
