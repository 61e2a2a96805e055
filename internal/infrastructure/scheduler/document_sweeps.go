package scheduler

import (
	"context"

	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/infrastructure/config"
)

// QuotationExpirer expires quotations whose validity window has lapsed
type QuotationExpirer interface {
	ExpireDue(ctx context.Context, batchSize int) (int, error)
}

// InvoiceOverdueMarker flags payable invoices past their due date
type InvoiceOverdueMarker interface {
	MarkOverdueDue(ctx context.Context, batchSize int) (int, error)
}

// NewQuotationExpirySweeper builds the sweeper that expires lapsed quotations
func NewQuotationExpirySweeper(svc QuotationExpirer, cfg config.SchedulerConfig, logger *zap.Logger) *Sweeper {
	return NewSweeper("quotation-expiry", cfg.QuotationExpiryInterval, cfg.BatchSize,
		svc.ExpireDue, logger)
}

// NewInvoiceOverdueSweeper builds the sweeper that marks overdue invoices
func NewInvoiceOverdueSweeper(svc InvoiceOverdueMarker, cfg config.SchedulerConfig, logger *zap.Logger) *Sweeper {
	return NewSweeper("invoice-overdue", cfg.OverdueInterval, cfg.BatchSize,
		svc.MarkOverdueDue, logger)
}
