package billing

import (
	"go.uber.org/zap"

	"github.com/vendorbill/backend/internal/domain/shared"
)

// eventRecorder is the slice of the aggregate root that services drain
// after a successful write.
type eventRecorder interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// drainEvents logs every event the aggregate raised during the
// operation and clears the pending set. Logging is the only consumer
// until a broker is wired.
func drainEvents(logger *zap.Logger, agg eventRecorder) {
	for _, e := range agg.GetDomainEvents() {
		logger.Info("domain event",
			zap.String("event_id", e.EventID().String()),
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.String("vendor_id", e.VendorID().String()),
			zap.Time("occurred_at", e.OccurredAt()))
	}
	agg.ClearDomainEvents()
}
