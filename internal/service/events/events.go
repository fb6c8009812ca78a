// Package events publishes lifecycle changes to an optional message broker.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
)

// Publisher sends a JSON payload to a topic. pkg/mqtt clients satisfy it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Entity names used in topics
const (
	EntityBooking    = "booking"
	EntityCommission = "commission"
	EntityPayment    = "payment"
	EntityAgent      = "agent"
)

// StatusChange is published on <prefix>/<entity>/status.
type StatusChange struct {
	Entity     string    `json:"entity"`
	ID         string    `json:"id"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Bus publishes status changes. A nil Bus or a Bus without a publisher is a no-op;
// publish failures are logged and never returned.
type Bus struct {
	pub     Publisher
	prefix  string
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewBus creates a Bus
func NewBus(pub Publisher, topicPrefix string, m *metrics.Metrics, logger *zap.Logger) *Bus {
	if topicPrefix == "" {
		topicPrefix = "marketplace"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{pub: pub, prefix: topicPrefix, timeout: 2 * time.Second, metrics: m, logger: logger}
}

// Topic returns the status topic of an entity
func (b *Bus) Topic(entity string) string {
	return b.prefix + "/" + entity + "/status"
}

// StatusChanged publishes one transition. The request context's cancellation is
// ignored so a finished request still publishes.
func (b *Bus) StatusChanged(ctx context.Context, entity, id, from, to string) {
	if b == nil || b.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	event := StatusChange{Entity: entity, ID: id, From: from, To: to, OccurredAt: time.Now().UTC()}
	err := b.pub.Publish(ctx, b.Topic(entity), event)
	b.metrics.RecordEvent(entity+".status", err == nil)
	if err != nil {
		b.logger.Warn("event publish failed",
			zap.String("entity", entity),
			zap.String("id", id),
			zap.String("to", to),
			zap.Error(err),
		)
	}
}
