package service

import (
	"context"

	"github.com/helpapp/marketplace/internal/queue"

	"go.uber.org/zap"
)

// publish delivers an event after the state change has been persisted. A
// broker failure is logged and never fails the request.
func publish(ctx context.Context, pub queue.Publisher, logger *zap.Logger, event queue.Event) {
	if err := pub.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed",
			zap.String("event", event.Type),
			zap.String("booking_id", event.BookingID),
			zap.Error(err))
	}
}
