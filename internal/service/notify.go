package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vietanh2810/event-api/internal/notify"
)

// publish never fails the caller. A lost notification is logged and the request carries on.
func publish(ctx context.Context, p notify.Publisher, msg notify.Message) {
	if err := p.Publish(ctx, msg); err != nil {
		zap.L().Warn("failed to publish notification",
			zap.String("type", msg.Type),
			zap.Uint("event_id", msg.EventID),
			zap.Error(err))
	}
}
