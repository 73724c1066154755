package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/lunchorder/internal/domain"
	"github.com/nikolayk812/lunchorder/internal/port"
)

// publish hands the event to the notifier and only logs a failure.
func publish(ctx context.Context, notifier port.Notifier, logger *slog.Logger,
	topic domain.ChangeTopic, action domain.ChangeAction, entityID uuid.UUID) {
	if notifier == nil {
		return
	}

	event := domain.ChangeEvent{
		Topic:      topic,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}

	if err := notifier.Notify(ctx, event); err != nil {
		logger.Warn("notifier.Notify failed",
			"method", "service.publish",
			"topic", topic,
			"action", action,
			"entityID", entityID,
			"error", err)
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
