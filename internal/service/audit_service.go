package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/license-service/internal/events"
)

// AuditService records license lifecycle events and forwards them to an external sink.
type AuditService struct {
	dispatcher events.Dispatcher
	sink       events.Sink
	logger     *zap.Logger
}

// NewAuditService creates the service. A nil sink only logs.
func NewAuditService(dispatcher events.Dispatcher, sink events.Sink, logger *zap.Logger) *AuditService {
	if sink == nil {
		sink = events.NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		sink:       sink,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every license event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("license event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("license_uuid", event.LicenseUUID),
		zap.Any("payload", event.Payload))

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	if err := a.sink.Publish(ctx, string(event.Type), payload, event.LicenseUUID); err != nil {
		return fmt.Errorf("forward %s event: %w", event.Type, err)
	}
	return nil
}
