package events

import "context"

// Sink receives encoded events for delivery outside the process.
type Sink interface {
	Publish(ctx context.Context, eventType string, payload []byte, key string) error
	Close() error
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Publish(context.Context, string, []byte, string) error { return nil }

func (NopSink) Close() error { return nil }
