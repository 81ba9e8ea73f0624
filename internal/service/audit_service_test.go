package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/license-service/internal/events"
)

type recordingSink struct {
	types   []string
	keys    []string
	payload [][]byte
	err     error
}

func (s *recordingSink) Publish(_ context.Context, eventType string, payload []byte, key string) error {
	s.types = append(s.types, eventType)
	s.keys = append(s.keys, key)
	s.payload = append(s.payload, payload)
	return s.err
}

func (s *recordingSink) Close() error { return nil }

func TestAuditServiceForwardsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.New(core))
	sink := &recordingSink{}
	NewAuditService(dispatcher, sink, zap.New(core)).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:          "evt-1",
		Type:        events.EventLicenseDeleted,
		LicenseUUID: testUUID,
		Payload:     events.LicenseDeletedPayload{RowsAffected: 1},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"license_deleted"}, sink.types)
	assert.Equal(t, []string{testUUID}, sink.keys)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(sink.payload[0], &decoded))
	assert.Equal(t, "evt-1", decoded["id"])
	assert.Equal(t, testUUID, decoded["license_uuid"])

	require.Equal(t, 1, logs.FilterMessage("license event").Len())
}

func TestAuditServiceSinkFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.New(core))
	NewAuditService(dispatcher, &recordingSink{err: errors.New("broker down")}, nil).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventLicenseCreated}))
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}
