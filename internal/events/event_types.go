package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLicenseCreated       EventType = "license_created"
	EventLicenseUpdated       EventType = "license_updated"
	EventLicenseStatusChanged EventType = "license_status_changed"
	EventLicenseDeleted       EventType = "license_deleted"
)

// AllEventTypes lists every license lifecycle event.
var AllEventTypes = []EventType{
	EventLicenseCreated,
	EventLicenseUpdated,
	EventLicenseStatusChanged,
	EventLicenseDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	LicenseUUID string      `json:"license_uuid"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// LicenseCreatedPayload payload.
type LicenseCreatedPayload struct {
	LicenseID int64  `json:"license_id"`
	Const     string `json:"const"`
	Status    string `json:"status"`
}

// LicenseUpdatedPayload payload.
type LicenseUpdatedPayload struct {
	LicenseID   int64  `json:"license_id"`
	Description string `json:"description"`
}

// LicenseStatusChangedPayload payload.
type LicenseStatusChangedPayload struct {
	StatusID    int64  `json:"status_id"`
	StatusConst string `json:"status_const"`
}

// LicenseDeletedPayload payload.
type LicenseDeletedPayload struct {
	RowsAffected int64 `json:"rows_affected"`
}
