package domain

// Well-known status constants seeded by the initial migration.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Status is a lookup value a license points at. Statuses are read-only for the service.
type Status struct {
	ID          int64
	Const       string
	Description string
}
