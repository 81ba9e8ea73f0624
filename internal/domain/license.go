package domain

import "time"

// License is a named license record bound to a status.
type License struct {
	ID               int64
	UUID             string
	Const            string
	Description      string
	Status           Status
	CreatedTimestamp time.Time
	UpdateTimestamp  time.Time
}
