package dto

import (
	"github.com/spec-kit/license-service/internal/domain"
)

// TimestampLayout renders license timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// CreateLicenseRequest payload. Status is a status const and defaults to ACTIVE.
type CreateLicenseRequest struct {
	Const       string `json:"const" validate:"required,max=128"`
	Description string `json:"description" validate:"max=2048"`
	Status      string `json:"status" validate:"omitempty,max=64"`
}

// UpdateLicenseRequest payload. A nil Description keeps the stored value.
type UpdateLicenseRequest struct {
	Description *string `json:"description" validate:"omitempty,max=2048"`
}

// StatusResponse response.
type StatusResponse struct {
	ID          int64  `json:"id"`
	Const       string `json:"const"`
	Description string `json:"description"`
}

// LicenseResponse response.
type LicenseResponse struct {
	ID               int64          `json:"id"`
	UUID             string         `json:"uuid"`
	Const            string         `json:"const"`
	Description      string         `json:"description"`
	Status           StatusResponse `json:"status"`
	CreatedTimestamp string         `json:"created_timestamp"`
	UpdateTimestamp  string         `json:"update_timestamp"`
}

// SearchMeta describes a search page.
type SearchMeta struct {
	TotalCount int64  `json:"total_count"`
	Search     string `json:"search"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// NewStatusResponse maps a domain status.
func NewStatusResponse(status domain.Status) StatusResponse {
	return StatusResponse{ID: status.ID, Const: status.Const, Description: status.Description}
}

// NewLicenseResponse maps a domain license.
func NewLicenseResponse(license *domain.License) LicenseResponse {
	return LicenseResponse{
		ID:               license.ID,
		UUID:             license.UUID,
		Const:            license.Const,
		Description:      license.Description,
		Status:           NewStatusResponse(license.Status),
		CreatedTimestamp: license.CreatedTimestamp.Format(TimestampLayout),
		UpdateTimestamp:  license.UpdateTimestamp.Format(TimestampLayout),
	}
}
