package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/license-service/internal/domain"
	"github.com/spec-kit/license-service/internal/events"
	"github.com/spec-kit/license-service/internal/repository"
	"github.com/spec-kit/license-service/pkg/util/errorutil"
)

const (
	defaultSearchLimit  = 100
	fallbackSearchLimit = 10
	maxSearchLimit      = 100
)

// LicenseService coordinates license workflows.
type LicenseService struct {
	licenses   repository.LicenseRepository
	registry   *StatusRegistry
	dispatcher events.Dispatcher
}

// LicenseDependencies bundles collaborators for the license service.
type LicenseDependencies struct {
	LicenseRepo repository.LicenseRepository
	Registry    *StatusRegistry
	Dispatcher  events.Dispatcher
}

// SearchParams describes a license search. Zero Limit selects the default page size.
type SearchParams struct {
	Search string
	Limit  int
	Offset int
}

// NewLicenseService constructs the service.
func NewLicenseService(deps LicenseDependencies) *LicenseService {
	return &LicenseService{
		licenses:   deps.LicenseRepo,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates and stores a new license and returns it as persisted.
func (s *LicenseService) Create(ctx context.Context, status domain.Status, licenseConst, description string) (*domain.License, error) {
	if err := ValidateConst(licenseConst); err != nil {
		return nil, err
	}

	id, err := s.licenses.Insert(ctx, status.ID, licenseConst, description)
	if err != nil {
		if repository.IsStoreError(err) {
			return nil, errorutil.NewCreateError(fmt.Sprintf("failed to create license %s", licenseConst), err)
		}
		return nil, err
	}

	license, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventLicenseCreated,
		LicenseUUID: license.UUID,
		Payload: events.LicenseCreatedPayload{
			LicenseID: license.ID,
			Const:     license.Const,
			Status:    license.Status.Const,
		},
	})
	return license, nil
}

// GetByID loads a license by numeric id.
func (s *LicenseService) GetByID(ctx context.Context, id int64) (*domain.License, error) {
	record, err := s.licenses.LoadByID(ctx, id)
	if err != nil {
		return nil, fetchError(fmt.Sprintf("license with id %d not found", id), err)
	}
	return s.hydrate(ctx, record)
}

// GetByUUID loads a license by uuid.
func (s *LicenseService) GetByUUID(ctx context.Context, key string) (*domain.License, error) {
	record, err := s.licenses.LoadByUUID(ctx, key)
	if err != nil {
		return nil, fetchError(fmt.Sprintf("license with uuid %s not found", key), err)
	}
	return s.hydrate(ctx, record)
}

// Update persists the description of license and returns the stored state.
func (s *LicenseService) Update(ctx context.Context, license *domain.License) (*domain.License, error) {
	if license == nil {
		return nil, errorutil.NewUpdateError("license is required", nil)
	}
	if err := s.licenses.Update(ctx, license.ID, license.Description); err != nil {
		return nil, updateError(fmt.Sprintf("failed to update license %d", license.ID), err)
	}

	updated, err := s.GetByID(ctx, license.ID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventLicenseUpdated,
		LicenseUUID: updated.UUID,
		Payload:     events.LicenseUpdatedPayload{LicenseID: updated.ID, Description: updated.Description},
	})
	return updated, nil
}

// UpdateStatus moves the license identified by key to status.
func (s *LicenseService) UpdateStatus(ctx context.Context, key string, status domain.Status) (*domain.License, error) {
	if err := s.licenses.UpdateStatus(ctx, key, status.ID); err != nil {
		return nil, updateError(fmt.Sprintf("failed to update status of license %s", key), err)
	}

	updated, err := s.GetByUUID(ctx, key)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventLicenseStatusChanged,
		LicenseUUID: updated.UUID,
		Payload:     events.LicenseStatusChangedPayload{StatusID: updated.Status.ID, StatusConst: updated.Status.Const},
	})
	return updated, nil
}

// Delete removes the license identified by key.
func (s *LicenseService) Delete(ctx context.Context, key string) error {
	affected, err := s.licenses.Delete(ctx, key)
	if err != nil {
		if repository.IsStoreError(err) {
			return errorutil.NewDeleteError(fmt.Sprintf("failed to delete license %s", key), err)
		}
		return err
	}
	if affected == 0 {
		return errorutil.NewDeleteError(fmt.Sprintf("license %s does not exist", key), nil)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventLicenseDeleted,
		LicenseUUID: key,
		Payload:     events.LicenseDeletedPayload{RowsAffected: affected},
	})
	return nil
}

// Search returns one page of licenses whose const or description contains params.Search,
// together with the total number of matches.
func (s *LicenseService) Search(ctx context.Context, params SearchParams) (*domain.SearchResult, error) {
	filter := normalizeSearch(params)

	records, err := s.licenses.Search(ctx, filter)
	if err != nil {
		return nil, fetchError("failed to search licenses", err)
	}
	total, err := s.licenses.SearchCount(ctx, filter.Search)
	if err != nil {
		return nil, fetchError("failed to count licenses", err)
	}

	licenses := make([]domain.License, 0, len(records))
	for i := range records {
		license, err := s.hydrate(ctx, &records[i])
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, *license)
	}

	return &domain.SearchResult{
		Licenses:   licenses,
		TotalCount: total,
		Search:     filter.Search,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// ValidateConst checks that every underscore separated segment of licenseConst is a
// non-empty run of upper-case letters.
func ValidateConst(licenseConst string) error {
	for _, segment := range strings.Split(licenseConst, "_") {
		if segment == "" {
			return errorutil.NewConstSyntaxError(fmt.Sprintf("license const %q contains an empty segment", licenseConst))
		}
		for _, r := range segment {
			if !unicode.IsLetter(r) {
				return errorutil.NewConstSyntaxError(fmt.Sprintf("license const %q must contain only letters and underscores", licenseConst))
			}
		}
		if segment != strings.ToUpper(segment) {
			return errorutil.NewConstSyntaxError(fmt.Sprintf("license const %q must be upper case", licenseConst))
		}
	}
	return nil
}

func normalizeSearch(params SearchParams) repository.LicenseFilter {
	limit := params.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if limit < 0 || limit > maxSearchLimit {
		limit = fallbackSearchLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return repository.LicenseFilter{Search: params.Search, Limit: limit, Offset: offset}
}

func (s *LicenseService) hydrate(ctx context.Context, record *repository.LicenseRecord) (*domain.License, error) {
	status, err := s.registry.GetByID(ctx, record.StatusID)
	if err != nil {
		return nil, err
	}
	return &domain.License{
		ID:               record.ID,
		UUID:             record.UUID,
		Const:            record.Const,
		Description:      record.Description,
		Status:           status,
		CreatedTimestamp: record.CreatedTimestamp,
		UpdateTimestamp:  record.UpdateTimestamp,
	}, nil
}

func (s *LicenseService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func fetchError(message string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || repository.IsStoreError(err) {
		return errorutil.NewFetchError(message, err)
	}
	return err
}

func updateError(message string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || repository.IsStoreError(err) {
		return errorutil.NewUpdateError(message, err)
	}
	return err
}
