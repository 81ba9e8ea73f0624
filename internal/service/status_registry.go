package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/license-service/internal/domain"
	"github.com/spec-kit/license-service/internal/repository"
	"github.com/spec-kit/license-service/pkg/util/errorutil"
)

// StatusRegistry serves the license status reference set, loading it from the store once per
// process. It is safe for concurrent use.
type StatusRegistry struct {
	statuses repository.StatusRepository

	mu      sync.RWMutex
	loaded  bool
	all     []domain.Status
	byID    map[int64]domain.Status
	byConst map[string]domain.Status
}

// NewStatusRegistry constructs the registry. Nothing is loaded until the first lookup.
func NewStatusRegistry(statuses repository.StatusRepository) *StatusRegistry {
	return &StatusRegistry{statuses: statuses}
}

// GetAll returns every known status in store order.
func (r *StatusRegistry) GetAll(ctx context.Context) ([]domain.Status, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Status(nil), r.all...), nil
}

// GetByID resolves a status by primary key.
func (r *StatusRegistry) GetByID(ctx context.Context, id int64) (domain.Status, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return domain.Status{}, err
	}
	r.mu.RLock()
	status, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Status{}, errorutil.NewStatusFetchError(fmt.Sprintf("status with id %d does not exist", id), nil)
	}
	return status, nil
}

// GetByConst resolves a status by its constant name.
func (r *StatusRegistry) GetByConst(ctx context.Context, statusConst string) (domain.Status, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return domain.Status{}, err
	}
	r.mu.RLock()
	status, ok := r.byConst[statusConst]
	r.mu.RUnlock()
	if !ok {
		return domain.Status{}, errorutil.NewStatusFetchError(fmt.Sprintf("status %q does not exist", statusConst), nil)
	}
	return status, nil
}

func (r *StatusRegistry) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	records, err := r.statuses.LoadAll(ctx)
	if err != nil {
		return errorutil.NewStatusFetchError("failed to load license statuses", err)
	}
	if len(records) == 0 {
		return errorutil.NewStatusFetchError("no license statuses found", nil)
	}

	all := make([]domain.Status, 0, len(records))
	byID := make(map[int64]domain.Status, len(records))
	byConst := make(map[string]domain.Status, len(records))
	for _, record := range records {
		status := domain.Status{ID: record.ID, Const: record.Const, Description: record.Description}
		all = append(all, status)
		byID[status.ID] = status
		byConst[status.Const] = status
	}
	r.all, r.byID, r.byConst = all, byID, byConst
	r.loaded = true
	return nil
}
