package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/license-service/internal/repository"
)

type mockStatusRepository struct {
	mock.Mock
}

func (m *mockStatusRepository) LoadAll(ctx context.Context) ([]repository.StatusRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]repository.StatusRecord)
	return records, args.Error(1)
}

type mockLicenseRepository struct {
	mock.Mock
}

func (m *mockLicenseRepository) Insert(ctx context.Context, statusID int64, licenseConst, description string) (int64, error) {
	args := m.Called(ctx, statusID, licenseConst, description)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLicenseRepository) LoadByID(ctx context.Context, id int64) (*repository.LicenseRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*repository.LicenseRecord)
	return record, args.Error(1)
}

func (m *mockLicenseRepository) LoadByUUID(ctx context.Context, key string) (*repository.LicenseRecord, error) {
	args := m.Called(ctx, key)
	record, _ := args.Get(0).(*repository.LicenseRecord)
	return record, args.Error(1)
}

func (m *mockLicenseRepository) Update(ctx context.Context, id int64, description string) error {
	return m.Called(ctx, id, description).Error(0)
}

func (m *mockLicenseRepository) UpdateStatus(ctx context.Context, key string, statusID int64) error {
	return m.Called(ctx, key, statusID).Error(0)
}

func (m *mockLicenseRepository) Delete(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLicenseRepository) Search(ctx context.Context, filter repository.LicenseFilter) ([]repository.LicenseRecord, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]repository.LicenseRecord)
	return records, args.Error(1)
}

func (m *mockLicenseRepository) SearchCount(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func seededStatuses() []repository.StatusRecord {
	return []repository.StatusRecord{
		{ID: 1, Const: "ACTIVE", Description: "Active license"},
		{ID: 2, Const: "INACTIVE", Description: "Inactive license"},
	}
}
