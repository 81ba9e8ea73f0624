package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/license-service/internal/domain"
	"github.com/spec-kit/license-service/internal/events"
	"github.com/spec-kit/license-service/internal/repository"
	"github.com/spec-kit/license-service/pkg/util/errorutil"
)

const testUUID = "6f9619ff-8b86-d011-b42d-00c04fc964ff"

var activeStatus = domain.Status{ID: 1, Const: "ACTIVE", Description: "Active license"}

type licenseFixture struct {
	licenses  *mockLicenseRepository
	statuses  *mockStatusRepository
	published []events.Event
	service   *LicenseService
}

func newLicenseFixture(t *testing.T) *licenseFixture {
	t.Helper()
	f := &licenseFixture{
		licenses: &mockLicenseRepository{},
		statuses: &mockStatusRepository{},
	}
	f.statuses.On("LoadAll", mock.Anything).Return(seededStatuses(), nil).Maybe()

	dispatcher := events.NewInMemoryDispatcher(nil)
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			f.published = append(f.published, e)
			return nil
		})
	}

	f.service = NewLicenseService(LicenseDependencies{
		LicenseRepo: f.licenses,
		Registry:    NewStatusRegistry(f.statuses),
		Dispatcher:  dispatcher,
	})
	return f
}

func licenseRecord(id int64, licenseConst string, statusID int64) *repository.LicenseRecord {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &repository.LicenseRecord{
		ID:               id,
		UUID:             testUUID,
		Const:            licenseConst,
		Description:      "Test license",
		StatusID:         statusID,
		CreatedTimestamp: created,
		UpdateTimestamp:  created,
	}
}

func storeError(op string) error {
	return &repository.StoreError{Op: op, Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func TestValidateConst(t *testing.T) {
	valid := []string{"CONST", "CONST_ONE", "A_B_C", "ÄNDERUNG"}
	for _, c := range valid {
		assert.NoError(t, ValidateConst(c), c)
	}

	invalid := []string{"", "_A", "A_", "A__B", "const", "Const_ONE", "CONST1", "CONST-ONE", "CONST ONE", "sfsdfsdf"}
	for _, c := range invalid {
		err := ValidateConst(c)
		assert.True(t, errorutil.HasCode(err, errorutil.CodeConstSyntax), c)
	}
}

func TestCreateRejectsInvalidConstBeforeInsert(t *testing.T) {
	f := newLicenseFixture(t)

	_, err := f.service.Create(context.Background(), activeStatus, "invalid_const", "Test license")
	assert.True(t, errorutil.HasCode(err, errorutil.CodeConstSyntax))
	f.licenses.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.published)
}

func TestCreate(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := context.Background()
	f.licenses.On("Insert", ctx, int64(1), "CONST_ONE", "Test license").Return(int64(7), nil).Once()
	f.licenses.On("LoadByID", ctx, int64(7)).Return(licenseRecord(7, "CONST_ONE", 1), nil).Once()

	license, err := f.service.Create(ctx, activeStatus, "CONST_ONE", "Test license")
	require.NoError(t, err)

	assert.Equal(t, int64(7), license.ID)
	assert.Equal(t, testUUID, license.UUID)
	assert.Equal(t, activeStatus, license.Status)
	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventLicenseCreated, f.published[0].Type)
	assert.Equal(t, testUUID, f.published[0].LicenseUUID)
	assert.NotEmpty(t, f.published[0].ID)
	f.licenses.AssertExpectations(t)
}

func TestCreateStoreRejection(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("Insert", mock.Anything, int64(1), "CONST", "dup").Return(int64(0), storeError("insert license")).Once()

	_, err := f.service.Create(context.Background(), activeStatus, "CONST", "dup")
	assert.True(t, errorutil.HasCode(err, errorutil.CodeCreateFailed))
	assert.True(t, repository.IsStoreError(err))
	assert.Empty(t, f.published)
}

func TestCreateTransportErrorPropagates(t *testing.T) {
	f := newLicenseFixture(t)
	transport := errors.New("connection reset by peer")
	f.licenses.On("Insert", mock.Anything, int64(1), "CONST", "x").Return(int64(0), transport).Once()

	_, err := f.service.Create(context.Background(), activeStatus, "CONST", "x")
	assert.Same(t, transport, err)
}

func TestGetByIDNotFound(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("LoadByID", mock.Anything, int64(42)).Return(nil, pgx.ErrNoRows).Once()

	_, err := f.service.GetByID(context.Background(), 42)
	assert.True(t, errorutil.HasCode(err, errorutil.CodeFetchFailed))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestGetByUUIDNotFound(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("LoadByUUID", mock.Anything, "sfsdfsdf").Return(nil, pgx.ErrNoRows).Once()

	_, err := f.service.GetByUUID(context.Background(), "sfsdfsdf")
	assert.True(t, errorutil.HasCode(err, errorutil.CodeFetchFailed))
}

func TestGetByUUIDUnknownStatus(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("LoadByUUID", mock.Anything, testUUID).Return(licenseRecord(1, "CONST", 9), nil).Once()

	_, err := f.service.GetByUUID(context.Background(), testUUID)
	assert.True(t, errorutil.HasCode(err, errorutil.CodeStatusFetchFailed))
}

func TestUpdate(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := context.Background()
	updated := licenseRecord(3, "CONST", 1)
	updated.Description = "Updated"
	updated.UpdateTimestamp = updated.CreatedTimestamp.Add(time.Second)
	f.licenses.On("Update", ctx, int64(3), "Updated").Return(nil).Once()
	f.licenses.On("LoadByID", ctx, int64(3)).Return(updated, nil).Once()

	license, err := f.service.Update(ctx, &domain.License{ID: 3, Description: "Updated"})
	require.NoError(t, err)
	assert.Equal(t, "Updated", license.Description)
	assert.NotEqual(t, license.CreatedTimestamp, license.UpdateTimestamp)
	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventLicenseUpdated, f.published[0].Type)
}

func TestUpdateNoRows(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("Update", mock.Anything, int64(3), "x").Return(pgx.ErrNoRows).Once()

	_, err := f.service.Update(context.Background(), &domain.License{ID: 3, Description: "x"})
	assert.True(t, errorutil.HasCode(err, errorutil.CodeUpdateFailed))
	assert.Empty(t, f.published)
}

func TestUpdateStatus(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := context.Background()
	inactive := domain.Status{ID: 2, Const: "INACTIVE"}
	f.licenses.On("UpdateStatus", ctx, testUUID, int64(2)).Return(nil).Once()
	f.licenses.On("LoadByUUID", ctx, testUUID).Return(licenseRecord(3, "CONST", 2), nil).Once()

	license, err := f.service.UpdateStatus(ctx, testUUID, inactive)
	require.NoError(t, err)
	assert.Equal(t, int64(2), license.Status.ID)
	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventLicenseStatusChanged, f.published[0].Type)
}

func TestUpdateStatusInvalidStatus(t *testing.T) {
	f := newLicenseFixture(t)
	fk := &repository.StoreError{Op: "update license status", Code: "23503", Message: "violates foreign key constraint"}
	f.licenses.On("UpdateStatus", mock.Anything, testUUID, int64(99)).Return(fk).Once()

	_, err := f.service.UpdateStatus(context.Background(), testUUID, domain.Status{ID: 99})
	assert.True(t, errorutil.HasCode(err, errorutil.CodeUpdateFailed))
}

func TestDelete(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("Delete", mock.Anything, testUUID).Return(int64(1), nil).Once()

	require.NoError(t, f.service.Delete(context.Background(), testUUID))
	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventLicenseDeleted, f.published[0].Type)
}

func TestDeleteMissing(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("Delete", mock.Anything, "sfsdfsdf").Return(int64(0), nil).Once()

	err := f.service.Delete(context.Background(), "sfsdfsdf")
	assert.True(t, errorutil.HasCode(err, errorutil.CodeDeleteFailed))
	assert.Empty(t, f.published)
}

func TestSearchNormalizesPaging(t *testing.T) {
	tests := []struct {
		name   string
		params SearchParams
		want   repository.LicenseFilter
	}{
		{name: "default limit", params: SearchParams{}, want: repository.LicenseFilter{Limit: 100}},
		{name: "limit above max", params: SearchParams{Search: "a", Limit: 101}, want: repository.LicenseFilter{Search: "a", Limit: 10}},
		{name: "negative limit", params: SearchParams{Limit: -1}, want: repository.LicenseFilter{Limit: 10}},
		{name: "negative offset", params: SearchParams{Limit: 20, Offset: -1}, want: repository.LicenseFilter{Limit: 20}},
		{name: "kept", params: SearchParams{Limit: 100, Offset: 5}, want: repository.LicenseFilter{Limit: 100, Offset: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLicenseFixture(t)
			f.licenses.On("Search", mock.Anything, tt.want).Return([]repository.LicenseRecord{}, nil).Once()
			f.licenses.On("SearchCount", mock.Anything, tt.want.Search).Return(int64(0), nil).Once()

			result, err := f.service.Search(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Limit, result.Limit)
			assert.Equal(t, tt.want.Offset, result.Offset)
			assert.Empty(t, result.Licenses)
			f.licenses.AssertExpectations(t)
		})
	}
}

func TestSearchHydratesResults(t *testing.T) {
	f := newLicenseFixture(t)
	filter := repository.LicenseFilter{Search: "one", Limit: 100}
	f.licenses.On("Search", mock.Anything, filter).Return([]repository.LicenseRecord{*licenseRecord(2, "CONST_ONE", 1)}, nil).Once()
	f.licenses.On("SearchCount", mock.Anything, "one").Return(int64(1), nil).Once()

	result, err := f.service.Search(context.Background(), SearchParams{Search: "one"})
	require.NoError(t, err)
	require.Len(t, result.Licenses, 1)
	assert.Equal(t, "CONST_ONE", result.Licenses[0].Const)
	assert.Equal(t, activeStatus, result.Licenses[0].Status)
	assert.Equal(t, int64(1), result.TotalCount)
}

func TestSearchStoreRejection(t *testing.T) {
	f := newLicenseFixture(t)
	f.licenses.On("Search", mock.Anything, mock.Anything).Return(nil, storeError("search licenses")).Once()

	_, err := f.service.Search(context.Background(), SearchParams{})
	assert.True(t, errorutil.HasCode(err, errorutil.CodeFetchFailed))
}

func TestSearchCountTransportError(t *testing.T) {
	f := newLicenseFixture(t)
	transport := errors.New("i/o timeout")
	f.licenses.On("Search", mock.Anything, mock.Anything).Return([]repository.LicenseRecord{}, nil).Once()
	f.licenses.On("SearchCount", mock.Anything, "").Return(int64(0), transport).Once()

	_, err := f.service.Search(context.Background(), SearchParams{})
	assert.Same(t, transport, err)
}
