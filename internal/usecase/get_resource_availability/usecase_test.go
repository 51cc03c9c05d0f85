package get_resource_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
	"github.com/m04kA/UCS-ReservationService/pkg/ptr"
)

type fakeReservationRepo struct {
	overlapping []*domain.Reservation
	lastFilter  domain.OverlapFilter
}

func (f *fakeReservationRepo) ListOverlapping(_ context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error) {
	f.lastFilter = filter
	return f.overlapping, nil
}

type fakeResourceRepo struct {
	resources map[int64]*domain.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	if r, ok := f.resources[id]; ok {
		return r, nil
	}
	return nil, resourceRepo.ErrResourceNotFound
}

func (f *fakeResourceRepo) ListActive(_ context.Context) ([]*domain.Resource, error) {
	list := make([]*domain.Resource, 0, len(f.resources))
	for _, id := range []int64{10, 11} {
		if r, ok := f.resources[id]; ok {
			list = append(list, r)
		}
	}
	return list, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testStart = time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
)

func defaultResources() map[int64]*domain.Resource {
	return map[int64]*domain.Resource{
		10: {ID: 10, Name: "Proyector", Quantity: 5, IsActive: true},
		11: {ID: 11, Name: "Sillas", Quantity: 40, IsActive: true},
	}
}

func TestExecute_FullStockWhenNoOverlaps(t *testing.T) {
	uc := NewUseCase(&fakeReservationRepo{}, &fakeResourceRepo{resources: defaultResources()}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 10,
		StartsAt:   testStart,
		EndsAt:     testEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 5, resp.Available)
	assert.Equal(t, "Proyector", resp.ResourceName)
}

func TestExecute_SubtractsCommittedStock(t *testing.T) {
	repo := &fakeReservationRepo{overlapping: []*domain.Reservation{
		{ID: 1, Status: domain.StatusApproved, Usages: []domain.ReservationResource{{ResourceID: 10, Quantity: 2}}},
		{ID: 2, Status: domain.StatusPending, Usages: []domain.ReservationResource{{ResourceID: 10, Quantity: 1}}},
	}}
	uc := NewUseCase(repo, &fakeResourceRepo{resources: defaultResources()}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 10,
		StartsAt:   testStart,
		EndsAt:     testEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Available)
	assert.Equal(t, domain.ActiveStatuses, repo.lastFilter.Statuses)
	assert.True(t, repo.lastFilter.WithUsage)
}

func TestExecute_AvailabilityNeverNegative(t *testing.T) {
	// Сток урезали до 1 уже после одобрения заявок на 3
	repo := &fakeReservationRepo{overlapping: []*domain.Reservation{
		{ID: 1, Status: domain.StatusApproved, Usages: []domain.ReservationResource{{ResourceID: 10, Quantity: 3}}},
	}}
	resources := defaultResources()
	resources[10].Quantity = 1
	uc := NewUseCase(repo, &fakeResourceRepo{resources: resources}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID: 10,
		StartsAt:   testStart,
		EndsAt:     testEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Available)
}

func TestExecute_PassesExcludeID(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc := NewUseCase(repo, &fakeResourceRepo{resources: defaultResources()}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID:           10,
		StartsAt:             testStart,
		EndsAt:               testEnd,
		ExcludeReservationID: ptr.Ptr(int64(7)),
	})

	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.ExcludeID)
	assert.Equal(t, int64(7), *repo.lastFilter.ExcludeID)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	uc := NewUseCase(&fakeReservationRepo{}, &fakeResourceRepo{resources: defaultResources()}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID: 404,
		StartsAt:   testStart,
		EndsAt:     testEnd,
	})

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_InvalidInterval(t *testing.T) {
	uc := NewUseCase(&fakeReservationRepo{}, &fakeResourceRepo{resources: defaultResources()}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		ResourceID: 10,
		StartsAt:   testEnd,
		EndsAt:     testStart,
	})

	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestExecuteBulk_CoversAllActiveResources(t *testing.T) {
	repo := &fakeReservationRepo{overlapping: []*domain.Reservation{
		{ID: 1, Status: domain.StatusApproved, Usages: []domain.ReservationResource{
			{ResourceID: 10, Quantity: 4},
			{ResourceID: 11, Quantity: 15},
		}},
	}}
	uc := NewUseCase(repo, &fakeResourceRepo{resources: defaultResources()}, nopLogger{})

	resp, err := uc.ExecuteBulk(context.Background(), &BulkRequest{
		StartsAt: testStart,
		EndsAt:   testEnd,
	})

	require.NoError(t, err)
	require.Len(t, resp.Resources, 2)
	assert.Equal(t, 1, resp.Resources[0].Available)
	assert.Equal(t, 25, resp.Resources[1].Available)
}
