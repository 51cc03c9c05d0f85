package create_reservation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
	spaceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/space"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
)

type fakeReservationRepo struct {
	overlapping []*domain.Reservation
	created     *domain.Reservation
	createErr   error
	filters     []domain.OverlapFilter
	nextID      int64
}

func (f *fakeReservationRepo) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.created = r
	return r, nil
}

func (f *fakeReservationRepo) ListOverlapping(_ context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error) {
	f.filters = append(f.filters, filter)
	return f.overlapping, nil
}

type fakeSpaceRepo struct {
	spaces map[int64]*domain.Space
}

func (f *fakeSpaceRepo) GetByID(_ context.Context, id int64) (*domain.Space, error) {
	if s, ok := f.spaces[id]; ok {
		return s, nil
	}
	return nil, spaceRepo.ErrSpaceNotFound
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

type fakeNotifier struct {
	roles    []string
	messages []string
}

func (f *fakeNotifier) NotifyRole(_ context.Context, role string, message string) int {
	f.roles = append(f.roles, role)
	f.messages = append(f.messages, message)
	return 1
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testNow   = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	testStart = time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
)

func newTestUseCase(res *fakeReservationRepo, resources map[int64]*domain.Resource) (*UseCase, *fakeNotifier) {
	spaces := map[int64]*domain.Space{
		1: {ID: 1, Name: "Sala Norte", IsActive: true},
		2: {ID: 2, Name: "Bodega", IsActive: false},
	}
	notifier := &fakeNotifier{}
	uc := NewUseCase(
		res,
		&fakeSpaceRepo{spaces: spaces},
		&fakeResourceRepo{resources: resources},
		notifier,
		passthroughTxManager{},
		"coordinator",
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: testNow}
	return uc, notifier
}

func validRequest() *Request {
	return &Request{
		UserID:         42,
		SpaceID:        1,
		StartsAt:       testStart,
		EndsAt:         testEnd,
		Purpose:        "Taller de robótica",
		AttendeesCount: 15,
	}
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc, notifier := newTestUseCase(repo, nil)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Sala Norte", resp.SpaceName)
	require.NotNil(t, repo.created)
	assert.Equal(t, domain.StatusPending, repo.created.Status)

	require.Len(t, notifier.roles, 1)
	assert.Equal(t, "coordinator", notifier.roles[0])
}

func TestExecute_ReservesResourcesWithinStock(t *testing.T) {
	repo := &fakeReservationRepo{}
	resources := map[int64]*domain.Resource{
		10: {ID: 10, Name: "Proyector", Quantity: 5, IsActive: true},
	}
	uc, _ := newTestUseCase(repo, resources)

	req := validRequest()
	req.Resources = []ResourceRequest{{ResourceID: 10, Quantity: 2}}

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Resources, 1)
	assert.Equal(t, "Proyector", resp.Resources[0].ResourceName)
	assert.Equal(t, 2, resp.Resources[0].Quantity)
}

func TestExecute_CountsCommittedStockOnInterval(t *testing.T) {
	// Из 5 проекторов 3 удержаны пересекающейся активной резервацией
	resources := map[int64]*domain.Resource{
		10: {ID: 10, Name: "Proyector", Quantity: 5, IsActive: true},
	}
	repo := &fakeReservationRepo{overlapping: []*domain.Reservation{{
		ID:     100,
		Status: domain.StatusApproved,
		Usages: []domain.ReservationResource{{ResourceID: 10, Quantity: 3}},
	}}}
	uc, _ := newTestUseCase(repo, resources)

	req := validRequest()
	req.Resources = []ResourceRequest{{ResourceID: 10, Quantity: 2}}
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	req = validRequest()
	req.Resources = []ResourceRequest{{ResourceID: 10, Quantity: 3}}
	_, err = uc.Execute(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientResource)

	var stockErr *InsufficientResourceError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(10), stockErr.Detail.ResourceID)
	assert.Equal(t, 3, stockErr.Detail.Requested)
	assert.Equal(t, 2, stockErr.Detail.Available)
}

func TestExecute_RejectsPastStart(t *testing.T) {
	uc, _ := newTestUseCase(&fakeReservationRepo{}, nil)

	req := validRequest()
	req.StartsAt = testNow.Add(-time.Hour)
	req.EndsAt = testNow.Add(time.Hour)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrStartsInPast)
}

func TestExecute_RejectsInvertedInterval(t *testing.T) {
	uc, _ := newTestUseCase(&fakeReservationRepo{}, nil)

	req := validRequest()
	req.StartsAt = testEnd
	req.EndsAt = testStart

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestExecute_RejectsZeroLengthInterval(t *testing.T) {
	uc, _ := newTestUseCase(&fakeReservationRepo{}, nil)

	req := validRequest()
	req.EndsAt = req.StartsAt

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestExecute_SpaceChecks(t *testing.T) {
	uc, _ := newTestUseCase(&fakeReservationRepo{}, nil)

	req := validRequest()
	req.SpaceID = 2
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSpaceInactive)

	req = validRequest()
	req.SpaceID = 404
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSpaceNotFound)
}

func TestExecute_ResourceChecks(t *testing.T) {
	resources := map[int64]*domain.Resource{
		11: {ID: 11, Name: "Tarima", Quantity: 1, IsActive: false},
	}
	uc, _ := newTestUseCase(&fakeReservationRepo{}, resources)

	req := validRequest()
	req.Resources = []ResourceRequest{{ResourceID: 11, Quantity: 1}}
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrResourceInactive)

	req = validRequest()
	req.Resources = []ResourceRequest{{ResourceID: 404, Quantity: 1}}
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_OverlappingPendingsOnSameSpaceBothAdmitted(t *testing.T) {
	// Пересечение по пространству не блокирует подачу заявки:
	// конфликт решается на этапе утверждения, обе заявки ждут решения
	resources := map[int64]*domain.Resource{
		10: {ID: 10, Name: "Proyector", Quantity: 5, IsActive: true},
	}
	repo := &fakeReservationRepo{}
	uc, _ := newTestUseCase(repo, resources)

	first := validRequest()
	first.Resources = []ResourceRequest{{ResourceID: 10, Quantity: 1}}
	resp, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)

	// Вторая заявка на то же пространство и тот же интервал
	repo.overlapping = []*domain.Reservation{{
		ID:      resp.ID,
		SpaceID: first.SpaceID,
		Status:  domain.StatusPending,
		Usages:  []domain.ReservationResource{{ResourceID: 10, Quantity: 1}},
	}}

	second := validRequest()
	second.Resources = []ResourceRequest{{ResourceID: 10, Quantity: 1}}
	resp, err = uc.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)

	// Выборка пересечений нужна только для подсчёта стока ресурсов:
	// без ограничения по пространству и по всем активным статусам
	require.Len(t, repo.filters, 2)
	for _, filter := range repo.filters {
		assert.Nil(t, filter.SpaceID)
		assert.Equal(t, domain.ActiveStatuses, filter.Statuses)
	}
}

func TestExecute_SerializationFailurePassesThrough(t *testing.T) {
	// Конфликт сериализации не должен превращаться в ErrInternal:
	// менеджер транзакций распознает его и повторяет транзакцию
	repo := &fakeReservationRepo{
		createErr: fmt.Errorf("%w: Create - execute insert: %v",
			dbmetrics.ErrSerializationFailure, &pq.Error{Code: "40001"}),
	}
	uc, notifier := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.True(t, dbmetrics.IsSerializationFailure(err))
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Empty(t, notifier.roles)
}

func TestExecute_PurposeLengthCountsRunes(t *testing.T) {
	repo := &fakeReservationRepo{}
	uc, _ := newTestUseCase(repo, nil)

	// Кириллица занимает два байта на символ, лимит считается в символах
	req := validRequest()
	req.Purpose = strings.Repeat("я", domain.MaxPurposeLength)
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	req = validRequest()
	req.Purpose = strings.Repeat("я", domain.MaxPurposeLength+1)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InputValidation(t *testing.T) {
	uc, _ := newTestUseCase(&fakeReservationRepo{}, nil)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing purpose", func(r *Request) { r.Purpose = "" }},
		{"zero attendees", func(r *Request) { r.AttendeesCount = 0 }},
		{"negative user", func(r *Request) { r.UserID = -1 }},
		{"duplicate resources", func(r *Request) {
			r.Resources = []ResourceRequest{
				{ResourceID: 10, Quantity: 1},
				{ResourceID: 10, Quantity: 2},
			}
		}},
		{"zero quantity", func(r *Request) {
			r.Resources = []ResourceRequest{{ResourceID: 10, Quantity: 0}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
