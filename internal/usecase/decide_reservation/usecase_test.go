package decide_reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
)

type fakeReservationRepo struct {
	byID          map[int64]*domain.Reservation
	overlapping   map[bool][]*domain.Reservation // ключ: WithUsage
	updateErr     error
	updatedID     int64
	updatedStatus domain.ReservationStatus
	statusUpdates int
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (f *fakeReservationRepo) ListOverlapping(_ context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error) {
	return f.overlapping[filter.WithUsage], nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedStatus = status
	f.statusUpdates++
	return nil
}

type fakeApprovalRepo struct {
	upserted *domain.Approval
}

func (f *fakeApprovalRepo) Upsert(_ context.Context, a *domain.Approval) (*domain.Approval, error) {
	a.ID = 1
	a.DecidedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f.upserted = a
	return a, nil
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

type fakeIdentityRepo struct {
	staff map[int64]bool
}

func (f *fakeIdentityRepo) HasRole(_ context.Context, userID int64, _ string) (bool, error) {
	return f.staff[userID], nil
}

type fakeNotifier struct {
	userMessages []string
	roleMessages map[string][]string
}

func (f *fakeNotifier) NotifyUsers(_ context.Context, _ []int64, message string) int {
	f.userMessages = append(f.userMessages, message)
	return 1
}

func (f *fakeNotifier) NotifyRole(_ context.Context, role string, message string) int {
	if f.roleMessages == nil {
		f.roleMessages = make(map[string][]string)
	}
	f.roleMessages[role] = append(f.roleMessages[role], message)
	return 1
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingReservation() *domain.Reservation {
	starts := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	return &domain.Reservation{
		ID:             7,
		UserID:         42,
		SpaceID:        1,
		StartsAt:       starts,
		EndsAt:         starts.Add(2 * time.Hour),
		Status:         domain.StatusPending,
		Purpose:        "Ensayo del coro",
		AttendeesCount: 30,
		SpaceName:      "Auditorio",
		Usages: []domain.ReservationResource{
			{ResourceID: 10, Quantity: 2, ResourceName: "Proyector"},
		},
	}
}

func newTestUseCase(repo *fakeReservationRepo, resources map[int64]*domain.Resource) (*UseCase, *fakeApprovalRepo, *fakeNotifier) {
	if resources == nil {
		resources = map[int64]*domain.Resource{
			10: {ID: 10, Name: "Proyector", Quantity: 5, IsActive: true},
		}
	}
	approvals := &fakeApprovalRepo{}
	notifier := &fakeNotifier{}
	uc := NewUseCase(
		repo,
		approvals,
		&fakeResourceRepo{resources: resources},
		&fakeIdentityRepo{staff: map[int64]bool{99: true}},
		notifier,
		passthroughTxManager{},
		"coordinator",
		"aseo",
		nopLogger{},
	)
	return uc, approvals, notifier
}

func TestExecute_ApprovesPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: pendingReservation()}}
	uc, approvals, notifier := newTestUseCase(repo, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "approve",
		Notes:         "ok",
	})

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "approved", resp.Decision)
	assert.Equal(t, domain.StatusApproved, repo.updatedStatus)

	require.NotNil(t, approvals.upserted)
	assert.Equal(t, int64(99), approvals.upserted.ApproverID)

	// Владелец и группа подготовки помещений получают уведомления
	assert.Len(t, notifier.userMessages, 1)
	assert.Len(t, notifier.roleMessages["aseo"], 1)
}

func TestExecute_RejectsPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: pendingReservation()}}
	uc, approvals, notifier := newTestUseCase(repo, nil)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "rejected",
	})

	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, domain.StatusRejected, repo.updatedStatus)
	require.NotNil(t, approvals.upserted)
	assert.Equal(t, domain.DecisionRejected, approvals.upserted.Decision)

	// Отказ не трогает группу подготовки помещений
	assert.Len(t, notifier.userMessages, 1)
	assert.Empty(t, notifier.roleMessages["aseo"])
}

func TestExecute_DecisionSynonyms(t *testing.T) {
	for _, raw := range []string{"approve", "APPROVED", "Approve"} {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: pendingReservation()}}
		uc, _, _ := newTestUseCase(repo, nil)

		resp, err := uc.Execute(context.Background(), &Request{
			ReservationID: 7,
			ApproverID:    99,
			Decision:      raw,
		})

		require.NoError(t, err, "decision %q", raw)
		assert.Equal(t, "approved", resp.Decision)
	}
}

func TestExecute_UnknownDecision(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: pendingReservation()}}
	uc, _, _ := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "maybe",
	})

	assert.ErrorIs(t, err, ErrUnknownDecision)
}

func TestExecute_SchedulingConflictKeepsPending(t *testing.T) {
	repo := &fakeReservationRepo{
		byID: map[int64]*domain.Reservation{7: pendingReservation()},
		overlapping: map[bool][]*domain.Reservation{
			false: {{ID: 100, Status: domain.StatusApproved}},
		},
	}
	uc, approvals, notifier := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "approve",
	})

	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Zero(t, repo.statusUpdates)
	assert.Nil(t, approvals.upserted)
	assert.Empty(t, notifier.userMessages)
}

func TestExecute_ExclusionConstraintMapsToConflict(t *testing.T) {
	repo := &fakeReservationRepo{
		byID:      map[int64]*domain.Reservation{7: pendingReservation()},
		updateErr: reservationRepo.ErrApprovedOverlap,
	}
	uc, approvals, _ := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "approve",
	})

	assert.ErrorIs(t, err, ErrSchedulingConflict)
	assert.Nil(t, approvals.upserted)
}

func TestExecute_SerializationFailurePassesThrough(t *testing.T) {
	// Конфликт сериализации не превращается в ErrInternal:
	// менеджер транзакций распознает его и повторяет транзакцию
	repo := &fakeReservationRepo{
		byID: map[int64]*domain.Reservation{7: pendingReservation()},
		updateErr: fmt.Errorf("%w: UpdateStatus - execute update: driver failure",
			dbmetrics.ErrSerializationFailure),
	}
	uc, _, notifier := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "approve",
	})

	require.Error(t, err)
	assert.True(t, dbmetrics.IsSerializationFailure(err))
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Empty(t, notifier.userMessages)
}

func TestExecute_StockRecheckBlocksApproval(t *testing.T) {
	// 5 проекторов, 4 удержаны другой активной заявкой, нашей нужно 2
	repo := &fakeReservationRepo{
		byID: map[int64]*domain.Reservation{7: pendingReservation()},
		overlapping: map[bool][]*domain.Reservation{
			true: {{
				ID:     100,
				Status: domain.StatusApproved,
				Usages: []domain.ReservationResource{{ResourceID: 10, Quantity: 4}},
			}},
		},
	}
	uc, _, _ := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "approve",
	})

	assert.ErrorIs(t, err, ErrInsufficientResource)
	assert.Zero(t, repo.statusUpdates)
}

func TestExecute_SecondDecisionIsInvalidState(t *testing.T) {
	decided := pendingReservation()
	decided.Status = domain.StatusApproved
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: decided}}
	uc, _, _ := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    99,
		Decision:      "reject",
	})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecute_NonStaffDenied(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: pendingReservation()}}
	uc, _, _ := newTestUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		ApproverID:    42,
		Decision:      "approve",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	uc, _, _ := newTestUseCase(&fakeReservationRepo{}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		ReservationID: 404,
		ApproverID:    99,
		Decision:      "approve",
	})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}
