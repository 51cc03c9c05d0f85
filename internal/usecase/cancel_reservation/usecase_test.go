package cancel_reservation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/reservation"
)

type fakeReservationRepo struct {
	byID         map[int64]*domain.Reservation
	cancelledID  int64
	savedReason  string
	cancelCalled bool
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (f *fakeReservationRepo) Cancel(_ context.Context, id int64, reason string) error {
	f.cancelledID = id
	f.savedReason = reason
	f.cancelCalled = true

	r := f.byID[id]
	r.Status = domain.StatusCancelled
	r.CancelReason = &reason
	cancelledAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	r.CancelledAt = &cancelledAt
	return nil
}

type fakeNotifier struct {
	roleMessages map[string][]string
}

func (f *fakeNotifier) NotifyRole(_ context.Context, role string, message string) int {
	if f.roleMessages == nil {
		f.roleMessages = make(map[string][]string)
	}
	f.roleMessages[role] = append(f.roleMessages[role], message)
	return 1
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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

var testStart = time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

func activeReservation(status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:        7,
		UserID:    42,
		SpaceID:   1,
		StartsAt:  testStart,
		EndsAt:    testStart.Add(2 * time.Hour),
		Status:    status,
		Purpose:   "Clase de yoga",
		SpaceName: "Sala Norte",
	}
}

func newTestUseCase(repo *fakeReservationRepo, now time.Time) (*UseCase, *fakeNotifier) {
	notifier := &fakeNotifier{}
	uc := NewUseCase(repo, notifier, passthroughTxManager{}, 2*time.Hour, "aseo", nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc, notifier
}

func TestExecute_CancelsPendingReservation(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(domain.StatusPending)}}
	uc, notifier := newTestUseCase(repo, testStart.Add(-24*time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		UserID:        42,
		Reason:        "Se suspendió la clase",
	})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "Se suspendió la clase", resp.Reason)
	assert.Equal(t, int64(7), repo.cancelledID)

	// Группа подготовки узнаёт об отмене
	assert.Len(t, notifier.roleMessages["aseo"], 1)
}

func TestExecute_CancelApprovedNotifiesOperations(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(domain.StatusApproved)}}
	uc, notifier := newTestUseCase(repo, testStart.Add(-24*time.Hour))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 7, UserID: 42})

	require.NoError(t, err)
	assert.Len(t, notifier.roleMessages["aseo"], 1)
}

func TestExecute_DeadlineBoundary(t *testing.T) {
	// Окно отмены 2 часа: ровно за 2 часа до начала уже поздно,
	// на секунду раньше еще можно
	deadline := testStart.Add(-2 * time.Hour)

	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(domain.StatusPending)}}
	uc, _ := newTestUseCase(repo, deadline)
	_, err := uc.Execute(context.Background(), &Request{ReservationID: 7, UserID: 42})
	assert.ErrorIs(t, err, ErrTooLateToCancel)
	assert.False(t, repo.cancelCalled)

	repo = &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(domain.StatusPending)}}
	uc, _ = newTestUseCase(repo, deadline.Add(-time.Second))
	_, err = uc.Execute(context.Background(), &Request{ReservationID: 7, UserID: 42})
	require.NoError(t, err)
	assert.True(t, repo.cancelCalled)
}

func TestExecute_TerminalStatusesCannotBeCancelled(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusRejected, domain.StatusCancelled} {
		repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(status)}}
		uc, _ := newTestUseCase(repo, testStart.Add(-24*time.Hour))

		_, err := uc.Execute(context.Background(), &Request{ReservationID: 7, UserID: 42})

		assert.ErrorIs(t, err, ErrAlreadyFinalized, "status %s", status)
	}
}

func TestExecute_OnlyOwnerCanCancel(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(domain.StatusPending)}}
	uc, _ := newTestUseCase(repo, testStart.Add(-24*time.Hour))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 7, UserID: 1000})

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, repo.cancelCalled)
}

func TestExecute_TruncatesLongReason(t *testing.T) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{7: activeReservation(domain.StatusPending)}}
	uc, _ := newTestUseCase(repo, testStart.Add(-24*time.Hour))

	longReason := strings.Repeat("р", domain.MaxCancelReasonLength+40)

	resp, err := uc.Execute(context.Background(), &Request{
		ReservationID: 7,
		UserID:        42,
		Reason:        longReason,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.MaxCancelReasonLength, len([]rune(resp.Reason)))
	assert.Equal(t, domain.MaxCancelReasonLength, len([]rune(repo.savedReason)))
}

func TestExecute_NotFound(t *testing.T) {
	uc, _ := newTestUseCase(&fakeReservationRepo{}, testStart.Add(-24*time.Hour))

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 404, UserID: 42})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}
