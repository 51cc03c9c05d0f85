package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

type fakeNotificationRepo struct {
	created  []domain.Notification
	failFor  map[int64]error
	listResp []domain.Notification
	listErr  error
}

func (f *fakeNotificationRepo) Create(_ context.Context, userID int64, message string) (*domain.Notification, error) {
	if err, ok := f.failFor[userID]; ok {
		return nil, err
	}
	n := domain.Notification{ID: int64(len(f.created) + 1), UserID: userID, Message: message}
	f.created = append(f.created, n)
	return &n, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, _ int64, _ bool) ([]domain.Notification, error) {
	return f.listResp, f.listErr
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, _ int64) (int64, error) {
	return int64(len(f.listResp)), f.listErr
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ int64) (int64, error) {
	return int64(len(f.listResp)), f.listErr
}

type fakeIdentityRepo struct {
	roles map[string][]int64
	err   error
}

func (f *fakeIdentityRepo) UserIDsWithRole(_ context.Context, role string) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[role], nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestNotifyUsers_DeliversToEveryRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, &fakeIdentityRepo{}, nopLogger{})

	delivered := svc.NotifyUsers(context.Background(), []int64{1, 2, 3}, "Новая заявка на резервацию")

	assert.Equal(t, 3, delivered)
	require.Len(t, repo.created, 3)
	assert.Equal(t, "Новая заявка на резервацию", repo.created[0].Message)
}

func TestNotifyUsers_SkipsFailedRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{
		failFor: map[int64]error{2: errors.New("insert failed")},
	}
	svc := NewService(repo, &fakeIdentityRepo{}, nopLogger{})

	delivered := svc.NotifyUsers(context.Background(), []int64{1, 2, 3}, "msg")

	assert.Equal(t, 2, delivered)
	assert.Len(t, repo.created, 2)
}

func TestNotifyRole_ResolvesAudience(t *testing.T) {
	repo := &fakeNotificationRepo{}
	identity := &fakeIdentityRepo{roles: map[string][]int64{"coordinator": {10, 20}}}
	svc := NewService(repo, identity, nopLogger{})

	delivered := svc.NotifyRole(context.Background(), "coordinator", "msg")

	assert.Equal(t, 2, delivered)
}

func TestNotifyRole_MissingRoleIsEmptyAudience(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, &fakeIdentityRepo{}, nopLogger{})

	delivered := svc.NotifyRole(context.Background(), "ghosts", "msg")

	assert.Equal(t, 0, delivered)
	assert.Empty(t, repo.created)
}

func TestNotifyRole_ResolveFailureIsSwallowed(t *testing.T) {
	repo := &fakeNotificationRepo{}
	identity := &fakeIdentityRepo{err: errors.New("db down")}
	svc := NewService(repo, identity, nopLogger{})

	delivered := svc.NotifyRole(context.Background(), "coordinator", "msg")

	assert.Equal(t, 0, delivered)
}

func TestListForUser_WrapsRepositoryError(t *testing.T) {
	repo := &fakeNotificationRepo{listErr: errors.New("boom")}
	svc := NewService(repo, &fakeIdentityRepo{}, nopLogger{})

	_, err := svc.ListForUser(context.Background(), 1, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}
