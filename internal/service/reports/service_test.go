package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	"github.com/m04kA/UCS-ReservationService/internal/service/reports/models"
	"github.com/m04kA/UCS-ReservationService/pkg/ptr"
)

type fakeReservationRepo struct {
	rows       []*domain.Reservation
	lastFilter domain.ReportFilter
	byStatus   []domain.StatusCount
	byMonth    []domain.MonthlyCount
	lastSince  time.Time
}

func (f *fakeReservationRepo) ListForReport(_ context.Context, filter domain.ReportFilter) ([]*domain.Reservation, error) {
	f.lastFilter = filter
	return f.rows, nil
}

func (f *fakeReservationRepo) CountByStatus(_ context.Context) ([]domain.StatusCount, error) {
	return f.byStatus, nil
}

func (f *fakeReservationRepo) CountByMonth(_ context.Context, since time.Time) ([]domain.MonthlyCount, error) {
	f.lastSince = since
	return f.byMonth, nil
}

type fakeApprovalRepo struct {
	decided map[domain.Decision]int
}

func (f *fakeApprovalRepo) CountDecidedSince(_ context.Context, _ time.Time, decision domain.Decision) (int, error) {
	return f.decided[decision], nil
}

type fakeIdentityRepo struct {
	staff map[int64]bool
}

func (f *fakeIdentityRepo) HasRole(_ context.Context, userID int64, _ string) (bool, error) {
	return f.staff[userID], nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(res *fakeReservationRepo, app *fakeApprovalRepo, now time.Time) *Service {
	if app == nil {
		app = &fakeApprovalRepo{}
	}
	ident := &fakeIdentityRepo{staff: map[int64]bool{99: true}}
	return NewService(res, app, ident, "coordinator", fixedTime{now: now}, nopLogger{})
}

func TestExport_RequiresStaffRole(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{}, nil, time.Now())

	_, err := svc.Export(context.Background(), &models.ReportRequest{UserID: 42})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExport_BuildsRows(t *testing.T) {
	starts := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	repo := &fakeReservationRepo{rows: []*domain.Reservation{{
		ID:             3,
		UserID:         42,
		SpaceID:        1,
		StartsAt:       starts,
		EndsAt:         starts.Add(time.Hour),
		Status:         domain.StatusApproved,
		Purpose:        "Charla técnica",
		AttendeesCount: 12,
		SpaceName:      "Auditorio",
		Username:       "jperez",
		Usages: []domain.ReservationResource{
			{ResourceID: 1, Quantity: 1, ResourceName: "Proyector"},
			{ResourceID: 2, Quantity: 20, ResourceName: "Sillas"},
		},
	}}}
	svc := newTestService(repo, nil, time.Now())

	resp, err := svc.Export(context.Background(), &models.ReportRequest{UserID: 99})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, "Auditorio", row.SpaceName)
	assert.Equal(t, "Proyector x1; Sillas x20", row.Resources)
	assert.Len(t, row.Record(), len(models.CSVHeader()))
}

func TestExport_StatusFilterValidation(t *testing.T) {
	repo := &fakeReservationRepo{}
	svc := newTestService(repo, nil, time.Now())

	_, err := svc.Export(context.Background(), &models.ReportRequest{
		UserID: 99,
		Status: ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Export(context.Background(), &models.ReportRequest{
		UserID: 99,
		Status: ptr.Ptr("rejected"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusRejected, *repo.lastFilter.Status)
}

func TestExport_RejectsInvertedPeriod(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{}, nil, time.Now())

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Export(context.Background(), &models.ReportRequest{
		UserID:    99,
		StartDate: &day,
		EndDate:   &day,
	})

	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestStatistics_AggregatesCounters(t *testing.T) {
	now := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	repo := &fakeReservationRepo{
		byStatus: []domain.StatusCount{
			{Status: domain.StatusPending, Count: 4},
			{Status: domain.StatusApproved, Count: 10},
			{Status: domain.StatusRejected, Count: 2},
		},
		byMonth: []domain.MonthlyCount{
			{Month: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Count: 7},
			{Month: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Count: 9},
		},
	}
	approvals := &fakeApprovalRepo{decided: map[domain.Decision]int{
		domain.DecisionApproved: 3,
		domain.DecisionRejected: 1,
	}}
	svc := newTestService(repo, approvals, now)

	resp, err := svc.Statistics(context.Background(), 99)

	require.NoError(t, err)
	assert.Equal(t, 16, resp.Total)
	assert.Equal(t, 3, resp.ApprovedToday)
	assert.Equal(t, 1, resp.RejectedToday)
	require.Len(t, resp.ByMonth, 2)
	assert.Equal(t, "2026-08", resp.ByMonth[0].Month)
	assert.Equal(t, now.AddDate(0, -12, 0), repo.lastSince)
}

func TestStatistics_RequiresStaffRole(t *testing.T) {
	svc := newTestService(&fakeReservationRepo{}, nil, time.Now())

	_, err := svc.Statistics(context.Background(), 42)

	assert.ErrorIs(t, err, ErrAccessDenied)
}
