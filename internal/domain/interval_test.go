package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

func tr(t *testing.T, startHour, endHour int) domain.TimeRange {
	t.Helper()
	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	r, err := domain.NewTimeRange(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	require.NoError(t, err)
	return r
}

func TestNewTimeRange_RejectsDegenerate(t *testing.T) {
	now := time.Now()

	_, err := domain.NewTimeRange(now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = domain.NewTimeRange(now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = domain.NewTimeRange(now, now.Add(time.Second))
	assert.NoError(t, err)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.TimeRange
		want bool
	}{
		{"identical", tr(t, 10, 11), tr(t, 10, 11), true},
		{"partial overlap", tr(t, 10, 12), tr(t, 11, 13), true},
		{"contained", tr(t, 10, 14), tr(t, 11, 12), true},
		{"touching boundaries", tr(t, 10, 11), tr(t, 11, 12), false},
		{"disjoint", tr(t, 10, 11), tr(t, 12, 13), false},
		{"one minute overlap", tr(t, 10, 12), tr(t, 11, 12), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Пересечение симметрично
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestOverlaps_SelfAlwaysOverlaps(t *testing.T) {
	r := tr(t, 9, 10)
	assert.True(t, r.Overlaps(r))
}
