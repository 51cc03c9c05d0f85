package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

func TestReservationStatusPredicates(t *testing.T) {
	tests := []struct {
		status      domain.ReservationStatus
		active      bool
		terminal    bool
		decidable   bool
		cancellable bool
	}{
		{domain.StatusPending, true, false, true, true},
		{domain.StatusApproved, true, false, false, true},
		{domain.StatusRejected, false, true, false, false},
		{domain.StatusCancelled, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &domain.Reservation{Status: tt.status}
			assert.Equal(t, tt.active, r.IsActive())
			assert.Equal(t, tt.terminal, r.IsTerminal())
			assert.Equal(t, tt.decidable, r.CanBeDecided())
			assert.Equal(t, tt.cancellable, r.CanBeCancelled())
		})
	}
}

func TestResourceQuantity(t *testing.T) {
	r := &domain.Reservation{
		Usages: []domain.ReservationResource{
			{ResourceID: 1, Quantity: 2},
			{ResourceID: 2, Quantity: 5},
		},
	}

	assert.Equal(t, 2, r.ResourceQuantity(1))
	assert.Equal(t, 5, r.ResourceQuantity(2))
	assert.Equal(t, 0, r.ResourceQuantity(99))
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.Decision
		wantErr bool
	}{
		{"approve", domain.DecisionApproved, false},
		{"approved", domain.DecisionApproved, false},
		{"APPROVE", domain.DecisionApproved, false},
		{" Approved ", domain.DecisionApproved, false},
		{"reject", domain.DecisionRejected, false},
		{"rejected", domain.DecisionRejected, false},
		{"REJECT", domain.DecisionRejected, false},
		{"", "", true},
		{"maybe", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := domain.ParseDecision(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownDecision)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
