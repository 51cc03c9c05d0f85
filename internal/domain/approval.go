package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrUnknownDecision возвращается при нераспознанной форме решения
var ErrUnknownDecision = errors.New("domain: unknown approval decision")

// Decision represents a staff decision on a pending reservation
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ParseDecision нормализует текстовую форму решения.
// Веб-слой исторически присылает две синонимичные формы
// ("approve"/"approved", "reject"/"rejected") - обе сводятся
// к одному двухзначному Decision до какой-либо валидации.
func ParseDecision(raw string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approve", "approved":
		return DecisionApproved, nil
	case "reject", "rejected":
		return DecisionRejected, nil
	default:
		return "", ErrUnknownDecision
	}
}

// Approval at most one per reservation (1:1); replaced in place on re-decision
// at the storage level, though the lifecycle only permits one decision
type Approval struct {
	ID            int64
	ReservationID int64
	ApproverID    int64
	Decision      Decision
	Notes         string
	DecidedAt     time.Time
}
