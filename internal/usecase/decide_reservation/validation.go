package decide_reservation

import (
	"fmt"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.ApproverID <= 0 {
		return fmt.Errorf("%w: approverID must be positive", ErrInvalidInput)
	}

	if req.Decision == "" {
		return fmt.Errorf("%w: decision is required", ErrInvalidInput)
	}

	if len(req.Notes) > domain.MaxApprovalNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxApprovalNotesLength)
	}

	return nil
}
