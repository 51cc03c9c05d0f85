package create_reservation

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SpaceID <= 0 {
		return fmt.Errorf("%w: spaceID must be positive", ErrInvalidInput)
	}

	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}

	if req.EndsAt.IsZero() {
		return fmt.Errorf("%w: endsAt is required", ErrInvalidInput)
	}

	if req.Purpose == "" {
		return fmt.Errorf("%w: purpose is required", ErrInvalidInput)
	}

	// Лимит считаем в символах, а не в байтах, как и для причины отмены
	if utf8.RuneCountInString(req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose exceeds %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}

	if req.AttendeesCount < domain.MinAttendeesCount {
		return fmt.Errorf("%w: attendeesCount must be at least %d", ErrInvalidInput, domain.MinAttendeesCount)
	}

	seen := make(map[int64]struct{}, len(req.Resources))
	for _, res := range req.Resources {
		if res.ResourceID <= 0 {
			return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
		}
		if res.Quantity <= 0 {
			return fmt.Errorf("%w: resource quantity must be positive", ErrInvalidInput)
		}
		if _, dup := seen[res.ResourceID]; dup {
			return fmt.Errorf("%w: duplicate resource id=%d", ErrInvalidInput, res.ResourceID)
		}
		seen[res.ResourceID] = struct{}{}
	}

	return nil
}

// committedQuantity суммирует количество ресурса, удерживаемое
// активными резервациями на интервале
func committedQuantity(reservations []*domain.Reservation, resourceID int64) int {
	total := 0
	for _, r := range reservations {
		total += r.ResourceQuantity(resourceID)
	}
	return total
}

// availableQuantity возвращает свободный остаток, не опускаясь ниже нуля
func availableQuantity(total, committed int) int {
	available := total - committed
	if available < 0 {
		return 0
	}
	return available
}
