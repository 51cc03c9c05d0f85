package cancel_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrNotOwner возвращается, когда отменить пытается не владелец
	ErrNotOwner = errors.New("cancel_reservation: reservation belongs to another user")

	// ErrAlreadyFinalized возвращается, когда резервация уже в терминальном статусе
	ErrAlreadyFinalized = errors.New("cancel_reservation: reservation is already finalized")

	// ErrTooLateToCancel возвращается, когда до начала осталось меньше
	// минимального окна отмены
	ErrTooLateToCancel = errors.New("cancel_reservation: too late to cancel")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)
