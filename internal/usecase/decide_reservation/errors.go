package decide_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("decide_reservation: reservation not found")

	// ErrAccessDenied возвращается, когда у пользователя нет роли модератора
	ErrAccessDenied = errors.New("decide_reservation: access denied")

	// ErrInvalidState возвращается, когда резервация уже не ожидает решения
	ErrInvalidState = errors.New("decide_reservation: reservation is not pending")

	// ErrUnknownDecision возвращается при нераспознанной форме решения
	ErrUnknownDecision = errors.New("decide_reservation: unknown decision")

	// ErrSchedulingConflict возвращается, когда интервал пересекается
	// с уже подтверждённой резервацией того же пространства.
	// Заявка остаётся pending, запись решения не создаётся.
	ErrSchedulingConflict = errors.New("decide_reservation: approved reservation overlaps the interval")

	// ErrInsufficientResource возвращается, когда на момент решения
	// свободного стока уже не хватает на заявку
	ErrInsufficientResource = errors.New("decide_reservation: insufficient resource stock")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("decide_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("decide_reservation: internal error")
)
