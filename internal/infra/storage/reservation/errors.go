package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда резервация не найдена
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrApprovedOverlap возвращается, когда exclusion constraint БД отклонил
	// запись: в этом пространстве уже есть одобренная резервация с
	// пересекающимся интервалом. Последний арбитр гонки check-then-act.
	ErrApprovedOverlap = errors.New("reservation.repository: overlapping approved reservation exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
