package decide_reservation

import "time"

// Request модель запроса на решение по заявке
type Request struct {
	ReservationID int64  // ID резервации
	ApproverID    int64  // ID сотрудника, принимающего решение
	Decision      string // Решение: approve/approved/reject/rejected
	Notes         string // Комментарий к решению (опционально)
}

// Response модель ответа с принятым решением
type Response struct {
	ReservationID int64     // ID резервации
	Status        string    // Новый статус резервации
	Decision      string    // Нормализованное решение
	ApproverID    int64     // ID сотрудника
	Notes         string    // Комментарий к решению
	DecidedAt     time.Time // Время решения
}
