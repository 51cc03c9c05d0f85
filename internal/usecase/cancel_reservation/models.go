package cancel_reservation

import "time"

// Request модель запроса на отмену резервации
type Request struct {
	ReservationID int64  // ID резервации
	UserID        int64  // ID владельца
	Reason        string // Причина отмены (опционально, обрезается до лимита)
}

// Response модель ответа с отменённой резервацией
type Response struct {
	ReservationID int64     // ID резервации
	Status        string    // Статус после отмены (всегда cancelled)
	Reason        string    // Сохранённая причина отмены
	CancelledAt   time.Time // Время отмены
}
