package domain

import "time"

// Notification внутреннее уведомление пользователя
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// User учётная запись (read-only справочные данные для резолва аудиторий)
type User struct {
	ID       int64
	Username string
	Email    string
}
