package create_reservation

import "time"

// ResourceRequest запрошенное количество ресурса
type ResourceRequest struct {
	ResourceID int64 // ID ресурса
	Quantity   int   // Запрошенное количество, > 0
}

// Request модель запроса на создание резервации
type Request struct {
	UserID         int64             // ID пользователя
	SpaceID        int64             // ID пространства
	StartsAt       time.Time         // Начало интервала (включительно)
	EndsAt         time.Time         // Конец интервала (исключительно)
	Purpose        string            // Цель резервации
	AttendeesCount int               // Количество участников
	Resources      []ResourceRequest // Запрошенные ресурсы (опционально)
}

// ResourceLine строка ресурса в созданной резервации
type ResourceLine struct {
	ResourceID   int64  // ID ресурса
	ResourceName string // Название ресурса
	Quantity     int    // Зарезервированное количество
}

// InsufficientResource детали нехватки стока для ответа клиенту
type InsufficientResource struct {
	ResourceID   int64  // ID ресурса
	ResourceName string // Название ресурса
	Requested    int    // Запрошено
	Available    int    // Доступно на интервале
}

// Response модель ответа с созданной резервацией
type Response struct {
	ID             int64     // ID созданной резервации
	UserID         int64     // ID пользователя
	SpaceID        int64     // ID пространства
	StartsAt       time.Time // Начало интервала
	EndsAt         time.Time // Конец интервала
	Status         string    // Статус резервации (всегда pending)
	Purpose        string    // Цель резервации
	AttendeesCount int       // Количество участников

	// Денормализованные данные
	SpaceName string         // Название пространства
	Resources []ResourceLine // Зарезервированные ресурсы

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
