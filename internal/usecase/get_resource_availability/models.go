package get_resource_availability

import "time"

// Request модель запроса доступности одного ресурса
type Request struct {
	ResourceID           int64     // ID ресурса
	StartsAt             time.Time // Начало интервала (включительно)
	EndsAt               time.Time // Конец интервала (исключительно)
	ExcludeReservationID *int64    // Не учитывать резервацию (опционально)
}

// BulkRequest модель запроса доступности всех активных ресурсов
type BulkRequest struct {
	StartsAt             time.Time // Начало интервала (включительно)
	EndsAt               time.Time // Конец интервала (исключительно)
	ExcludeReservationID *int64    // Не учитывать резервацию (опционально)
}

// Response доступность одного ресурса на интервале
type Response struct {
	ResourceID   int64  // ID ресурса
	ResourceName string // Название ресурса
	Total        int    // Общий сток
	Available    int    // Свободный остаток, не меньше нуля
}

// BulkResponse доступность всех активных ресурсов на интервале
type BulkResponse struct {
	Resources []Response // Отсортировано по названию ресурса
}
