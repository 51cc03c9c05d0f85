package domain

import "time"

// StatusCount количество резерваций в статусе (для статистики)
type StatusCount struct {
	Status ReservationStatus
	Count  int
}

// MonthlyCount количество резерваций по месяцам (для статистики)
type MonthlyCount struct {
	Month time.Time
	Count int
}
