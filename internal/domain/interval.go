package domain

import (
	"errors"
	"time"
)

// ErrInvalidInterval возвращается при некорректном интервале (end <= start)
var ErrInvalidInterval = errors.New("domain: interval end must be after start")

// TimeRange полуоткрытый временной интервал [Start, End).
// Начало включается, конец исключается: интервалы, которые только
// касаются границами, НЕ пересекаются.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange создает валидированный интервал.
// Вырожденные и перевёрнутые интервалы (End <= Start) отклоняются здесь,
// на границе системы - всё, что ниже, работает только с валидными интервалами.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, ErrInvalidInterval
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Строгие неравенства: r.Start < other.End && other.Start < r.End.
// Граничные случаи (r.End == other.Start) пересечением не считаются.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Duration возвращает длительность интервала
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
