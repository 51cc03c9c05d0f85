package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// ReportRequest параметры выгрузки резерваций
type ReportRequest struct {
	UserID    int64      `json:"userId"`
	StartDate *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate   *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status    *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
	SpaceID   *int64     `json:"spaceId,omitempty"`   // Фильтр по пространству (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ReportRequest) ToDomainFilter() (domain.ReportFilter, error) {
	filter := domain.ReportFilter{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		SpaceID:   r.SpaceID,
	}

	if r.Status != nil {
		s := domain.ReservationStatus(*r.Status)
		switch s {
		case domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled:
			filter.Status = &s
		default:
			return filter, ErrInvalidStatus
		}
	}

	return filter, nil
}

// Response модели

// ReportRow строка выгрузки резерваций
type ReportRow struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	SpaceName      string `json:"spaceName"`
	StartsAt       string `json:"startsAt"` // ISO 8601 format
	EndsAt         string `json:"endsAt"`   // ISO 8601 format
	Status         string `json:"status"`
	Purpose        string `json:"purpose"`
	AttendeesCount int    `json:"attendeesCount"`
	Resources      string `json:"resources"` // "Proyector x1; Sillas x20"
	DecisionNotes  string `json:"decisionNotes"`
	CancelReason   string `json:"cancelReason"`
	CreatedAt      string `json:"createdAt"` // ISO 8601 format
}

// ReportResponse результат выгрузки
type ReportResponse struct {
	Rows []ReportRow `json:"rows"`
}

// CSVHeader заголовок CSV выгрузки, порядок совпадает с Record
func CSVHeader() []string {
	return []string{
		"id",
		"username",
		"space",
		"starts_at",
		"ends_at",
		"status",
		"purpose",
		"attendees",
		"resources",
		"decision_notes",
		"cancel_reason",
		"created_at",
	}
}

// Record возвращает строку в порядке CSVHeader
func (r ReportRow) Record() []string {
	return []string{
		fmt.Sprintf("%d", r.ID),
		r.Username,
		r.SpaceName,
		r.StartsAt,
		r.EndsAt,
		r.Status,
		r.Purpose,
		fmt.Sprintf("%d", r.AttendeesCount),
		r.Resources,
		r.DecisionNotes,
		r.CancelReason,
		r.CreatedAt,
	}
}

// StatusCountResponse количество резерваций в статусе
type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// MonthlyCountResponse количество резерваций за месяц
type MonthlyCountResponse struct {
	Month string `json:"month"` // "2026-09"
	Count int    `json:"count"`
}

// StatisticsResponse сводка для дашборда модератора
type StatisticsResponse struct {
	Total         int                    `json:"total"`
	ByStatus      []StatusCountResponse  `json:"byStatus"`
	ByMonth       []MonthlyCountResponse `json:"byMonth"`
	ApprovedToday int                    `json:"approvedToday"`
	RejectedToday int                    `json:"rejectedToday"`
}

// Методы конвертации

// FromDomainReservations конвертирует резервации в строки выгрузки
func FromDomainReservations(reservations []*domain.Reservation) *ReportResponse {
	resp := &ReportResponse{
		Rows: make([]ReportRow, 0, len(reservations)),
	}

	for _, r := range reservations {
		resp.Rows = append(resp.Rows, ReportRow{
			ID:             r.ID,
			Username:       r.Username,
			SpaceName:      r.SpaceName,
			StartsAt:       r.StartsAt.Format(time.RFC3339),
			EndsAt:         r.EndsAt.Format(time.RFC3339),
			Status:         string(r.Status),
			Purpose:        r.Purpose,
			AttendeesCount: r.AttendeesCount,
			Resources:      formatUsages(r.Usages),
			DecisionNotes:  derefString(r.DecisionNotes),
			CancelReason:   derefString(r.CancelReason),
			CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp
}

// FromDomainCounts конвертирует счётчики в DTO
func FromDomainCounts(byStatus []domain.StatusCount, byMonth []domain.MonthlyCount) ([]StatusCountResponse, []MonthlyCountResponse, int) {
	total := 0
	statuses := make([]StatusCountResponse, 0, len(byStatus))
	for _, sc := range byStatus {
		total += sc.Count
		statuses = append(statuses, StatusCountResponse{
			Status: string(sc.Status),
			Count:  sc.Count,
		})
	}

	months := make([]MonthlyCountResponse, 0, len(byMonth))
	for _, mc := range byMonth {
		months = append(months, MonthlyCountResponse{
			Month: mc.Month.Format("2006-01"),
			Count: mc.Count,
		})
	}

	return statuses, months, total
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatUsages(usages []domain.ReservationResource) string {
	if len(usages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(usages))
	for _, u := range usages {
		parts = append(parts, fmt.Sprintf("%s x%d", u.ResourceName, u.Quantity))
	}
	return strings.Join(parts, "; ")
}
