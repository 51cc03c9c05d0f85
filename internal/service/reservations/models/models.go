package models

import (
	"errors"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Response модели

// ResourceUsageResponse строка заявки на ресурс внутри резервации
type ResourceUsageResponse struct {
	ResourceID   int64  `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Quantity     int    `json:"quantity"`
}

// ApprovalResponse данные решения по резервации
type ApprovalResponse struct {
	ApproverID int64  `json:"approverId"`
	Decision   string `json:"decision"`
	Notes      string `json:"notes,omitempty"`
	DecidedAt  string `json:"decidedAt"` // ISO 8601 format
}

// ReservationResponse ответ с данными резервации
type ReservationResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"userId"`
	SpaceID        int64  `json:"spaceId"`
	StartsAt       string `json:"startsAt"` // ISO 8601 format
	EndsAt         string `json:"endsAt"`   // ISO 8601 format
	Status         string `json:"status"`
	Purpose        string `json:"purpose"`
	AttendeesCount int    `json:"attendeesCount"`

	// Денормализованные данные
	SpaceName string `json:"spaceName"`
	Username  string `json:"username"`

	Resources []ResourceUsageResponse `json:"resources"`
	Approval  *ApprovalResponse       `json:"approval,omitempty"`

	CancelReason *string `json:"cancelReason,omitempty"`
	CancelledAt  *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком резерваций
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// CalendarEvent событие занятости помещения для календарной сетки
type CalendarEvent struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"` // ISO 8601 format
	End       string `json:"end"`   // ISO 8601 format
	SpaceID   int64  `json:"spaceId"`
	SpaceName string `json:"spaceName"`
	Status    string `json:"status"`
	Color     string `json:"color"`
}

// CalendarResponse ответ со списком событий календаря
type CalendarResponse struct {
	Events []CalendarEvent `json:"events"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		SpaceID:        r.SpaceID,
		StartsAt:       r.StartsAt.Format(time.RFC3339),
		EndsAt:         r.EndsAt.Format(time.RFC3339),
		Status:         string(r.Status),
		Purpose:        r.Purpose,
		AttendeesCount: r.AttendeesCount,
		SpaceName:      r.SpaceName,
		Username:       r.Username,
		Resources:      make([]ResourceUsageResponse, 0, len(r.Usages)),
		CancelReason:   r.CancelReason,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}

	for _, usage := range r.Usages {
		resp.Resources = append(resp.Resources, ResourceUsageResponse{
			ResourceID:   usage.ResourceID,
			ResourceName: usage.ResourceName,
			Quantity:     usage.Quantity,
		})
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainApproval конвертирует решение в DTO
func FromDomainApproval(a *domain.Approval) *ApprovalResponse {
	if a == nil {
		return nil
	}

	return &ApprovalResponse{
		ApproverID: a.ApproverID,
		Decision:   string(a.Decision),
		Notes:      a.Notes,
		DecidedAt:  a.DecidedAt.Format(time.RFC3339),
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, reservation := range reservations {
		if reservationResp := FromDomainReservation(reservation); reservationResp != nil {
			resp.Reservations[i] = *reservationResp
		}
	}

	return resp
}

// FromDomainCalendar конвертирует список резерваций в события календаря.
// Заголовок события содержит цель и автора, как в пользовательской сетке занятости.
func FromDomainCalendar(reservations []*domain.Reservation) *CalendarResponse {
	resp := &CalendarResponse{
		Events: make([]CalendarEvent, 0, len(reservations)),
	}

	for _, r := range reservations {
		title := r.Purpose
		if r.Username != "" {
			title = r.Purpose + " (" + r.Username + ")"
		}
		resp.Events = append(resp.Events, CalendarEvent{
			ID:        r.ID,
			Title:     title,
			Start:     r.StartsAt.Format(time.RFC3339),
			End:       r.EndsAt.Format(time.RFC3339),
			SpaceID:   r.SpaceID,
			SpaceName: r.SpaceName,
			Status:    string(r.Status),
			Color:     statusColor(r.Status),
		})
	}

	return resp
}

// statusColor цвет события календаря по статусу резервации
func statusColor(status domain.ReservationStatus) string {
	switch status {
	case domain.StatusApproved:
		return "#2e7d32"
	case domain.StatusPending:
		return "#f9a825"
	default:
		return "#9e9e9e"
	}
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)

	validStatuses := []domain.ReservationStatus{
		domain.StatusPending,
		domain.StatusApproved,
		domain.StatusRejected,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
