package create_reservation

import (
	"time"

	createReservation "github.com/m04kA/UCS-ReservationService/internal/usecase/create_reservation"
)

// ResourceRequest строка запрошенного ресурса
type ResourceRequest struct {
	ResourceID int64 `json:"resourceId"`
	Quantity   int   `json:"quantity"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	SpaceID        int64             `json:"spaceId"`
	StartsAt       string            `json:"startsAt"` // RFC 3339, например "2026-09-10T10:00:00Z"
	EndsAt         string            `json:"endsAt"`   // RFC 3339
	Purpose        string            `json:"purpose"`
	AttendeesCount int               `json:"attendeesCount"`
	Resources      []ResourceRequest `json:"resources,omitempty"`
}

// ResourceLineResponse строка зарезервированного ресурса
type ResourceLineResponse struct {
	ResourceID   int64  `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Quantity     int    `json:"quantity"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             int64                  `json:"id"`
	UserID         int64                  `json:"userId"`
	SpaceID        int64                  `json:"spaceId"`
	SpaceName      string                 `json:"spaceName"`
	StartsAt       string                 `json:"startsAt"`
	EndsAt         string                 `json:"endsAt"`
	Status         string                 `json:"status"`
	Purpose        string                 `json:"purpose"`
	AttendeesCount int                    `json:"attendeesCount"`
	Resources      []ResourceLineResponse `json:"resources"`
	CreatedAt      string                 `json:"createdAt"`
	UpdatedAt      string                 `json:"updatedAt"`
}

// InsufficientResourceResponse детали нехватки стока в теле 409
type InsufficientResourceResponse struct {
	Message      string `json:"message"`
	ResourceID   int64  `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Requested    int    `json:"requested"`
	Available    int    `json:"available"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	endsAt, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return nil, err
	}

	resources := make([]createReservation.ResourceRequest, 0, len(r.Resources))
	for _, res := range r.Resources {
		resources = append(resources, createReservation.ResourceRequest{
			ResourceID: res.ResourceID,
			Quantity:   res.Quantity,
		})
	}

	return &createReservation.Request{
		UserID:         userID,
		SpaceID:        r.SpaceID,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Purpose:        r.Purpose,
		AttendeesCount: r.AttendeesCount,
		Resources:      resources,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	resources := make([]ResourceLineResponse, 0, len(resp.Resources))
	for _, res := range resp.Resources {
		resources = append(resources, ResourceLineResponse{
			ResourceID:   res.ResourceID,
			ResourceName: res.ResourceName,
			Quantity:     res.Quantity,
		})
	}

	return &ReservationResponse{
		ID:             resp.ID,
		UserID:         resp.UserID,
		SpaceID:        resp.SpaceID,
		SpaceName:      resp.SpaceName,
		StartsAt:       resp.StartsAt.Format(time.RFC3339),
		EndsAt:         resp.EndsAt.Format(time.RFC3339),
		Status:         resp.Status,
		Purpose:        resp.Purpose,
		AttendeesCount: resp.AttendeesCount,
		Resources:      resources,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
