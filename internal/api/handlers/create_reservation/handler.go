package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/UCS-ReservationService/internal/api/handlers"
	"github.com/m04kA/UCS-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/UCS-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSpaceNotFound        = "помещение не найдено"
	msgSpaceInactive        = "помещение выведено из оборота"
	msgResourceNotFound     = "ресурс не найден"
	msgResourceInactive     = "ресурс выведен из оборота"
	msgInsufficientResource = "недостаточно свободного ресурса на выбранное время"
	msgStartsInPast         = "резервация не может начинаться в прошлом"
	msgInvalidInterval      = "некорректный интервал: конец должен быть позже начала"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse timestamps: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var stockErr *createReservation.InsufficientResourceError

		switch {
		case errors.As(err, &stockErr):
			h.logger.Warn("POST /reservations - Insufficient resource: user_id=%d, resource_id=%d, requested=%d, available=%d",
				userID, stockErr.Detail.ResourceID, stockErr.Detail.Requested, stockErr.Detail.Available)
			handlers.RespondJSON(w, http.StatusConflict, InsufficientResourceResponse{
				Message:      msgInsufficientResource,
				ResourceID:   stockErr.Detail.ResourceID,
				ResourceName: stockErr.Detail.ResourceName,
				Requested:    stockErr.Detail.Requested,
				Available:    stockErr.Detail.Available,
			})

		case errors.Is(err, createReservation.ErrSpaceNotFound):
			h.logger.Warn("POST /reservations - Space not found: user_id=%d, space_id=%d", userID, req.SpaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, createReservation.ErrSpaceInactive):
			h.logger.Warn("POST /reservations - Space inactive: user_id=%d, space_id=%d", userID, req.SpaceID)
			handlers.RespondBadRequest(w, msgSpaceInactive)

		case errors.Is(err, createReservation.ErrResourceNotFound):
			h.logger.Warn("POST /reservations - Resource not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createReservation.ErrResourceInactive):
			h.logger.Warn("POST /reservations - Resource inactive: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgResourceInactive)

		case errors.Is(err, createReservation.ErrStartsInPast):
			h.logger.Warn("POST /reservations - Starts in past: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgStartsInPast)

		case errors.Is(err, createReservation.ErrInvalidInterval):
			h.logger.Warn("POST /reservations - Invalid interval: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, space_id=%d",
		result.ID, userID, req.SpaceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
