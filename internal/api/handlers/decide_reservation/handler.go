package decide_reservation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/UCS-ReservationService/internal/api/handlers"
	"github.com/m04kA/UCS-ReservationService/internal/api/middleware"
	decideReservation "github.com/m04kA/UCS-ReservationService/internal/usecase/decide_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID резервации"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "резервация не найдена"
	msgForbidden            = "доступ запрещен"
	msgInvalidState         = "резервация уже не ожидает решения"
	msgUnknownDecision      = "нераспознанное решение, ожидается approve или reject"
	msgSchedulingConflict   = "интервал пересекается с подтвержденной резервацией"
	msgInsufficientResource = "недостаточно свободного ресурса на выбранное время"
)

// DecideReservationRequest HTTP request model
type DecideReservationRequest struct {
	Decision string `json:"decision"` // approve/approved/reject/rejected
	Notes    string `json:"notes,omitempty"`
}

// DecisionResponse HTTP response model
type DecisionResponse struct {
	ReservationID int64  `json:"reservationId"`
	Status        string `json:"status"`
	Decision      string `json:"decision"`
	ApproverID    int64  `json:"approverId"`
	Notes         string `json:"notes,omitempty"`
	DecidedAt     string `json:"decidedAt"`
}

type Handler struct {
	useCase DecideReservationUseCase
	logger  Logger
}

func NewHandler(useCase DecideReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/decision - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/decision - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req DecideReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &decideReservation.Request{
		ReservationID: reservationID,
		ApproverID:    userID,
		Decision:      req.Decision,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, decideReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/decision - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, decideReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/decision - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, decideReservation.ErrInvalidState):
			h.logger.Warn("POST /reservations/{id}/decision - Invalid state: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidState)

		case errors.Is(err, decideReservation.ErrUnknownDecision):
			h.logger.Warn("POST /reservations/{id}/decision - Unknown decision %q: reservation_id=%d",
				req.Decision, reservationID)
			handlers.RespondBadRequest(w, msgUnknownDecision)

		case errors.Is(err, decideReservation.ErrSchedulingConflict):
			h.logger.Warn("POST /reservations/{id}/decision - Scheduling conflict: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgSchedulingConflict)

		case errors.Is(err, decideReservation.ErrInsufficientResource):
			h.logger.Warn("POST /reservations/{id}/decision - Insufficient resource: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgInsufficientResource)

		case errors.Is(err, decideReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/decision - Invalid input: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /reservations/{id}/decision - Failed: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/decision - Decision recorded: reservation_id=%d, decision=%s, approver_id=%d",
		reservationID, result.Decision, userID)
	handlers.RespondJSON(w, http.StatusOK, DecisionResponse{
		ReservationID: result.ReservationID,
		Status:        result.Status,
		Decision:      result.Decision,
		ApproverID:    result.ApproverID,
		Notes:         result.Notes,
		DecidedAt:     result.DecidedAt.Format(time.RFC3339),
	})
}
