package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/api/handlers"
	"github.com/m04kA/UCS-ReservationService/internal/service/reservations"
)

const (
	msgMissingPeriod  = "отсутствуют параметры from и to"
	msgInvalidPeriod  = "некорректный формат периода, ожидается RFC 3339"
	msgInvertedPeriod = "некорректный период: to должен быть позже from"
	msgInvalidSpaceID = "некорректный ID помещения"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/events?from=...&to=...&spaceId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fromRaw, toRaw := query.Get("from"), query.Get("to")
	if fromRaw == "" || toRaw == "" {
		h.logger.Warn("GET /calendar/events - Missing period parameters")
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		h.logger.Warn("GET /calendar/events - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		h.logger.Warn("GET /calendar/events - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	var spaceID *int64
	if raw := query.Get("spaceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /calendar/events - Invalid space ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSpaceID)
			return
		}
		spaceID = &id
	}

	result, err := h.service.GetCalendarEvents(r.Context(), from, to, spaceID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidTimeRange):
			h.logger.Warn("GET /calendar/events - Inverted period: from=%s, to=%s", fromRaw, toRaw)
			handlers.RespondBadRequest(w, msgInvertedPeriod)

		default:
			h.logger.Error("GET /calendar/events - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar/events - Retrieved %d events", len(result.Events))
	handlers.RespondJSON(w, http.StatusOK, result)
}
