package get_resource_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/UCS-ReservationService/internal/api/handlers"
	getResourceAvailability "github.com/m04kA/UCS-ReservationService/internal/usecase/get_resource_availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgMissingPeriod     = "отсутствуют параметры starts и ends"
	msgInvalidPeriod     = "некорректный формат времени, ожидается RFC 3339"
	msgInvalidInterval   = "некорректный интервал: конец должен быть позже начала"
	msgInvalidExcludeID  = "некорректный ID исключаемой резервации"
	msgResourceNotFound  = "ресурс не найден"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID   int64  `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Total        int    `json:"total"`
	Available    int    `json:"available"`
}

// BulkAvailabilityResponse HTTP response model для всех ресурсов
type BulkAvailabilityResponse struct {
	Resources []AvailabilityResponse `json:"resources"`
}

type Handler struct {
	useCase GetResourceAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetResourceAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability?starts=...&ends=...&excludeReservationId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	starts, ends, excludeID, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getResourceAvailability.Request{
		ResourceID:           resourceID,
		StartsAt:             starts,
		EndsAt:               ends,
		ExcludeReservationID: excludeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getResourceAvailability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getResourceAvailability.ErrInvalidInterval):
			h.logger.Warn("GET /resources/{id}/availability - Invalid interval: resource_id=%d", resourceID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, getResourceAvailability.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/availability - Invalid input: error=%v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/availability - resource_id=%d available=%d of %d",
		resourceID, result.Available, result.Total)
	handlers.RespondJSON(w, http.StatusOK, AvailabilityResponse{
		ResourceID:   result.ResourceID,
		ResourceName: result.ResourceName,
		Total:        result.Total,
		Available:    result.Available,
	})
}

// HandleBulk GET /api/v1/resources/availability?starts=...&ends=...
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	starts, ends, excludeID, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.useCase.ExecuteBulk(r.Context(), &getResourceAvailability.BulkRequest{
		StartsAt:             starts,
		EndsAt:               ends,
		ExcludeReservationID: excludeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getResourceAvailability.ErrInvalidInterval):
			h.logger.Warn("GET /resources/availability - Invalid interval")
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("GET /resources/availability - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := BulkAvailabilityResponse{Resources: make([]AvailabilityResponse, 0, len(result.Resources))}
	for _, res := range result.Resources {
		resp.Resources = append(resp.Resources, AvailabilityResponse{
			ResourceID:   res.ResourceID,
			ResourceName: res.ResourceName,
			Total:        res.Total,
			Available:    res.Available,
		})
	}

	h.logger.Info("GET /resources/availability - Computed availability for %d resources", len(resp.Resources))
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) parsePeriod(w http.ResponseWriter, r *http.Request) (starts, ends time.Time, excludeID *int64, ok bool) {
	query := r.URL.Query()

	startsRaw, endsRaw := query.Get("starts"), query.Get("ends")
	if startsRaw == "" || endsRaw == "" {
		h.logger.Warn("GET availability - Missing period parameters")
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	var err error
	starts, err = time.Parse(time.RFC3339, startsRaw)
	if err != nil {
		h.logger.Warn("GET availability - Invalid starts: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	ends, err = time.Parse(time.RFC3339, endsRaw)
	if err != nil {
		h.logger.Warn("GET availability - Invalid ends: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	if raw := query.Get("excludeReservationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET availability - Invalid exclude ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidExcludeID)
			return
		}
		excludeID = &id
	}

	ok = true
	return
}
