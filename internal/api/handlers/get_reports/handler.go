package get_reports

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/api/handlers"
	"github.com/m04kA/UCS-ReservationService/internal/api/middleware"
	"github.com/m04kA/UCS-ReservationService/internal/service/reports"
	"github.com/m04kA/UCS-ReservationService/internal/service/reports/models"
)

const (
	msgMissingUserID  = "отсутствует ID пользователя"
	msgForbidden      = "доступ запрещен"
	msgInvalidStatus  = "некорректный статус резервации"
	msgInvalidPeriod  = "некорректный период отчёта"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSpaceID = "некорректный ID помещения"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service ReportService
	logger  Logger
}

func NewHandler(service ReportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleExport GET /api/v1/reports/reservations?startDate=...&endDate=...&status=...&spaceId=...&format=csv
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /reports/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req, ok := h.parseExportRequest(w, r, userID)
	if !ok {
		return
	}

	result, err := h.service.Export(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrAccessDenied):
			h.logger.Warn("GET /reports/reservations - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reports.ErrInvalidStatus):
			h.logger.Warn("GET /reports/reservations - Invalid status filter: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, reports.ErrInvalidPeriod):
			h.logger.Warn("GET /reports/reservations - Invalid period: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /reports/reservations - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		h.respondCSV(w, result)
		h.logger.Info("GET /reports/reservations - CSV report with %d rows: user_id=%d", len(result.Rows), userID)
		return
	}

	h.logger.Info("GET /reports/reservations - Report with %d rows: user_id=%d", len(result.Rows), userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleStatistics GET /api/v1/reports/statistics
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /reports/statistics - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Statistics(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrAccessDenied):
			h.logger.Warn("GET /reports/statistics - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /reports/statistics - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reports/statistics - Dashboard retrieved: user_id=%d, total=%d", userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parseExportRequest(w http.ResponseWriter, r *http.Request, userID int64) (*models.ReportRequest, bool) {
	query := r.URL.Query()
	req := &models.ReportRequest{UserID: userID}

	if raw := query.Get("startDate"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.logger.Warn("GET /reports/reservations - Invalid startDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return nil, false
		}
		req.StartDate = &parsed
	}

	if raw := query.Get("endDate"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.logger.Warn("GET /reports/reservations - Invalid endDate: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return nil, false
		}
		// Конец периода включительно: берем начало следующего дня
		end := parsed.AddDate(0, 0, 1)
		req.EndDate = &end
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("spaceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /reports/reservations - Invalid space ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSpaceID)
			return nil, false
		}
		req.SpaceID = &id
	}

	return req, true
}

func (h *Handler) respondCSV(w http.ResponseWriter, result *models.ReportResponse) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reservations.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write(models.CSVHeader())
	for _, row := range result.Rows {
		_ = writer.Write(row.Record())
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		h.logger.Error("GET /reports/reservations - CSV write failed: %v", err)
	}
}
