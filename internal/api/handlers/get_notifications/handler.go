package get_notifications

import (
	"net/http"
	"time"

	"github.com/m04kA/UCS-ReservationService/internal/api/handlers"
	"github.com/m04kA/UCS-ReservationService/internal/api/middleware"
	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

const msgMissingUserID = "отсутствует ID пользователя"

// NotificationResponse HTTP response model
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// NotificationListResponse список уведомлений со счётчиком непрочитанных
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

// MarkReadResponse результат пометки уведомлений прочитанными
type MarkReadResponse struct {
	MarkedRead int64 `json:"markedRead"`
}

type Handler struct {
	service NotificationService
	logger  Logger
}

func NewHandler(service NotificationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/notifications?unread=true
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /notifications - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.service.ListForUser(r.Context(), userID, unreadOnly)
	if err != nil {
		h.logger.Error("GET /notifications - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	unreadCount, err := h.service.CountUnread(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /notifications - Unread count failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /notifications - Retrieved %d notifications: user_id=%d", len(notifications), userID)
	handlers.RespondJSON(w, http.StatusOK, fromDomainList(notifications, unreadCount))
}

// HandleMarkRead POST /api/v1/notifications/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /notifications/read - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	marked, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.logger.Error("POST /notifications/read - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /notifications/read - Marked %d notifications read: user_id=%d", marked, userID)
	handlers.RespondJSON(w, http.StatusOK, MarkReadResponse{MarkedRead: marked})
}

func fromDomainList(notifications []domain.Notification, unreadCount int64) NotificationListResponse {
	resp := NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(notifications)),
		UnreadCount:   unreadCount,
	}

	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp
}
