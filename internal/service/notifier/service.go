package notifier

import (
	"context"
	"fmt"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
)

// Service сервис внутренних уведомлений.
// Доставка best-effort: сбой записи уведомления логируется,
// но никогда не роняет вызвавшую операцию.
type Service struct {
	notificationRepo NotificationRepository
	identityRepo     IdentityRepository
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	notificationRepo NotificationRepository,
	identityRepo IdentityRepository,
	logger Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		identityRepo:     identityRepo,
		logger:           logger,
	}
}

// NotifyUsers создает уведомление с одним текстом для каждого получателя.
// Возвращает количество успешно созданных уведомлений.
func (s *Service) NotifyUsers(ctx context.Context, userIDs []int64, message string) int {
	delivered := 0
	for _, userID := range userIDs {
		if _, err := s.notificationRepo.Create(ctx, userID, message); err != nil {
			s.logger.Error("NotifyUsers: failed to notify user=%d: %v", userID, err)
			continue
		}
		delivered++
	}
	return delivered
}

// NotifyRole рассылает уведомление всем пользователям с указанной ролью.
// Незаведённая роль означает пустую аудиторию, это не ошибка.
func (s *Service) NotifyRole(ctx context.Context, role string, message string) int {
	userIDs, err := s.identityRepo.UserIDsWithRole(ctx, role)
	if err != nil {
		s.logger.Error("NotifyRole: failed to resolve role=%q: %v", role, err)
		return 0
	}

	if len(userIDs) == 0 {
		s.logger.Warn("NotifyRole: role=%q has no members, nothing to send", role)
		return 0
	}

	return s.NotifyUsers(ctx, userIDs, message)
}

// ListForUser возвращает уведомления пользователя
func (s *Service) ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListForUser - repository error: %v", ErrInternal, err)
	}
	return notifications, nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	affected, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("MarkAllRead: repository error for user=%d: %v", userID, err)
		return 0, fmt.Errorf("%w: MarkAllRead - repository error: %v", ErrInternal, err)
	}
	return affected, nil
}

// CountUnread возвращает количество непрочитанных уведомлений пользователя
func (s *Service) CountUnread(ctx context.Context, userID int64) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("CountUnread: repository error for user=%d: %v", userID, err)
		return 0, fmt.Errorf("%w: CountUnread - repository error: %v", ErrInternal, err)
	}
	return count, nil
}
