package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/UCS-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий учётных записей и ролей.
// Пользователи и роли заводятся вне сервиса, здесь только чтение.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория учётных записей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пользователя по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "username", "email").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var user domain.User
	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: GetByID - user %d", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("%w: GetByID - execute select: %v", ErrExecQuery, err)
	}

	return &user, nil
}

// UserIDsWithRole возвращает ID всех пользователей с указанной ролью.
// Несуществующая роль даёт пустой список, не ошибку.
func (r *Repository) UserIDsWithRole(ctx context.Context, role string) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("ur.user_id").
		From("user_roles ur").
		Join("roles ro ON ro.id = ur.role_id").
		Where(squirrel.Eq{"ro.name": role}).
		OrderBy("ur.user_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UserIDsWithRole - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UserIDsWithRole - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: UserIDsWithRole - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: UserIDsWithRole - iterate rows: %v", ErrExecQuery, err)
	}

	return ids, nil
}

// HasRole проверяет, назначена ли пользователю роль
func (r *Repository) HasRole(ctx context.Context, userID int64, role string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("user_roles ur").
		Join("roles ro ON ro.id = ur.role_id").
		Where(squirrel.Eq{"ur.user_id": userID, "ro.name": role}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasRole - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasRole - execute select: %v", ErrExecQuery, err)
	}

	return count > 0, nil
}
