package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/UCS-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий записей решений по резервациям (1:1)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория решений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или заменяет запись решения для резервации.
// История решений не хранится: уникальный индекс по reservation_id,
// повторная запись перезаписывает предыдущую. Жизненный цикл допускает
// только одно решение, так что перезапись на практике не происходит.
func (r *Repository) Upsert(ctx context.Context, a *domain.Approval) (*domain.Approval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("approvals").
		Columns("reservation_id", "approver_id", "decision", "notes").
		Values(a.ReservationID, a.ApproverID, a.Decision, a.Notes).
		Suffix(`ON CONFLICT (reservation_id) DO UPDATE
			SET approver_id = EXCLUDED.approver_id,
			    decision = EXCLUDED.decision,
			    notes = EXCLUDED.notes,
			    decided_at = NOW()
			RETURNING id, decided_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var decidedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &decidedAt); err != nil {
		// Конфликт сериализации должен дойти до менеджера транзакций
		if dbmetrics.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Upsert - execute insert: %v", dbmetrics.ErrSerializationFailure, err)
		}
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	a.DecidedAt = decidedAt.Time
	return a, nil
}

// GetByReservationID получает решение по ID резервации
func (r *Repository) GetByReservationID(ctx context.Context, reservationID int64) (*domain.Approval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"reservation_id",
		"approver_id",
		"decision",
		"notes",
		"decided_at",
	).
		From("approvals").
		Where(squirrel.Eq{"reservation_id": reservationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - build select query: %v", ErrBuildQuery, err)
	}

	var a domain.Approval
	var decidedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.ReservationID,
		&a.ApproverID,
		&a.Decision,
		&a.Notes,
		&decidedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrApprovalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByReservationID - scan approval: %v", ErrScanRow, err)
	}

	a.DecidedAt = decidedAt.Time
	return &a, nil
}

// CountDecidedSince возвращает количество решений заданного типа,
// принятых начиная с since (для дневной статистики дашборда)
func (r *Repository) CountDecidedSince(ctx context.Context, since time.Time, decision domain.Decision) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("approvals").
		Where(squirrel.Eq{"decision": decision}).
		Where(squirrel.GtOrEq{"decided_at": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountDecidedSince - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountDecidedSince - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
