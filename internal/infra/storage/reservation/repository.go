package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/UCS-ReservationService/internal/domain"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/UCS-ReservationService/pkg/psqlbuilder"
)

// pgExclusionViolation код ошибки PostgreSQL при нарушении exclusion constraint
// (две одобренные резервации с пересекающимися интервалами на одном пространстве)
const pgExclusionViolation = "23P01"

var reservationColumns = []string{
	"r.id",
	"r.user_id",
	"r.space_id",
	"r.starts_at",
	"r.ends_at",
	"r.status",
	"r.purpose",
	"r.attendees_count",
	"r.cancel_reason",
	"r.cancelled_at",
	"r.created_at",
	"r.updated_at",
}

// Repository репозиторий для работы с резервациями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает резервацию вместе со строками использования ресурсов.
// Атомарность (все строки или ни одной) обеспечивает транзакция в контексте -
// вызывающий usecase оборачивает Create в TransactionManager.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"user_id",
			"space_id",
			"starts_at",
			"ends_at",
			"status",
			"purpose",
			"attendees_count",
		).
		Values(
			res.UserID,
			res.SpaceID,
			res.StartsAt,
			res.EndsAt,
			res.Status,
			res.Purpose,
			res.AttendeesCount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, wrapExecError(ErrExecQuery, "Create - execute insert", err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	for i := range res.Usages {
		usage := &res.Usages[i]
		usage.ReservationID = res.ID

		query, args, err := psqlbuilder.Insert("reservation_resources").
			Columns("reservation_id", "resource_id", "quantity").
			Values(usage.ReservationID, usage.ResourceID, usage.Quantity).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build usage insert: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&usage.ID); err != nil {
			return nil, wrapExecError(ErrExecQuery, "Create - insert usage row", err)
		}
	}

	return res, nil
}

// GetByID получает резервацию по ID вместе со строками использования ресурсов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, reservationColumns...), "s.name AS space_name", "u.username")
	query, args, err := psqlbuilder.Select(columns...).
		From("reservations r").
		Join("spaces s ON s.id = r.space_id").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var res domain.Reservation
	if err := scanReservation(executor.QueryRowContext(ctx, query, args...), &res, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, wrapExecError(ErrScanRow, "GetByID - scan reservation", err)
	}

	if err := r.loadUsages(ctx, executor, []*domain.Reservation{&res}); err != nil {
		return nil, err
	}

	return &res, nil
}

// ListOverlapping получает резервации, пересекающиеся с интервалом фильтра.
// Полуоткрытые интервалы: starts_at < конец AND ends_at > начало, граничные
// касания пересечением не считаются.
//
// Если вызов выполняется внутри транзакции, строки блокируются (FOR UPDATE) -
// это чтение предшествует записи в create/decide и должно быть согласовано
// с последующим коммитом.
func (r *Repository) ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations r").
		Where(squirrel.Lt{"r.starts_at": filter.Interval.End}).
		Where(squirrel.Gt{"r.ends_at": filter.Interval.Start}).
		OrderBy("r.starts_at ASC")

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": statuses})
	}

	if filter.SpaceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.space_id": *filter.SpaceID})
	}

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"r.id": *filter.ExcludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExecError(ErrExecQuery, "ListOverlapping - execute query", err)
	}
	defer rows.Close()

	reservations, err := scanReservations(rows, false)
	if err != nil {
		return nil, err
	}

	if filter.WithUsage {
		if err := r.loadUsages(ctx, executor, reservations); err != nil {
			return nil, err
		}
	}

	return reservations, nil
}

// ListByUser получает историю резерваций пользователя
// Опционально фильтрует по статусу
func (r *Repository) ListByUser(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, reservationColumns...), "s.name AS space_name", "u.username")
	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations r").
		Join("spaces s ON s.id = r.space_id").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.starts_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, true)
}

// ListPending получает очередь заявок, ожидающих решения
func (r *Repository) ListPending(ctx context.Context) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, reservationColumns...), "s.name AS space_name", "u.username")
	query, args, err := psqlbuilder.Select(columns...).
		From("reservations r").
		Join("spaces s ON s.id = r.space_id").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.status": domain.StatusPending}).
		OrderBy("r.starts_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows, true)
}

// ListForReport получает резервации для отчёта с гибкой фильтрацией
// по периоду, статусу и пространству; подгружает использование ресурсов
func (r *Repository) ListForReport(ctx context.Context, filter domain.ReportFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, reservationColumns...),
		"s.name AS space_name", "u.username", "a.notes AS decision_notes")
	selectBuilder := psqlbuilder.Select(columns...).
		From("reservations r").
		Join("spaces s ON s.id = r.space_id").
		Join("users u ON u.id = r.user_id").
		LeftJoin("approvals a ON a.reservation_id = r.id").
		OrderBy("r.starts_at ASC")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"r.starts_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"r.ends_at": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.SpaceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"r.space_id": *filter.SpaceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForReport - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForReport - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := scanReservation(rows, &res, true, &res.DecisionNotes); err != nil {
			return nil, fmt.Errorf("%w: ListForReport - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForReport - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadUsages(ctx, executor, reservations); err != nil {
		return nil, err
	}

	return reservations, nil
}

// UpdateStatus обновляет статус резервации.
// Перевод в approved может нарушить exclusion constraint БД - в этом случае
// возвращается ErrApprovedOverlap, и usecase трактует его как конфликт расписания.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrApprovedOverlap
		}
		return wrapExecError(ErrExecQuery, "UpdateStatus - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// Cancel отменяет резервацию с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancel_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// CountByStatus возвращает распределение резерваций по статусам
func (r *Repository) CountByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From("reservations").
		GroupBy("status").
		OrderBy("status ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]domain.StatusCount, 0)
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("%w: CountByStatus - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CountByMonth возвращает количество резерваций по месяцам начиная с since
func (r *Repository) CountByMonth(ctx context.Context, since time.Time) ([]domain.MonthlyCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date_trunc('month', starts_at) AS month", "COUNT(*)").
		From("reservations").
		Where(squirrel.GtOrEq{"starts_at": since}).
		GroupBy("month").
		OrderBy("month ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByMonth - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByMonth - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]domain.MonthlyCount, 0)
	for rows.Next() {
		var mc domain.MonthlyCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("%w: CountByMonth - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByMonth - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// loadUsages подгружает строки использования ресурсов для набора резерваций
func (r *Repository) loadUsages(ctx context.Context, executor DBExecutor, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	ids := make([]int64, len(reservations))
	byID := make(map[int64]*domain.Reservation, len(reservations))
	for i, res := range reservations {
		ids[i] = res.ID
		byID[res.ID] = res
		res.Usages = nil
	}

	query, args, err := psqlbuilder.Select(
		"rr.id",
		"rr.reservation_id",
		"rr.resource_id",
		"rr.quantity",
		"res.name AS resource_name",
	).
		From("reservation_resources rr").
		Join("resources res ON res.id = rr.resource_id").
		Where(squirrel.Eq{"rr.reservation_id": ids}).
		OrderBy("rr.id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadUsages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return wrapExecError(ErrExecQuery, "loadUsages - execute query", err)
	}
	defer rows.Close()

	for rows.Next() {
		var usage domain.ReservationResource
		if err := rows.Scan(&usage.ID, &usage.ReservationID, &usage.ResourceID, &usage.Quantity, &usage.ResourceName); err != nil {
			return fmt.Errorf("%w: loadUsages - scan row: %v", ErrScanRow, err)
		}
		if res, ok := byID[usage.ReservationID]; ok {
			res.Usages = append(res.Usages, usage)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadUsages - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует одну строку резервации
// withJoins указывает на наличие колонок space_name/username в выборке
func scanReservation(row rowScanner, res *domain.Reservation, withJoins bool, extra ...interface{}) error {
	var createdAt, updatedAt sql.NullTime

	dest := []interface{}{
		&res.ID,
		&res.UserID,
		&res.SpaceID,
		&res.StartsAt,
		&res.EndsAt,
		&res.Status,
		&res.Purpose,
		&res.AttendeesCount,
		&res.CancelReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	}
	if withJoins {
		dest = append(dest, &res.SpaceName, &res.Username)
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time
	return nil
}

// scanReservations сканирует результаты запроса в слайс резерваций
func scanReservations(rows *sql.Rows, withJoins bool) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		if err := scanReservation(rows, &res, withJoins); err != nil {
			return nil, wrapExecError(ErrScanRow, "scanReservations - scan row", err)
		}
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapExecError(ErrScanRow, "scanReservations - rows error", err)
	}

	return reservations, nil
}

// wrapExecError оборачивает ошибку выполнения запроса, не теряя конфликт
// сериализации: PostgreSQL выдаёт 40001 и на уровне отдельного запроса,
// и такая ошибка должна дойти до менеджера транзакций для повтора
func wrapExecError(base error, step string, err error) error {
	if dbmetrics.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %s: %v", dbmetrics.ErrSerializationFailure, step, err)
	}
	return fmt.Errorf("%w: %s: %v", base, step, err)
}

// isExclusionViolation проверяет нарушение exclusion constraint (код 23P01)
func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgExclusionViolation
	}
	return false
}
