package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marginalwallet/wallet-api/internal/domain"
)

// MovementRepository implements domain.MovementRepository using PostgreSQL
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

const movementColumns = `m.id, m.user_id, m.category_id, m.movement_date, m.value, m.currency, m.payment_method, m.receipt_key`

func scanMovement(row pgx.Row, extra ...any) (*domain.Movement, error) {
	var m domain.Movement
	var date pgtype.Date
	var value pgtype.Numeric
	var currency, paymentMethod string

	dest := append([]any{&m.ID, &m.UserID, &m.CategoryID, &date, &value, &currency, &paymentMethod, &m.ReceiptKey}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	m.MovementDate = pgDateToTime(date)
	m.Value = pgNumericToDecimal(value)
	m.Currency = domain.Currency(currency)
	m.PaymentMethod = domain.PaymentMethod(paymentMethod)
	return &m, nil
}

// movementWhere builds the WHERE clause of a filtered movement query. $1 is always the user id.
func movementWhere(userID int32, filter domain.MovementFilter) (string, []any) {
	conds := []string{"m.user_id = $1"}
	args := []any{userID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.From != nil {
		add("m.movement_date >= $%d", timeToPgDate(*filter.From))
	}
	if filter.To != nil {
		add("m.movement_date < $%d", timeToPgDate(*filter.To))
	}
	if filter.CategoryID != nil {
		add("m.category_id = $%d", *filter.CategoryID)
	}
	if filter.CategoryType != nil {
		add("c.category_type = $%d", string(*filter.CategoryType))
	}

	return strings.Join(conds, " AND "), args
}

// Create inserts a new movement
func (r *MovementRepository) Create(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	value, err := decimalToPgNumeric(movement.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := querier(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO movements AS m (user_id, category_id, movement_date, value, currency, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+movementColumns,
		movement.UserID, movement.CategoryID, timeToPgDate(movement.MovementDate), value,
		string(movement.Currency), string(movement.PaymentMethod))
	created, err := scanMovement(row)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}
	return created, nil
}

// GetByID retrieves a movement owned by userID
func (r *MovementRepository) GetByID(ctx context.Context, userID, id int32) (*domain.Movement, error) {
	row := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+movementColumns+` FROM movements m WHERE m.id = $1 AND m.user_id = $2`, id, userID)
	movement, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	return movement, nil
}

// List retrieves a user's movements matching filter, ordered by date then id
func (r *MovementRepository) List(ctx context.Context, userID int32, filter domain.MovementFilter) ([]*domain.Movement, error) {
	where, args := movementWhere(userID, filter)

	direction := "DESC"
	if filter.Sort == domain.SortAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM movements m
		JOIN categories c ON c.id = m.category_id
		WHERE %s
		ORDER BY m.movement_date %s, m.id %s`, movementColumns, where, direction, direction)

	if filter.Page != nil {
		args = append(args, filter.Page.Skip, filter.Page.Limit)
		query += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)-1, len(args))
	}

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	movements := make([]*domain.Movement, 0)
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, movement)
	}
	return movements, rows.Err()
}

// ListDetailed retrieves movements dated on or after since with their category and activity log, oldest first
func (r *MovementRepository) ListDetailed(ctx context.Context, userID int32, since time.Time) ([]*domain.MovementDetail, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT `+movementColumns+`, c.category_type, c.counterparty, a.description
		FROM movements m
		JOIN categories c ON c.id = m.category_id
		LEFT JOIN activity_logs a ON a.movement_id = m.id
		WHERE m.user_id = $1 AND m.movement_date >= $2
		ORDER BY m.movement_date, m.id`,
		userID, timeToPgDate(since))
	if err != nil {
		return nil, fmt.Errorf("failed to list movement details: %w", err)
	}
	defer rows.Close()

	details := make([]*domain.MovementDetail, 0)
	for rows.Next() {
		var categoryType string
		d := &domain.MovementDetail{}
		movement, err := scanMovement(rows, &categoryType, &d.Counterparty, &d.ActivityLog)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement detail: %w", err)
		}
		d.Movement = *movement
		d.CategoryType = domain.CategoryType(categoryType)
		details = append(details, d)
	}
	return details, rows.Err()
}

// Totals sums and counts the movements matching filter. Sort and Page are ignored.
func (r *MovementRepository) Totals(ctx context.Context, userID int32, filter domain.MovementFilter) (*domain.MovementTotals, error) {
	where, args := movementWhere(userID, filter)

	var sum pgtype.Numeric
	var count int64
	err := querier(ctx, r.pool).QueryRow(ctx, fmt.Sprintf(`
		SELECT COALESCE(SUM(m.value), 0), COUNT(*)
		FROM movements m
		JOIN categories c ON c.id = m.category_id
		WHERE %s`, where), args...).Scan(&sum, &count)
	if err != nil {
		return nil, fmt.Errorf("failed to total movements: %w", err)
	}

	return &domain.MovementTotals{Balance: pgNumericToDecimal(sum), Count: count}, nil
}

// CountByCategory returns how many of a user's movements reference a category
func (r *MovementRepository) CountByCategory(ctx context.Context, userID, categoryID int32) (int64, error) {
	var count int64
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM movements WHERE user_id = $1 AND category_id = $2`, userID, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count movements: %w", err)
	}
	return count, nil
}

// Update overwrites the mutable fields of a movement owned by movement.UserID
func (r *MovementRepository) Update(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	value, err := decimalToPgNumeric(movement.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE movements AS m
		SET category_id = $3, movement_date = $4, value = $5, currency = $6, payment_method = $7
		WHERE m.id = $1 AND m.user_id = $2
		RETURNING `+movementColumns,
		movement.ID, movement.UserID, movement.CategoryID, timeToPgDate(movement.MovementDate), value,
		string(movement.Currency), string(movement.PaymentMethod))
	updated, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update movement: %w", err)
	}
	return updated, nil
}

// SetReceiptKey stores or clears the receipt object prefix of a movement
func (r *MovementRepository) SetReceiptKey(ctx context.Context, userID, id int32, key *string) error {
	tag, err := querier(ctx, r.pool).Exec(ctx,
		`UPDATE movements SET receipt_key = $3 WHERE id = $1 AND user_id = $2`, id, userID, key)
	if err != nil {
		return fmt.Errorf("failed to set receipt key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// Delete removes a movement owned by userID; its activity log cascades
func (r *MovementRepository) Delete(ctx context.Context, userID, id int32) error {
	tag, err := querier(ctx, r.pool).Exec(ctx,
		`DELETE FROM movements WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}
