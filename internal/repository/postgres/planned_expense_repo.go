package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marginalwallet/wallet-api/internal/domain"
)

// PlannedExpenseRepository implements domain.PlannedExpenseRepository using PostgreSQL
type PlannedExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewPlannedExpenseRepository creates a new PlannedExpenseRepository
func NewPlannedExpenseRepository(pool *pgxpool.Pool) *PlannedExpenseRepository {
	return &PlannedExpenseRepository{pool: pool}
}

const plannedExpenseColumns = `id, user_id, aprox_date, value, currency, frequency, description`

func scanPlannedExpense(row pgx.Row) (*domain.PlannedExpense, error) {
	var e domain.PlannedExpense
	var date pgtype.Date
	var value pgtype.Numeric
	var currency, frequency string
	if err := row.Scan(&e.ID, &e.UserID, &date, &value, &currency, &frequency, &e.Description); err != nil {
		return nil, err
	}
	e.AproxDate = pgDateToTime(date)
	e.Value = pgNumericToDecimal(value)
	e.Currency = domain.Currency(currency)
	e.Frequency = domain.Frequency(frequency)
	return &e, nil
}

// Create inserts a new planned expense
func (r *PlannedExpenseRepository) Create(ctx context.Context, expense *domain.PlannedExpense) (*domain.PlannedExpense, error) {
	value, err := decimalToPgNumeric(expense.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := querier(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO planned_expenses (user_id, aprox_date, value, currency, frequency, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+plannedExpenseColumns,
		expense.UserID, timeToPgDate(expense.AproxDate), value,
		string(expense.Currency), string(expense.Frequency), expense.Description)
	created, err := scanPlannedExpense(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create planned expense: %w", err)
	}
	return created, nil
}

// GetByID retrieves a planned expense owned by userID
func (r *PlannedExpenseRepository) GetByID(ctx context.Context, userID, id int32) (*domain.PlannedExpense, error) {
	row := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+plannedExpenseColumns+` FROM planned_expenses WHERE id = $1 AND user_id = $2`, id, userID)
	expense, err := scanPlannedExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlannedExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get planned expense: %w", err)
	}
	return expense, nil
}

// List retrieves a page of a user's planned expenses ordered by date
func (r *PlannedExpenseRepository) List(ctx context.Context, userID int32, page domain.Page) ([]*domain.PlannedExpense, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT `+plannedExpenseColumns+`
		FROM planned_expenses
		WHERE user_id = $1
		ORDER BY aprox_date, id
		OFFSET $2 LIMIT $3`,
		userID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.PlannedExpense, 0)
	for rows.Next() {
		expense, err := scanPlannedExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planned expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update overwrites a planned expense owned by expense.UserID
func (r *PlannedExpenseRepository) Update(ctx context.Context, expense *domain.PlannedExpense) (*domain.PlannedExpense, error) {
	value, err := decimalToPgNumeric(expense.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	row := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE planned_expenses
		SET aprox_date = $3, value = $4, currency = $5, frequency = $6, description = $7
		WHERE id = $1 AND user_id = $2
		RETURNING `+plannedExpenseColumns,
		expense.ID, expense.UserID, timeToPgDate(expense.AproxDate), value,
		string(expense.Currency), string(expense.Frequency), expense.Description)
	updated, err := scanPlannedExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlannedExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update planned expense: %w", err)
	}
	return updated, nil
}

// Delete removes a planned expense owned by userID
func (r *PlannedExpenseRepository) Delete(ctx context.Context, userID, id int32) error {
	tag, err := querier(ctx, r.pool).Exec(ctx,
		`DELETE FROM planned_expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete planned expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlannedExpenseNotFound
	}
	return nil
}
