package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marginalwallet/wallet-api/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, category_type, counterparty`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var categoryType string
	if err := row.Scan(&c.ID, &c.UserID, &categoryType, &c.Counterparty); err != nil {
		return nil, err
	}
	c.Type = domain.CategoryType(categoryType)
	return &c, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := querier(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO categories (user_id, category_type, counterparty) VALUES ($1, $2, $3) RETURNING `+categoryColumns,
		category.UserID, string(category.Type), category.Counterparty)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

// GetByID retrieves a category owned by userID
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id int32) (*domain.Category, error) {
	row := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// List retrieves a page of a user's categories ordered by id
func (r *CategoryRepository) List(ctx context.Context, userID int32, filter domain.CategoryFilter) ([]*domain.Category, error) {
	var categoryType *string
	if filter.Type != nil {
		t := string(*filter.Type)
		categoryType = &t
	}

	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1 AND ($2::text IS NULL OR category_type = $2)
		ORDER BY id
		OFFSET $3 LIMIT $4`,
		userID, categoryType, filter.Page.Skip, filter.Page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Count returns how many categories a user owns
func (r *CategoryRepository) Count(ctx context.Context, userID int32) (int64, error) {
	var count int64
	err := querier(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// Update overwrites type and counterparty of a category owned by category.UserID
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE categories SET category_type = $3, counterparty = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+categoryColumns,
		category.ID, category.UserID, string(category.Type), category.Counterparty)
	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return updated, nil
}

// Delete removes a category owned by userID
func (r *CategoryRepository) Delete(ctx context.Context, userID, id int32) error {
	tag, err := querier(ctx, r.pool).Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return domain.ErrCategoryHasMovements
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
