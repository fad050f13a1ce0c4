package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marginalwallet/wallet-api/internal/domain"
)

// ActivityLogRepository implements domain.ActivityLogRepository using PostgreSQL.
// Activity logs carry no user id; ownership is checked through the parent movement.
type ActivityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(pool *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{pool: pool}
}

func scanActivityLog(row pgx.Row) (*domain.ActivityLog, error) {
	var a domain.ActivityLog
	if err := row.Scan(&a.ID, &a.MovementID, &a.Description); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts the activity log of a movement
func (r *ActivityLogRepository) Create(ctx context.Context, log *domain.ActivityLog) (*domain.ActivityLog, error) {
	row := querier(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO activity_logs (movement_id, description) VALUES ($1, $2) RETURNING id, movement_id, description`,
		log.MovementID, log.Description)
	created, err := scanActivityLog(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrActivityLogAlreadyExists
		}
		if isPgForeignKeyViolation(err) {
			return nil, domain.ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to create activity log: %w", err)
	}
	return created, nil
}

// GetByID retrieves an activity log whose movement is owned by userID
func (r *ActivityLogRepository) GetByID(ctx context.Context, userID, id int32) (*domain.ActivityLog, error) {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		SELECT a.id, a.movement_id, a.description
		FROM activity_logs a
		JOIN movements m ON m.id = a.movement_id
		WHERE a.id = $1 AND m.user_id = $2`, id, userID)
	log, err := scanActivityLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityLogNotFound
		}
		return nil, fmt.Errorf("failed to get activity log: %w", err)
	}
	return log, nil
}

// List retrieves a page of a user's activity logs ordered by id
func (r *ActivityLogRepository) List(ctx context.Context, userID int32, page domain.Page) ([]*domain.ActivityLog, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, `
		SELECT a.id, a.movement_id, a.description
		FROM activity_logs a
		JOIN movements m ON m.id = a.movement_id
		WHERE m.user_id = $1
		ORDER BY a.id
		OFFSET $2 LIMIT $3`,
		userID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.ActivityLog, 0)
	for rows.Next() {
		log, err := scanActivityLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Update changes the description of an activity log whose movement is owned by userID
func (r *ActivityLogRepository) Update(ctx context.Context, userID int32, log *domain.ActivityLog) (*domain.ActivityLog, error) {
	row := querier(ctx, r.pool).QueryRow(ctx, `
		UPDATE activity_logs a SET description = $3
		FROM movements m
		WHERE a.id = $1 AND m.id = a.movement_id AND m.user_id = $2
		RETURNING a.id, a.movement_id, a.description`,
		log.ID, userID, log.Description)
	updated, err := scanActivityLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityLogNotFound
		}
		return nil, fmt.Errorf("failed to update activity log: %w", err)
	}
	return updated, nil
}

// Delete removes an activity log whose movement is owned by userID
func (r *ActivityLogRepository) Delete(ctx context.Context, userID, id int32) error {
	tag, err := querier(ctx, r.pool).Exec(ctx, `
		DELETE FROM activity_logs a
		USING movements m
		WHERE a.id = $1 AND m.id = a.movement_id AND m.user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityLogNotFound
	}
	return nil
}
