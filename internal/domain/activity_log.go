package domain

import "context"

// ActivityLog is a free-text note attached to exactly one movement
type ActivityLog struct {
	ID          int32  `json:"id"`
	MovementID  int32  `json:"movement_id"`
	Description string `json:"description"`
}

// ActivityLogRepository defines the interface for activity log persistence operations.
// Ownership is resolved through the parent movement's user.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *ActivityLog) (*ActivityLog, error)
	GetByID(ctx context.Context, userID, id int32) (*ActivityLog, error)
	List(ctx context.Context, userID int32, page Page) ([]*ActivityLog, error)
	Update(ctx context.Context, userID int32, log *ActivityLog) (*ActivityLog, error)
	Delete(ctx context.Context, userID, id int32) error
}
