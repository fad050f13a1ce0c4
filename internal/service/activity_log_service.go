package service

import (
	"context"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
)

// ActivityLogService handles activity log business logic.
// Logs are created through MovementService.AddActivityLog.
type ActivityLogService struct {
	eventSink
	activityLogRepo domain.ActivityLogRepository
	guard           *OwnershipGuard
}

// NewActivityLogService creates a new ActivityLogService
func NewActivityLogService(activityLogRepo domain.ActivityLogRepository, guard *OwnershipGuard) *ActivityLogService {
	return &ActivityLogService{
		activityLogRepo: activityLogRepo,
		guard:           guard,
	}
}

// GetActivityLogs lists a page of logs attached to the user's movements, ordered by id
func (s *ActivityLogService) GetActivityLogs(ctx context.Context, userID int32, page domain.Page) ([]*domain.ActivityLog, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.activityLogRepo.List(ctx, userID, page)
}

// GetActivityLog retrieves one log attached to a movement of the user
func (s *ActivityLogService) GetActivityLog(ctx context.Context, userID, id int32) (*domain.ActivityLog, error) {
	return s.guard.ActivityLog(ctx, userID, id)
}

// UpdateActivityLog replaces the log description when one is given
func (s *ActivityLogService) UpdateActivityLog(ctx context.Context, userID, id int32, description *string) (*domain.ActivityLog, error) {
	activityLog, err := s.guard.ActivityLog(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if description == nil {
		return activityLog, nil
	}

	normalized, err := normalizeDescription(*description)
	if err != nil {
		return nil, err
	}
	activityLog.Description = normalized

	updated, err := s.activityLogRepo.Update(ctx, userID, activityLog)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeActivityLog, updated))
	return updated, nil
}

// DeleteActivityLog removes one log attached to a movement of the user
func (s *ActivityLogService) DeleteActivityLog(ctx context.Context, userID, id int32) error {
	if _, err := s.guard.ActivityLog(ctx, userID, id); err != nil {
		return err
	}
	if err := s.activityLogRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeActivityLog, websocket.Deleted(id)))
	return nil
}
