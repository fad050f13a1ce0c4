package service

import (
	"context"

	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
)

// eventSink publishes live events once the surrounding transaction commits
type eventSink struct {
	eventPublisher websocket.EventPublisher
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *eventSink) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *eventSink) publishEvent(ctx context.Context, userID int32, event websocket.Event) {
	if s.eventPublisher == nil {
		return
	}
	domain.AfterCommit(ctx, func() {
		s.eventPublisher.Publish(userID, event)
	})
}
