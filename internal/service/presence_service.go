package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rcorp/claims-service/internal/config"
)

const presenceKeyPrefix = "presence:"

// PresenceService tracks which actors are currently online via
// heartbeat keys with a TTL. Polling semantics only; an actor drops off
// the list once its key expires.
type PresenceService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceService builds the tracker.
func NewPresenceService(client *redis.Client, cfg config.PresenceConfig) *PresenceService {
	return &PresenceService{client: client, ttl: cfg.TTL()}
}

// Heartbeat refreshes the actor's presence key.
func (s *PresenceService) Heartbeat(ctx context.Context, actorID string) error {
	return s.client.Set(ctx, presenceKeyPrefix+actorID, time.Now().UTC().Format(time.RFC3339), s.ttl).Err()
}

// Online lists actor ids with a live heartbeat.
func (s *PresenceService) Online(ctx context.Context) ([]string, error) {
	var (
		actors []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, presenceKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			actors = append(actors, key[len(presenceKeyPrefix):])
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return actors, nil
}
