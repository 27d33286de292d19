package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/domain"
)

const snapshotKey = "roster:snapshot"

// RosterSnapshot is a cached copy of the full roster, used as a read
// fallback when the primary store is unreachable.
type RosterSnapshot struct {
	SavedAt time.Time            `json:"saved_at"`
	Staff   []domain.StaffMember `json:"staff"`
}

// SnapshotStore persists roster snapshots in Redis.
type SnapshotStore struct {
	redis  *Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotStore constructs the store.
func NewSnapshotStore(r *Redis, ttl time.Duration, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{redis: r, ttl: ttl, logger: logger}
}

// Save serializes the roster and writes it under the snapshot key.
func (s *SnapshotStore) Save(ctx context.Context, staff []domain.StaffMember) error {
	if s.redis == nil || s.redis.Client == nil {
		return errors.New("redis client not configured")
	}
	snap := RosterSnapshot{SavedAt: time.Now().UTC(), Staff: staff}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.redis.Client.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
		return err
	}
	s.logger.Debug("roster snapshot saved", zap.Int("staff_count", len(staff)))
	return nil
}

// Load reads the latest roster snapshot, if one exists.
func (s *SnapshotStore) Load(ctx context.Context) (*RosterSnapshot, error) {
	if s.redis == nil || s.redis.Client == nil {
		return nil, errors.New("redis client not configured")
	}
	payload, err := s.redis.Client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return nil, err
	}
	var snap RosterSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
