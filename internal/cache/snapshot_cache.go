package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizclash/api/internal/model"
)

// SnapshotCache keeps the latest broadcast snapshot per session so re-sync
// reads after a reconnect do not touch the live session.
type SnapshotCache interface {
	Set(ctx context.Context, snap *model.Snapshot) error
	Get(ctx context.Context, code string) (*model.Snapshot, error)
	Delete(ctx context.Context, code string) error
}

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client) SnapshotCache {
	return &snapshotCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *snapshotCache) Set(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "game:"+snap.Code+":state", data, c.ttl).Err()
}

func (c *snapshotCache) Get(ctx context.Context, code string) (*model.Snapshot, error) {
	data, err := c.client.Get(ctx, "game:"+code+":state").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	err = json.Unmarshal([]byte(data), &snap)
	return &snap, err
}

func (c *snapshotCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, "game:"+code+":state").Err()
}
