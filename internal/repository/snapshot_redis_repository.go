package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisSnapshotRepository struct {
	client       redis.UniversalClient
	dataKey      string
	fetchTimeKey string
}

// NewRedisSnapshotRepository stores the snapshot pair as two Redis strings
// namespaced by prefix.
func NewRedisSnapshotRepository(client redis.UniversalClient, prefix string) SnapshotRepository {
	return &redisSnapshotRepository{
		client:       client,
		dataKey:      prefix + StaffDataKey,
		fetchTimeKey: prefix + LastFetchTimeKey,
	}
}

func (r *redisSnapshotRepository) Load(ctx context.Context) (*SnapshotPair, error) {
	values, err := r.client.MGet(ctx, r.dataKey, r.fetchTimeKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(values) != 2 {
		return nil, nil
	}
	data, ok := values[0].(string)
	if !ok {
		return nil, nil
	}
	fetchedAt, ok := values[1].(string)
	if !ok {
		return nil, nil
	}
	return &SnapshotPair{StaffData: data, LastFetchTime: fetchedAt}, nil
}

func (r *redisSnapshotRepository) Save(ctx context.Context, pair SnapshotPair) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.dataKey, pair.StaffData, 0)
		pipe.Set(ctx, r.fetchTimeKey, pair.LastFetchTime, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
