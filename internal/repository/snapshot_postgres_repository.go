package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultSnapshotKey = "directory"

type postgresSnapshotRepository struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresSnapshotRepository stores the snapshot pair in a single row of
// directory_snapshots, so both halves change in one statement.
func NewPostgresSnapshotRepository(pool *pgxpool.Pool, prefix string) SnapshotRepository {
	return &postgresSnapshotRepository{pool: pool, key: prefix + defaultSnapshotKey}
}

func (r *postgresSnapshotRepository) Load(ctx context.Context) (*SnapshotPair, error) {
	const query = `
        SELECT staff_data, last_fetch_time
        FROM directory_snapshots WHERE snapshot_key=$1`

	var pair SnapshotPair
	if err := r.pool.QueryRow(ctx, query, r.key).Scan(
		&pair.StaffData,
		&pair.LastFetchTime,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if pair.StaffData == "" || pair.LastFetchTime == "" {
		return nil, nil
	}
	return &pair, nil
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, pair SnapshotPair) error {
	const query = `
        INSERT INTO directory_snapshots (snapshot_key, staff_data, last_fetch_time)
        VALUES ($1,$2,$3)
        ON CONFLICT (snapshot_key)
        DO UPDATE SET staff_data=EXCLUDED.staff_data, last_fetch_time=EXCLUDED.last_fetch_time, updated_at=NOW()`

	_, err := r.pool.Exec(ctx, query, r.key, pair.StaffData, pair.LastFetchTime)
	return err
}
