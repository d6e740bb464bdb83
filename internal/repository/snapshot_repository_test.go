package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/persistence"
	"github.com/spec-kit/staff-directory/internal/repository"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

// exerciseSnapshotRepository runs the behavior every snapshot backend shares.
func exerciseSnapshotRepository(t *testing.T, repo repository.SnapshotRepository) {
	t.Helper()
	ctx := context.Background()

	pair, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, pair)

	first := repository.SnapshotPair{StaffData: `[{"id":"1"}]`, LastFetchTime: "1700000000000"}
	require.NoError(t, repo.Save(ctx, first))
	pair, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, first, *pair)

	second := repository.SnapshotPair{StaffData: `[]`, LastFetchTime: "1700000600000"}
	require.NoError(t, repo.Save(ctx, second))
	pair, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, second, *pair)
}

func TestMemorySnapshotRepository(t *testing.T) {
	exerciseSnapshotRepository(t, repository.NewMemorySnapshotRepository())
}

func TestRedisSnapshotRepository(t *testing.T) {
	srv, client := newMiniredis(t)
	exerciseSnapshotRepository(t, repository.NewRedisSnapshotRepository(client, "test:"))

	data, err := srv.Get("test:" + repository.StaffDataKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, data)
	fetchedAt, err := srv.Get("test:" + repository.LastFetchTimeKey)
	require.NoError(t, err)
	assert.Equal(t, "1700000600000", fetchedAt)
}

func TestRedisSnapshotRepository_HalfPairIsAbsent(t *testing.T) {
	srv, client := newMiniredis(t)
	repo := repository.NewRedisSnapshotRepository(client, "")

	require.NoError(t, srv.Set(repository.StaffDataKey, `[]`))
	pair, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pair)

	srv.Del(repository.StaffDataKey)
	require.NoError(t, srv.Set(repository.LastFetchTimeKey, "1700000000000"))
	pair, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestRedisSnapshotRepository_PrefixesIsolate(t *testing.T) {
	_, client := newMiniredis(t)
	a := repository.NewRedisSnapshotRepository(client, "a:")
	b := repository.NewRedisSnapshotRepository(client, "b:")

	require.NoError(t, a.Save(context.Background(), repository.SnapshotPair{StaffData: "[]", LastFetchTime: "1"}))

	pair, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pair)
}

func TestRedisSnapshotRepository_ServerDown(t *testing.T) {
	srv, client := newMiniredis(t)
	repo := repository.NewRedisSnapshotRepository(client, "")
	srv.Close()

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, repo.Save(context.Background(), repository.SnapshotPair{StaffData: "[]", LastFetchTime: "1"}))
}

func TestPostgresSnapshotRepository(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))

	prefix := "test-" + t.Name() + ":"
	_, err = pool.Exec(ctx, `DELETE FROM directory_snapshots WHERE snapshot_key LIKE $1`, prefix+"%")
	require.NoError(t, err)

	exerciseSnapshotRepository(t, repository.NewPostgresSnapshotRepository(pool, prefix))
}
