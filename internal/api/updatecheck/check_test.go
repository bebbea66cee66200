package updatecheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pulse/internal/api"
	"github.com/colonyops/pulse/internal/data/db"
	"github.com/colonyops/pulse/internal/data/stores"
)

func setupRelease(t *testing.T, tag string) (*api.Client, *stores.KVStore, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","published_at":"2026-01-01T00:00:00Z"}`))
	}))
	t.Cleanup(srv.Close)

	prev := releaseURL
	releaseURL = srv.URL
	t.Cleanup(func() { releaseURL = prev })

	database, err := db.Open(t.TempDir(), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	client := api.New(api.Options{Logger: zerolog.Nop(), MaxRetries: -1})
	return client, stores.NewKVStore(database), &hits
}

func TestCheck_UpdateAvailable(t *testing.T) {
	client, kvStore, _ := setupRelease(t, "v2.0.0")

	res, err := Check(context.Background(), client, kvStore, "v1.0.0")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "v1.0.0", res.Current)
	assert.Equal(t, "v2.0.0", res.Latest)
}

func TestCheck_UpToDate(t *testing.T) {
	client, kvStore, _ := setupRelease(t, "v1.0.0")

	res, err := Check(context.Background(), client, kvStore, "1.0.0")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCheck_SkipsDevBuilds(t *testing.T) {
	client, kvStore, hits := setupRelease(t, "v9.9.9")

	res, err := Check(context.Background(), client, kvStore, "dev")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, hits.Load(), "dev builds never hit the release API")
}

func TestCheck_CachesRelease(t *testing.T) {
	client, kvStore, hits := setupRelease(t, "v2.0.0")
	ctx := context.Background()

	_, err := Check(ctx, client, kvStore, "v1.0.0")
	require.NoError(t, err)
	_, err = Check(ctx, client, kvStore, "v1.0.0")
	require.NoError(t, err)

	assert.EqualValues(t, 1, hits.Load(), "second check is served from the store")
}

func TestCheck_FetchFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	prev := releaseURL
	releaseURL = srv.URL
	t.Cleanup(func() { releaseURL = prev })

	database, err := db.Open(t.TempDir(), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	client := api.New(api.Options{Logger: zerolog.Nop(), MaxRetries: -1})

	res, err := Check(context.Background(), client, stores.NewKVStore(database), "v1.0.0")
	require.NoError(t, err, "check failures never propagate")
	assert.Nil(t, res)
}
