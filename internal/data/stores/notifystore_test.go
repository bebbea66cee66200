package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pulse/internal/core/notify"
)

func TestNotifyStore_SaveAndList(t *testing.T) {
	s := NewNotifyStore(newTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	_, err := s.Save(ctx, notify.Notification{Kind: notify.KindInfo, Message: "older", CreatedAt: base})
	require.NoError(t, err)

	id, err := s.Save(ctx, notify.Notification{Kind: notify.KindError, Message: "newer", CreatedAt: base.Add(time.Second)})
	require.NoError(t, err)
	assert.Positive(t, id)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Message, "newest first")
	assert.Equal(t, notify.KindError, list[0].Kind)
	assert.Equal(t, "older", list[1].Message)
}

func TestNotifyStore_CountAndClear(t *testing.T) {
	s := NewNotifyStore(newTestDB(t))
	ctx := context.Background()

	for range 3 {
		_, err := s.Save(ctx, notify.Notification{Kind: notify.KindInfo, Message: "m", CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, s.Clear(ctx))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
