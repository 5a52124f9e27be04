package views

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	require.Equal(t, "post:7", Post(7))
	require.Equal(t, "profile:3", Profile(3))
	require.Equal(t, "notifications:3", Notifications(3))
	require.Equal(t, "view:home:version", versionKey(Home))
}

func TestRecorderBumpsVersions(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()

	v, err := r.Version(ctx, Home)
	require.NoError(t, err)
	require.Zero(t, v)

	require.NoError(t, r.Invalidate(ctx, Home, Post(1)))
	require.NoError(t, r.Invalidate(ctx, Home))

	v, _ = r.Version(ctx, Home)
	require.EqualValues(t, 2, v)
	v, _ = r.Version(ctx, Post(1))
	require.EqualValues(t, 1, v)
	require.Equal(t, 2, r.Calls())
	require.Equal(t, []string{Home}, r.Last())
}

func TestRedisInvalidatorReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	err := NewRedisInvalidator(client).Invalidate(context.Background(), Home)
	require.Error(t, err)
	require.NoError(t, NewRedisInvalidator(client).Invalidate(context.Background()))
}

func TestNop(t *testing.T) {
	var inv Invalidator = Nop{}
	require.NoError(t, inv.Invalidate(context.Background(), Home))
	v, err := inv.Version(context.Background(), Home)
	require.NoError(t, err)
	require.Zero(t, v)
}
