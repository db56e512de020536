package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierNilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)

	assert.NoError(t, n.PublishUser(context.Background(), 1, "payload"))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {
		t.Fatal("subscriber must not fire without Redis")
	}))
}

func TestNotifierRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	received := make(chan [2]string, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		received <- [2]string{channel, payload}
	}))

	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(t, n.PublishUser(ctx, 9, "hello"))
		select {
		case msg := <-received:
			assert.Equal(t, "notifications:user:9", msg[0])
			assert.Equal(t, "hello", msg[1])
			return
		case <-time.After(50 * time.Millisecond):
			if time.Now().After(deadline) {
				t.Fatal("published message never arrived")
			}
		}
	}
}

func TestNotifierSurvivesPanickingHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	calls := make(chan struct{}, 8)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_, _ string) {
		calls <- struct{}{}
		panic("handler exploded")
	}))

	// The subscriber must keep delivering after a handler panic.
	got := 0
	deadline := time.Now().Add(2 * time.Second)
	for got < 2 {
		require.NoError(t, n.PublishUser(ctx, 3, "boom"))
		select {
		case <-calls:
			got++
		case <-time.After(50 * time.Millisecond):
			if time.Now().After(deadline) {
				t.Fatalf("subscriber stopped after %d deliveries", got)
			}
		}
	}
}
