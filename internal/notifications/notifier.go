package notifications

import (
	"context"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const userChannelPrefix = "notifications:user:"

// Notifier publishes user events into Redis so every instance, not just
// the one that handled the request, can deliver them. A nil Redis client
// turns every method into a no-op.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier over the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser publishes a payload on the user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartPatternSubscriber subscribes to every user channel and invokes
// onMessage for each delivery. The subscription lives until ctx is done.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				deliver(onMessage, msg.Channel, msg.Payload)
			}
		}
	}()

	return nil
}

// deliver isolates onMessage panics so one bad handler cannot kill the
// subscriber goroutine.
func deliver(onMessage func(channel, payload string), channel, payload string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic in notification handler: %v\n%s", r, debug.Stack())
		}
	}()
	onMessage(channel, payload)
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}
