package notifications

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// TestPresenceSweepAgainstRealRedis exercises the stale-entry sweep against a
// real Redis (127.0.0.1:6379), where SETEX expiry and set semantics are the
// genuine article rather than miniredis approximations. Skips when Redis is
// unreachable.
func TestPresenceSweepAgainstRealRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	// Clean slate for the test user, then plant a stale member: present in
	// the online set, no last-seen key.
	_ = rdb.SRem(ctx, presenceOnlineSetKey, "9999").Err()
	_ = rdb.Del(ctx, presenceLastSeenPrefix+"9999").Err()
	if err := rdb.SAdd(ctx, presenceOnlineSetKey, "9999").Err(); err != nil {
		t.Fatalf("failed to seed stale presence member: %v", err)
	}

	var wentOffline int32
	hub := NewHub(rdb)
	hub.SetPresenceCallbacks(nil, func(_ uint) {
		atomic.AddInt32(&wentOffline, 1)
	})

	hub.presence.sweepOnce(ctx)

	stillMember, err := rdb.SIsMember(ctx, presenceOnlineSetKey, "9999").Result()
	if err != nil {
		t.Fatalf("SIsMember failed: %v", err)
	}
	assert.False(t, stillMember, "stale member should have been swept")
	assert.Equal(t, int32(1), atomic.LoadInt32(&wentOffline))

	_ = hub.Shutdown(context.Background())
}
