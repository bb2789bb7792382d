package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence keys live under the devconnect namespace so a shared Redis can
// carry other tenants without collisions.
const (
	presenceOnlineSetKey   = "devconnect:presence:online"
	presenceLastSeenPrefix = "devconnect:presence:last_seen:"

	presenceTTL           = 90 * time.Second
	presenceOfflineGrace  = 5 * time.Second
	presenceSweepInterval = 60 * time.Second
)

// PresenceOptions overrides presence defaults; zero values keep them.
type PresenceOptions struct {
	OnlineSetKey   string
	LastSeenPrefix string
	LastSeenTTL    time.Duration
	OfflineGrace   time.Duration
	SweepInterval  time.Duration
	OnOnline       func(userID uint)
	OnOffline      func(userID uint)
}

// PresenceTracker mirrors who holds an open websocket into Redis, so any
// instance can answer "is this user online". Local connection counts are the
// source of truth for this process; Redis last-seen keys carry liveness
// across instances. A short grace window after the last local disconnect
// absorbs page reloads before an offline transition is announced.
type PresenceTracker struct {
	rdb *redis.Client

	mu          sync.RWMutex
	localConns  map[uint]int
	graceTimers map[uint]*time.Timer
	offlineSent map[uint]bool

	onlineSetKey   string
	lastSeenPrefix string
	lastSeenTTL    time.Duration
	offlineGrace   time.Duration
	sweepInterval  time.Duration

	onOnline  func(userID uint)
	onOffline func(userID uint)

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPresenceTracker builds a tracker and, when Redis is available, starts
// the background sweeper that retires stale entries left by crashed
// instances.
func NewPresenceTracker(rdb *redis.Client, opts PresenceOptions) *PresenceTracker {
	p := &PresenceTracker{
		rdb:            rdb,
		localConns:     make(map[uint]int),
		graceTimers:    make(map[uint]*time.Timer),
		offlineSent:    make(map[uint]bool),
		onlineSetKey:   presenceOnlineSetKey,
		lastSeenPrefix: presenceLastSeenPrefix,
		lastSeenTTL:    presenceTTL,
		offlineGrace:   presenceOfflineGrace,
		sweepInterval:  presenceSweepInterval,
		onOnline:       opts.OnOnline,
		onOffline:      opts.OnOffline,
		stopCh:         make(chan struct{}),
	}

	if opts.OnlineSetKey != "" {
		p.onlineSetKey = opts.OnlineSetKey
	}
	if opts.LastSeenPrefix != "" {
		p.lastSeenPrefix = opts.LastSeenPrefix
	}
	if opts.LastSeenTTL > 0 {
		p.lastSeenTTL = opts.LastSeenTTL
	}
	if opts.OfflineGrace > 0 {
		p.offlineGrace = opts.OfflineGrace
	}
	if opts.SweepInterval > 0 {
		p.sweepInterval = opts.SweepInterval
	}

	if p.rdb != nil {
		go p.sweepLoop()
	}

	return p
}

// SetHooks replaces the online/offline transition callbacks.
func (p *PresenceTracker) SetHooks(onOnline, onOffline func(userID uint)) {
	p.mu.Lock()
	p.onOnline = onOnline
	p.onOffline = onOffline
	p.mu.Unlock()
}

// SetOfflineGrace adjusts the disconnect grace window; loopback for tests.
func (p *PresenceTracker) SetOfflineGrace(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.offlineGrace = d
	p.mu.Unlock()
}

// Stop terminates the sweeper and cancels pending grace timers.
func (p *PresenceTracker) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.mu.Lock()
		for userID, timer := range p.graceTimers {
			timer.Stop()
			delete(p.graceTimers, userID)
		}
		p.mu.Unlock()
	})
}

// Register records one more local connection for userID and refreshes the
// Redis mirror. The online hook fires only on the offline-to-online edge.
func (p *PresenceTracker) Register(ctx context.Context, userID uint) {
	wasOnline := p.IsOnline(ctx, userID)

	p.mu.Lock()
	if t, ok := p.graceTimers[userID]; ok {
		t.Stop()
		delete(p.graceTimers, userID)
	}
	p.localConns[userID]++
	p.offlineSent[userID] = false
	p.mu.Unlock()

	p.Touch(ctx, userID)
	if !wasOnline {
		p.announceOnline(userID)
	}
}

// Touch refreshes the user's Redis liveness. Called on registration and on
// every read from the socket, so an idle-but-connected client stays online.
func (p *PresenceTracker) Touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	pipe := p.rdb.Pipeline()
	pipe.SAdd(ctx, p.onlineSetKey, uid)
	pipe.SetEx(ctx, p.lastSeenKey(userID), strconv.FormatInt(time.Now().Unix(), 10), p.lastSeenTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("presence refresh failed for user %d: %v", userID, err)
	}
}

// Unregister drops one local connection. When the last one goes, the offline
// announcement is deferred by the grace window so reconnects stay silent.
func (p *PresenceTracker) Unregister(ctx context.Context, userID uint) {
	p.mu.Lock()
	if n, ok := p.localConns[userID]; ok {
		n--
		if n > 0 {
			p.localConns[userID] = n
			p.mu.Unlock()
			return
		}
		delete(p.localConns, userID)
	}

	if t, ok := p.graceTimers[userID]; ok {
		t.Stop()
	}
	p.graceTimers[userID] = time.AfterFunc(p.offlineGrace, func() {
		p.settleOffline(context.Background(), userID)
	})
	p.mu.Unlock()
}

// IsOnline answers from local state first, then the Redis mirror.
func (p *PresenceTracker) IsOnline(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	local := p.localConns[userID] > 0
	p.mu.RUnlock()
	if local {
		return true
	}

	if p.rdb == nil {
		return false
	}
	exists, err := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
	return err == nil && exists > 0
}

// OnlineUserIDs lists users considered online across all instances. Stale
// Redis entries are dropped on the way out; local connections are unioned in
// so the answer stays correct when Redis lags.
func (p *PresenceTracker) OnlineUserIDs(ctx context.Context) []uint {
	local := p.localOnline()
	if p.rdb == nil {
		return local
	}

	members, err := p.rdb.SMembers(ctx, p.onlineSetKey).Result()
	if err != nil {
		return local
	}

	seen := make(map[uint]struct{}, len(members)+len(local))
	ids := make([]uint, 0, len(members)+len(local))

	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)
		alive, aliveErr := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
		if aliveErr != nil {
			continue
		}
		if alive == 0 {
			_ = p.rdb.SRem(ctx, p.onlineSetKey, raw).Err()
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		ids = append(ids, userID)
	}

	for _, userID := range local {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		ids = append(ids, userID)
	}

	return ids
}

// sweepOnce retires online-set members whose last-seen key has expired.
func (p *PresenceTracker) sweepOnce(ctx context.Context) {
	if p.rdb == nil {
		return
	}

	members, err := p.rdb.SMembers(ctx, p.onlineSetKey).Result()
	if err != nil {
		return
	}

	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)
		alive, aliveErr := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
		if aliveErr != nil || alive > 0 {
			continue
		}

		_ = p.rdb.SRem(ctx, p.onlineSetKey, raw).Err()

		p.mu.RLock()
		hasLocal := p.localConns[userID] > 0
		p.mu.RUnlock()
		if !hasLocal {
			p.announceOffline(userID)
		}
	}
}

func (p *PresenceTracker) sweepLoop() {
	ctx := context.Background()
	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.sweepOnce(ctx)
		}
	}
}

// settleOffline runs after the grace window. A reconnect in the meantime, or
// a presence refresh from another instance, keeps the user online.
func (p *PresenceTracker) settleOffline(ctx context.Context, userID uint) {
	p.mu.Lock()
	if p.localConns[userID] > 0 {
		delete(p.graceTimers, userID)
		p.mu.Unlock()
		return
	}
	delete(p.graceTimers, userID)
	p.mu.Unlock()

	if p.rdb != nil {
		alive, err := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
		if err == nil && alive > 0 {
			return
		}
		_ = p.rdb.SRem(ctx, p.onlineSetKey, strconv.FormatUint(uint64(userID), 10)).Err()
	}

	p.announceOffline(userID)
}

func (p *PresenceTracker) announceOnline(userID uint) {
	p.mu.Lock()
	p.offlineSent[userID] = false
	hook := p.onOnline
	p.mu.Unlock()
	if hook != nil {
		hook(userID)
	}
}

// announceOffline fires the offline hook at most once per offline episode.
func (p *PresenceTracker) announceOffline(userID uint) {
	p.mu.Lock()
	if p.offlineSent[userID] {
		p.mu.Unlock()
		return
	}
	p.offlineSent[userID] = true
	hook := p.onOffline
	p.mu.Unlock()
	if hook != nil {
		hook(userID)
	}
}

func (p *PresenceTracker) localOnline() []uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]uint, 0, len(p.localConns))
	for userID, count := range p.localConns {
		if count > 0 {
			ids = append(ids, userID)
		}
	}
	return ids
}

func (p *PresenceTracker) lastSeenKey(userID uint) string {
	return p.lastSeenPrefix + strconv.FormatUint(uint64(userID), 10)
}
