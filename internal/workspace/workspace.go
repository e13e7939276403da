// Package workspace owns the client-side state of the team workspace: the
// authenticated session, the unified data snapshot, and the write-through
// mutation path. State changes only through the operations defined here;
// the UI reads snapshots and subscribes to the event channel.
package workspace

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/teamnexus/nexus/internal/api"
	"github.com/teamnexus/nexus/internal/models"
)

// DefaultRefreshDelay is how long a save waits before re-syncing. The service
// needs time to make a write observable in a subsequent fetch-all; refreshing
// immediately would usually read pre-mutation data.
const DefaultRefreshDelay = 1200 * time.Millisecond

// App holds session identity and the unified snapshot. The snapshot is only
// ever replaced as a whole - concurrent refreshes race, and whichever
// completes last wins.
type App struct {
	client  api.Client
	sched   Scheduler
	delay   time.Duration
	timeout time.Duration

	mu       stdsync.Mutex
	user     *models.User
	snapshot *models.AppData
	loading  bool
	epoch    uint64
	pending  map[uint64]func() bool
	nextTok  uint64

	events chan Event
}

// Option configures an App
type Option func(*App)

// WithScheduler replaces the timer-backed scheduler (used by tests)
func WithScheduler(s Scheduler) Option {
	return func(a *App) { a.sched = s }
}

// WithRefreshDelay overrides the post-save refresh delay
func WithRefreshDelay(d time.Duration) Option {
	return func(a *App) { a.delay = d }
}

// WithFetchTimeout bounds each fetch-all call. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(a *App) { a.timeout = d }
}

// New creates an App over the given data service client
func New(client api.Client, opts ...Option) *App {
	a := &App{
		client:  client,
		sched:   timerScheduler{},
		delay:   DefaultRefreshDelay,
		pending: make(map[uint64]func() bool),
		events:  make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Events exposes the state-change channel for UI subscriptions
func (a *App) Events() <-chan Event {
	return a.events
}

// User returns the authenticated user, or nil before login
func (a *App) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// Snapshot returns the current snapshot, or nil before the first load.
// Callers must treat it as immutable.
func (a *App) Snapshot() *models.AppData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// Loading reports whether the login-triggered snapshot load is outstanding.
// Background refreshes after saves never set this.
func (a *App) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Login establishes the session and starts the one initial snapshot load.
// A second login while a session is active is ignored.
func (a *App) Login(user models.User) {
	a.mu.Lock()
	if a.user != nil {
		a.mu.Unlock()
		return
	}
	a.user = &user
	a.loading = true
	a.epoch++
	epoch := a.epoch
	a.mu.Unlock()

	a.emit(SessionChanged{})
	go a.refresh(epoch, true)
}

// Logout clears the session. The snapshot is dropped with it - panels must
// never show one session's data under another session's identity - and any
// pending delayed refreshes are stopped. A fetch already in flight is not
// cancelled, but its result will carry a stale epoch and be discarded.
func (a *App) Logout() {
	a.mu.Lock()
	if a.user == nil {
		a.mu.Unlock()
		return
	}
	a.user = nil
	a.snapshot = nil
	a.loading = false
	a.epoch++
	cancels := a.pending
	a.pending = make(map[uint64]func() bool)
	a.mu.Unlock()

	for _, stop := range cancels {
		stop()
	}
	a.emit(SessionChanged{})
}

// Refresh fetches a fresh snapshot and replaces the stored one wholesale.
// Safe to call concurrently; the store reflects whichever call completes
// last, never a mix of two fetches.
func (a *App) Refresh() error {
	a.mu.Lock()
	epoch := a.epoch
	a.mu.Unlock()
	return a.refresh(epoch, false)
}

func (a *App) refresh(epoch uint64, initial bool) error {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	data, err := a.client.FetchAll(ctx)

	a.mu.Lock()
	if a.epoch != epoch {
		// Session changed while this fetch was in flight; its result
		// belongs to a dead session.
		a.mu.Unlock()
		return nil
	}
	if err != nil {
		if initial {
			a.loading = false
		}
		a.mu.Unlock()
		a.emit(RefreshFailed{Err: err, Initial: initial})
		return err
	}
	a.snapshot = data
	if initial {
		a.loading = false
	}
	a.mu.Unlock()

	a.emit(SnapshotUpdated{})
	return nil
}

// SaveTask forwards a partial task and schedules a delayed re-sync. No local
// merge is applied; the snapshot stays untouched until the refresh lands.
func (a *App) SaveTask(ctx context.Context, patch models.TaskPatch) error {
	if err := a.client.SaveTask(ctx, patch); err != nil {
		return err
	}
	a.scheduleRefresh()
	return nil
}

// SavePost forwards a partial post and schedules a delayed re-sync
func (a *App) SavePost(ctx context.Context, patch models.PostPatch) error {
	if err := a.client.SavePost(ctx, patch); err != nil {
		return err
	}
	a.scheduleRefresh()
	return nil
}

// SaveSchedule forwards a partial schedule and schedules a delayed re-sync
func (a *App) SaveSchedule(ctx context.Context, patch models.SchedulePatch) error {
	if err := a.client.SaveSchedule(ctx, patch); err != nil {
		return err
	}
	a.scheduleRefresh()
	return nil
}

func (a *App) scheduleRefresh() {
	a.mu.Lock()
	epoch := a.epoch
	tok := a.nextTok
	a.nextTok++
	a.mu.Unlock()

	fired := false
	stop := a.sched.AfterFunc(a.delay, func() {
		a.mu.Lock()
		fired = true
		delete(a.pending, tok)
		a.mu.Unlock()
		a.refresh(epoch, false)
	})

	a.mu.Lock()
	// The timer may already have fired, and the session may have ended
	// between the save completing and now; either way there is nothing left
	// to track.
	if fired || a.epoch != epoch {
		a.mu.Unlock()
		stop()
		return
	}
	a.pending[tok] = stop
	a.mu.Unlock()
}

func (a *App) emit(ev Event) {
	select {
	case a.events <- ev:
	default:
	}
}
