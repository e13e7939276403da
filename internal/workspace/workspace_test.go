package workspace

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/teamnexus/nexus/internal/models"
)

// fakeTimer is a manually driven deferred callback
type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// fakeScheduler records scheduled callbacks and fires them on demand
type fakeScheduler struct {
	mu     stdsync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *fakeScheduler) fire(i int) bool {
	s.mu.Lock()
	if i >= len(s.timers) {
		s.mu.Unlock()
		return false
	}
	t := s.timers[i]
	if t.stopped || t.fired {
		s.mu.Unlock()
		return false
	}
	t.fired = true
	s.mu.Unlock()
	t.fn()
	return true
}

// fakeClient serves canned snapshots and records saves
type fakeClient struct {
	mu      stdsync.Mutex
	data    *models.AppData
	fetches int
	saves   []string
	saveErr error
	onFetch func(n int) (*models.AppData, error)
}

func (c *fakeClient) FetchAll(ctx context.Context) (*models.AppData, error) {
	c.mu.Lock()
	c.fetches++
	n := c.fetches
	hook := c.onFetch
	data := c.data
	c.mu.Unlock()
	if hook != nil {
		return hook(n)
	}
	return data, nil
}

func (c *fakeClient) SaveTask(ctx context.Context, patch models.TaskPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves = append(c.saves, "task:"+patch.ID)
	return nil
}

func (c *fakeClient) SavePost(ctx context.Context, patch models.PostPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves = append(c.saves, "post:"+patch.ID)
	return nil
}

func (c *fakeClient) SaveSchedule(ctx context.Context, patch models.SchedulePatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves = append(c.saves, "schedule:"+patch.ID)
	return nil
}

func (c *fakeClient) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return &models.User{EmployeeID: "u-1", Email: email, Name: "tester", Role: models.RoleMember}, nil
}

func (c *fakeClient) fetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func (c *fakeClient) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.saves)
}

func snapshot(title string) *models.AppData {
	return &models.AppData{Tasks: []models.Task{{ID: "t-1", Title: title}}}
}

func testUser() models.User {
	return models.User{EmployeeID: "u-1", Email: "t@nexus.team", Name: "tester", Role: models.RoleMember}
}

func waitEvent(t *testing.T, app *App) Event {
	t.Helper()
	select {
	case ev := <-app.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestLoginLoadsSnapshotExactlyOnce(t *testing.T) {
	fc := &fakeClient{data: snapshot("alpha")}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs))

	app.Login(testUser())

	if _, ok := waitEvent(t, app).(SessionChanged); !ok {
		t.Fatal("expected SessionChanged first")
	}
	if _, ok := waitEvent(t, app).(SnapshotUpdated); !ok {
		t.Fatal("expected SnapshotUpdated after login")
	}

	if app.Loading() {
		t.Error("loading gate still set after snapshot arrived")
	}
	if got := app.Snapshot(); got == nil || got.Tasks[0].Title != "alpha" {
		t.Errorf("snapshot = %+v, want alpha", got)
	}
	if n := fc.fetchCount(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}

	// A second login during an active session is ignored
	app.Login(testUser())
	if n := fc.fetchCount(); n != 1 {
		t.Errorf("fetches after duplicate login = %d, want 1", n)
	}
}

func TestLoadingGateOnlyForInitialLoad(t *testing.T) {
	gate := make(chan struct{})
	fc := &fakeClient{}
	fc.onFetch = func(n int) (*models.AppData, error) {
		<-gate
		return snapshot("alpha"), nil
	}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs))

	app.Login(testUser())
	waitEvent(t, app) // SessionChanged

	if !app.Loading() {
		t.Error("loading gate not set during initial load")
	}

	close(gate)
	if _, ok := waitEvent(t, app).(SnapshotUpdated); !ok {
		t.Fatal("expected SnapshotUpdated")
	}
	if app.Loading() {
		t.Error("loading gate not cleared")
	}

	// A background refresh must not re-engage the gate
	fc.mu.Lock()
	fc.onFetch = nil
	fc.data = snapshot("beta")
	fc.mu.Unlock()
	if err := app.Refresh(); err != nil {
		t.Fatal(err)
	}
	if app.Loading() {
		t.Error("background refresh engaged the loading gate")
	}
}

func TestFailedInitialLoadClearsGate(t *testing.T) {
	fetchErr := errors.New("service down")
	fc := &fakeClient{}
	fc.onFetch = func(n int) (*models.AppData, error) { return nil, fetchErr }
	app := New(fc, WithScheduler(&fakeScheduler{}))

	app.Login(testUser())
	waitEvent(t, app) // SessionChanged

	ev := waitEvent(t, app)
	failed, ok := ev.(RefreshFailed)
	if !ok {
		t.Fatalf("expected RefreshFailed, got %T", ev)
	}
	if !failed.Initial {
		t.Error("failure not marked as initial")
	}
	if !errors.Is(failed.Err, fetchErr) {
		t.Errorf("err = %v, want %v", failed.Err, fetchErr)
	}
	if app.Loading() {
		t.Error("loading gate stuck after failed initial load")
	}
	if app.Snapshot() != nil {
		t.Error("snapshot set from failed fetch")
	}
	if app.User() == nil {
		t.Error("session dropped on refresh failure")
	}
}

func TestLastCompletedRefreshWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fc := &fakeClient{data: snapshot("initial")}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs))

	app.Login(testUser())
	waitEvent(t, app) // SessionChanged
	waitEvent(t, app) // SnapshotUpdated

	// Fetch 2 hangs until released; fetch 3 completes immediately
	fc.mu.Lock()
	fc.onFetch = func(n int) (*models.AppData, error) {
		if n == 2 {
			close(started)
			<-release
			return snapshot("slow"), nil
		}
		return snapshot("fast"), nil
	}
	fc.mu.Unlock()

	go app.Refresh()
	<-started

	if err := app.Refresh(); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, app) // SnapshotUpdated from the fast refresh
	if got := app.Snapshot().Tasks[0].Title; got != "fast" {
		t.Errorf("snapshot = %q, want fast", got)
	}

	close(release)
	waitEvent(t, app) // SnapshotUpdated from the slow refresh
	if got := app.Snapshot().Tasks[0].Title; got != "slow" {
		t.Errorf("snapshot = %q, want slow (completed last)", got)
	}
}

func TestSaveSchedulesDelayedRefresh(t *testing.T) {
	fc := &fakeClient{data: snapshot("alpha")}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs), WithRefreshDelay(1500*time.Millisecond))

	app.Login(testUser())
	waitEvent(t, app)
	waitEvent(t, app)

	if err := app.SaveTask(context.Background(), models.TaskPatch{ID: "t-1"}); err != nil {
		t.Fatal(err)
	}
	if n := fc.saveCount(); n != 1 {
		t.Fatalf("saves = %d, want 1", n)
	}
	if n := fs.count(); n != 1 {
		t.Fatalf("scheduled refreshes = %d, want 1", n)
	}
	fs.mu.Lock()
	d := fs.timers[0].d
	fs.mu.Unlock()
	if d != 1500*time.Millisecond {
		t.Errorf("refresh delay = %v, want 1.5s", d)
	}

	// Nothing fetched until the delay elapses
	if n := fc.fetchCount(); n != 1 {
		t.Errorf("fetches before delay = %d, want 1", n)
	}

	fc.mu.Lock()
	fc.data = snapshot("beta")
	fc.mu.Unlock()
	if !fs.fire(0) {
		t.Fatal("timer did not fire")
	}
	waitEvent(t, app) // SnapshotUpdated
	if got := app.Snapshot().Tasks[0].Title; got != "beta" {
		t.Errorf("snapshot = %q, want beta", got)
	}
}

func TestFailedSaveSchedulesNothing(t *testing.T) {
	fc := &fakeClient{data: snapshot("alpha"), saveErr: errors.New("rejected")}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs))

	app.Login(testUser())
	waitEvent(t, app)
	waitEvent(t, app)

	if err := app.SavePost(context.Background(), models.PostPatch{ID: "b-1"}); err == nil {
		t.Fatal("expected save error")
	}
	if n := fs.count(); n != 0 {
		t.Errorf("scheduled refreshes after failed save = %d, want 0", n)
	}
}

func TestLogoutCancelsPendingRefreshes(t *testing.T) {
	fc := &fakeClient{data: snapshot("alpha")}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs))

	app.Login(testUser())
	waitEvent(t, app)
	waitEvent(t, app)

	if err := app.SaveSchedule(context.Background(), models.SchedulePatch{ID: "s-1"}); err != nil {
		t.Fatal(err)
	}
	if n := fs.count(); n != 1 {
		t.Fatalf("scheduled refreshes = %d, want 1", n)
	}

	app.Logout()
	if _, ok := waitEvent(t, app).(SessionChanged); !ok {
		t.Fatal("expected SessionChanged on logout")
	}
	if app.User() != nil || app.Snapshot() != nil {
		t.Error("session state not cleared on logout")
	}

	// The pending timer was stopped; firing it is a no-op
	if fs.fire(0) {
		t.Error("cancelled timer still fired")
	}
	if n := fc.fetchCount(); n != 1 {
		t.Errorf("fetches after logout = %d, want 1", n)
	}
}

func TestLogoutDiscardsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	fc := &fakeClient{}
	fc.onFetch = func(n int) (*models.AppData, error) {
		close(started)
		<-release
		defer close(done)
		return snapshot("stale"), nil
	}
	app := New(fc, WithScheduler(&fakeScheduler{}))

	app.Login(testUser())
	waitEvent(t, app) // SessionChanged
	<-started

	app.Logout()
	waitEvent(t, app) // SessionChanged

	close(release)
	<-done

	// The stale completion must not resurrect the dead session's data
	waitFor(t, func() bool { return app.Snapshot() == nil && app.User() == nil })
	time.Sleep(10 * time.Millisecond)
	if app.Snapshot() != nil {
		t.Error("stale fetch result applied after logout")
	}
	if app.Loading() {
		t.Error("loading set after logout")
	}
}

// immediateScheduler runs callbacks synchronously, before AfterFunc returns
type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	fn()
	return func() bool { return false }
}

func TestRefreshFiringBeforeScheduleReturnsLeavesNoPendingEntry(t *testing.T) {
	fc := &fakeClient{data: snapshot("alpha")}
	app := New(fc, WithScheduler(immediateScheduler{}))

	app.Login(testUser())
	waitEvent(t, app)
	waitEvent(t, app)

	if err := app.SaveTask(context.Background(), models.TaskPatch{ID: "t-1"}); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, app) // SnapshotUpdated from the already-fired refresh

	// The fired timer must not linger in the pending set
	app.mu.Lock()
	n := len(app.pending)
	app.mu.Unlock()
	if n != 0 {
		t.Errorf("pending refreshes = %d, want 0", n)
	}
}

func TestSaveAfterLogoutRace(t *testing.T) {
	fc := &fakeClient{data: snapshot("alpha")}
	fs := &fakeScheduler{}
	app := New(fc, WithScheduler(fs))

	app.Login(testUser())
	waitEvent(t, app)
	waitEvent(t, app)

	// Logout between the save completing and its refresh being scheduled
	// leaves no timer that can run.
	if err := app.SaveTask(context.Background(), models.TaskPatch{ID: "t-1"}); err != nil {
		t.Fatal(err)
	}
	app.Logout()
	waitEvent(t, app)

	if fs.fire(0) {
		t.Error("refresh scheduled before logout still fired")
	}
}
