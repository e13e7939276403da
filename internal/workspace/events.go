package workspace

// Event is emitted on the app event channel whenever shared state changes.
// Consumers read the current state back through the accessors; events only
// signal that something happened.
type Event any

// SnapshotUpdated signals that a refresh replaced the snapshot
type SnapshotUpdated struct{}

// RefreshFailed signals that a fetch-all failed. Initial marks the refresh
// that follows a login, whose failure also releases the loading gate.
type RefreshFailed struct {
	Err     error
	Initial bool
}

// SessionChanged signals a login or logout
type SessionChanged struct{}
