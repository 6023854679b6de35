package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/fitweek/fitweek/internal/plan"
)

// Synchronizer is the persistence side of the engine: a single background
// worker that writes committed state snapshots to the store.
//
// Writes are fire-and-forget from the engine's point of view. Notify never
// blocks a state transition; a failed write is logged and dropped, never
// retried - the next state change supersedes it and the in-memory state
// stays authoritative for the session ("latest-wins, drop on failure").
//
// Pending snapshots coalesce: Notify replaces any snapshot the worker has
// not picked up yet, so a burst of state changes produces one write of the
// newest state, not one write per change.
//
// Thread-safety model:
//   - Notify(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - Close(): safe from any goroutine, idempotent
type Synchronizer struct {
	store ProfileStore

	mu      sync.Mutex
	pending *snapshot
	rev     int64
	closed  bool
	started bool
	signal  chan struct{} // buffered size 1; coalesces wakeups, closed on Close
	done    chan struct{}

	lastFingerprint string // of the last successful write; suppresses no-op writes
}

type snapshot struct {
	rev   int64
	state plan.UserState
}

// NewSynchronizer creates a synchronizer writing to the given store.
func NewSynchronizer(store ProfileStore) *Synchronizer {
	return &Synchronizer{
		store:  store,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Notify enqueues a state snapshot for writing.
// Replaces any pending snapshot (latest-wins). Never blocks.
// Snapshots arriving after Close are dropped.
func (s *Synchronizer) Notify(state plan.UserState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.rev++
	s.pending = &snapshot{rev: s.rev, state: state}

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Run is the worker loop. Blocks until the context is cancelled or Close
// is called; on Close it drains the pending snapshot first so a one-shot
// process does not lose its final write.
//
// Must be called from exactly one goroutine.
func (s *Synchronizer) Run(ctx context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	defer close(s.done)

	slog.Debug("synchronizer starting")

	for {
		snap, ok := s.take()
		if ok {
			s.write(ctx, snap)
			continue
		}

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			slog.Debug("synchronizer stopping: closed and drained")
			return nil
		}

		select {
		case <-ctx.Done():
			// Best effort: flush the last snapshot before giving up.
			if snap, ok := s.take(); ok {
				s.write(context.Background(), snap)
			}
			slog.Debug("synchronizer stopping: context cancelled")
			return ctx.Err()

		case <-s.signal:
			// Signal fired or channel closed - loop back to take.
		}
	}
}

// Close stops accepting snapshots and, if Run was started, waits for the
// worker to drain and exit. Idempotent.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
		}
		return
	}
	s.closed = true
	started := s.started
	close(s.signal) // wakes the worker; take() drains what is left
	s.mu.Unlock()

	if started {
		<-s.done
	}
}

// take removes and returns the pending snapshot, if any.
func (s *Synchronizer) take() (*snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil, false
	}
	snap := s.pending
	s.pending = nil
	return snap, true
}

// write persists one snapshot. Failures are logged and dropped.
func (s *Synchronizer) write(ctx context.Context, snap *snapshot) {
	fp, err := fingerprint(snap.state)
	if err != nil {
		slog.Error("snapshot fingerprint failed", "username", snap.state.Username, "error", err)
		return
	}
	if fp == s.lastFingerprint {
		slog.Debug("snapshot unchanged, write skipped",
			"username", snap.state.Username,
			"rev", snap.rev,
		)
		return
	}

	if err := s.store.SaveProfile(ctx, snap.state); err != nil {
		// Fire-and-forget: log and drop. The next state change supersedes
		// this snapshot; in-memory state stays authoritative.
		slog.Error("profile save failed",
			"username", snap.state.Username,
			"rev", snap.rev,
			"error", err,
		)
		return
	}

	s.lastFingerprint = fp
	slog.Debug("profile saved",
		"username", snap.state.Username,
		"rev", snap.rev,
		"has_plan", snap.state.WorkoutPlan != nil,
	)
}

// fingerprint hashes the JSON rendering of a snapshot for write dedupe.
func fingerprint(state plan.UserState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
