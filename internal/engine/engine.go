package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fitweek/fitweek/internal/plan"
)

// ProfileStore is the durable per-user store the engine depends on.
// Implemented by store.Store (SQLite) and by test fakes.
type ProfileStore interface {
	// GetProfile returns the persisted state for a user, or nil when the
	// user has never been saved.
	GetProfile(ctx context.Context, username string) (*plan.UserState, error)

	// SaveProfile upserts the full state for a user. Overwrite semantics,
	// no partial update.
	SaveProfile(ctx context.Context, state plan.UserState) error

	// GetWorkoutLogs returns the user's workout history, most recent first.
	GetWorkoutLogs(ctx context.Context, username string) ([]plan.WorkoutLogEntry, error)

	// AddWorkoutLog appends one history entry. Must fail visibly on error.
	AddWorkoutLog(ctx context.Context, username string, entry plan.WorkoutLogEntry) error
}

// PlanGenerator produces a weekly plan from a profile and its derived BMI.
// Any error is treated as "generation failed" - no structured error
// contract exists at this boundary.
type PlanGenerator interface {
	Generate(ctx context.Context, profile plan.Profile, bmi float64) (*plan.WeekPlan, error)
}

// Mode is the lifecycle mode of the engine.
type Mode string

const (
	// ModeCollectingInput means the user is filling in profile data.
	ModeCollectingInput Mode = "collecting_input"
	// ModeViewingPlan means a plan is installed or being generated.
	// The mode switches optimistically before generation resolves; Busy in
	// Status distinguishes viewing from waiting.
	ModeViewingPlan Mode = "viewing_plan"
)

// Section is the derived view state. Orthogonal to Mode and never
// persisted.
type Section string

const (
	SectionPlan     Section = "plan"
	SectionDiet     Section = "diet"
	SectionProgress Section = "progress"
	SectionProfile  Section = "profile"
	SectionEditing  Section = "editing"
)

// Status is a point-in-time snapshot of the engine, the polling surface
// for any UI layer.
type Status struct {
	Username     string  `json:"username"`
	Mode         Mode    `json:"mode"`
	Section      Section `json:"section"`
	Busy         bool    `json:"busy"`
	Error        string  `json:"error,omitempty"`
	ActiveDay    int     `json:"activeDay"`
	HasPlan      bool    `json:"hasPlan"`
	Editing      bool    `json:"editing"`
	WeekComplete bool    `json:"weekComplete"`
}

// LogResult reports the outcome of LogWorkout.
type LogResult struct {
	Entry plan.WorkoutLogEntry `json:"entry"`
	// AlreadyCompleted is true when the day had been logged before. The
	// history record is still appended, but the ledger is unchanged.
	AlreadyCompleted bool `json:"alreadyCompleted"`
	// BecameComplete is true when this log action completed the week.
	// Never true for a repeat log of an already-completed day.
	BecameComplete bool `json:"becameComplete"`
}

// Engine owns the volatile state of one user session: profile, committed
// plan, draft under edit, completion ledger, and history cache.
//
// Thread-safety model:
//   - All public methods are safe from any goroutine; each applies its
//     mutation atomically under one mutex.
//   - The generator call in RequestGeneration runs outside the lock; its
//     result is applied in a second locked turn guarded by the generation
//     token.
//   - The Synchronizer worker (Run) is the only writer of profile
//     snapshots.
//
// INVARIANTS:
//   - No store write for a user before that user's LoadUser completed.
//   - At most one draft exists at a time; a draft is never persisted
//     unless committed.
//   - CompletedDays stays a subset of the committed plan's day labels.
type Engine struct {
	store  ProfileStore
	gen    PlanGenerator
	clock  Clock
	tokens TokenSource
	sync   *Synchronizer

	mu        sync.Mutex
	username  string
	loaded    bool // write gate: opened by a successful LoadUser
	profile   plan.Profile
	committed *plan.WeekPlan
	draft     *plan.WeekPlan
	history   []plan.WorkoutLogEntry

	mode      Mode
	section   Section
	busy      bool
	userErr   string
	activeDay int
	freshWeek bool   // one-shot "new week started" advisory
	genToken  string // stamps the in-flight generation; superseded results are discarded
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source (tests use a fixed clock).
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithTokenSource overrides the token source (tests use a fixed source).
func WithTokenSource(ts TokenSource) Option {
	return func(e *Engine) { e.tokens = ts }
}

// New creates an Engine backed by the given store and generator.
//
// The engine starts with the write gate closed: every mutating operation
// fails with NOT_LOADED until LoadUser succeeds. Call Run in a goroutine
// to start the persistence worker, and Close to drain it before exit.
func New(store ProfileStore, gen PlanGenerator, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		gen:     gen,
		clock:   SystemClock{},
		tokens:  UUIDv7Source{},
		mode:    ModeCollectingInput,
		section: SectionProfile,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sync = NewSynchronizer(store)
	return e
}

// Run starts the persistence synchronizer worker.
// Blocks until the context is cancelled or Close is called.
//
// Must be called from exactly one goroutine.
func (e *Engine) Run(ctx context.Context) error {
	return e.sync.Run(ctx)
}

// Close drains pending persistence writes and stops the synchronizer.
// Safe to call even when Run was never started.
func (e *Engine) Close() {
	e.sync.Close()
}

// Synchronizer exposes the persistence worker, mainly for tests.
func (e *Engine) Synchronizer() *Synchronizer {
	return e.sync
}

// LoadUser performs the initial load for a user and opens the write gate.
//
// Reads the persisted profile record (absent is not an error - the user
// starts from a skeleton profile) and the full workout history. On any
// store failure the gate stays closed and a LOAD_FAILED error is returned;
// the engine must not present default data as if it were loaded.
//
// Switching users re-runs the load, resets all volatile state, and closes
// the gate until the new load completes. Any in-flight generation for the
// previous user is invalidated via the generation token.
func (e *Engine) LoadUser(ctx context.Context, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Close the gate and invalidate in-flight work before touching the store.
	e.loaded = false
	e.username = username
	e.genToken = e.tokens.Token()
	e.draft = nil
	e.userErr = ""
	e.freshWeek = false

	record, err := e.store.GetProfile(ctx, username)
	if err != nil {
		return wrapStateError(ErrCodeLoadFailed, "could not load your data", err)
	}

	history, err := e.store.GetWorkoutLogs(ctx, username)
	if err != nil {
		return wrapStateError(ErrCodeLoadFailed, "could not load your workout history", err)
	}

	if record == nil {
		// First load for this user: empty skeleton, nothing persisted until
		// the first real change.
		e.profile = plan.Profile{}
		e.committed = nil
	} else {
		e.profile = record.UserData.Clone()
		e.committed = record.WorkoutPlan.Clone()
	}
	e.history = history
	e.activeDay = 0
	e.section = SectionPlan
	if e.committed != nil {
		e.mode = ModeViewingPlan
	} else {
		e.mode = ModeCollectingInput
		e.section = SectionProfile
	}
	e.loaded = true

	slog.Info("user loaded",
		"username", username,
		"has_plan", e.committed != nil,
		"history_entries", len(e.history),
	)
	return nil
}

// UpdateProfile replaces the profile wholesale and notifies the
// synchronizer. Only structural normalization is applied (FreeDays becomes
// a distinct-label set); field-level validation belongs to the intake form.
func (e *Engine) UpdateProfile(p plan.Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return newStateError(ErrCodeNotLoaded, "no user loaded")
	}

	p = p.Clone()
	p.FreeDays = plan.NormalizeFreeDays(p.FreeDays)
	e.profile = p
	e.notifyLocked()
	return nil
}

// RequestGeneration runs one plan generation for the loaded user.
//
// Fails fast with VALIDATION when no free days are selected (the generator
// is never invoked) and with GENERATION_IN_FLIGHT when a generation is
// already running - the busy flag is the sole admission control.
//
// Otherwise the committed plan and any draft are cleared, the mode switches
// to ModeViewingPlan optimistically, and the generator is called with the
// profile and its derived BMI. On success the returned plan is installed
// with an empty completion ledger. On failure the mode reverts to
// ModeCollectingInput and a generic user-facing error is recorded. Busy
// always clears on both paths.
//
// A result whose generation token was superseded (by ResetForNewPlan,
// LoadUser, or a later request) is discarded with a log line and no state
// change.
func (e *Engine) RequestGeneration(ctx context.Context) error {
	profile, bmi, token, err := e.beginGeneration()
	if err != nil {
		return err
	}

	generated, genErr := e.gen.Generate(ctx, profile, bmi)

	return e.finishGeneration(token, generated, genErr)
}

// beginGeneration validates admission and snapshots the inputs for the
// generator call. Runs as one serialized turn.
func (e *Engine) beginGeneration() (plan.Profile, float64, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return plan.Profile{}, 0, "", newStateError(ErrCodeNotLoaded, "no user loaded")
	}
	if len(e.profile.FreeDays) == 0 {
		return plan.Profile{}, 0, "", newStateError(ErrCodeValidation, "select at least one free day")
	}
	if e.busy {
		return plan.Profile{}, 0, "", newStateError(ErrCodeGenerationInFlight, "a plan is already being generated")
	}

	e.busy = true
	e.userErr = ""
	e.committed = nil
	e.draft = nil
	e.activeDay = 0
	e.mode = ModeViewingPlan // optimistic; Busy distinguishes waiting from viewing
	e.section = SectionPlan
	e.genToken = e.tokens.Token()
	e.notifyLocked() // the cleared committed plan is itself a durable change

	slog.Info("generation requested",
		"username", e.username,
		"free_days", len(e.profile.FreeDays),
		"token", e.genToken,
	)
	return e.profile.Clone(), plan.CalculateBMI(e.profile.Weight, e.profile.Height), e.genToken, nil
}

// finishGeneration applies the generator result in a second serialized
// turn, guarded by the generation token.
func (e *Engine) finishGeneration(token string, generated *plan.WeekPlan, genErr error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Busy clears no matter how this turn ends.
	defer func() { e.busy = false }()

	if token != e.genToken {
		// Superseded by a reset, a user switch, or a later request while
		// this call was in flight. The newer state wins.
		slog.Info("stale generation result discarded",
			"username", e.username,
			"token", token,
			"failed", genErr != nil,
		)
		return nil
	}

	if genErr != nil {
		e.userErr = "plan generation failed, please try again"
		e.mode = ModeCollectingInput
		e.section = SectionProfile
		slog.Error("generation failed", "username", e.username, "error", genErr)
		return wrapStateError(ErrCodeGenerationFailed, e.userErr, genErr)
	}

	installed := generated.Clone()
	installed.CompletedDays = []string{}
	e.committed = installed
	e.activeDay = 0
	e.notifyLocked()

	slog.Info("plan installed",
		"username", e.username,
		"days", len(installed.Days),
		"weekly_calories", installed.TotalWeeklyCaloriesBurned,
	)
	return nil
}

// ResetForNewPlan clears the committed plan and draft, returns the engine
// to input collection, and clears every profile field except Name.
//
// Advances the generation token so an in-flight generation result is
// discarded when it lands, and arms the one-shot fresh-week advisory.
func (e *Engine) ResetForNewPlan() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return newStateError(ErrCodeNotLoaded, "no user loaded")
	}

	e.committed = nil
	e.draft = nil
	e.userErr = ""
	e.mode = ModeCollectingInput
	e.section = SectionProfile
	e.activeDay = 0
	e.profile = plan.Profile{Name: e.profile.Name}
	e.genToken = e.tokens.Token()
	e.freshWeek = true
	e.notifyLocked()

	slog.Info("reset for new plan", "username", e.username)
	return nil
}

// ConsumeFreshWeekNotice returns true exactly once after a reset.
func (e *Engine) ConsumeFreshWeekNotice() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	notice := e.freshWeek
	e.freshWeek = false
	return notice
}

// SetSection changes the derived view state. Rejected while a draft exists:
// the editing section is exited only through CommitEdit or DiscardEdit,
// and entered only through StartEdit.
func (e *Engine) SetSection(s Section) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft != nil {
		return newStateError(ErrCodeNoDraft, "finish or discard the current edit first")
	}
	if s == SectionEditing {
		return newStateError(ErrCodeNoDraft, "use StartEdit to begin editing")
	}
	e.section = s
	return nil
}

// StartEdit begins an edit session: deep-clones the committed plan into a
// fresh draft and enters the editing section.
//
// Returns false (no-op) when no committed plan exists. A stale draft from
// an earlier session is discarded first - there is never more than one
// draft and drafts are never merged.
func (e *Engine) StartEdit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded || e.committed == nil {
		return false
	}
	e.draft = e.committed.Clone()
	e.section = SectionEditing
	return true
}

// Edit applies one typed edit operation to the draft.
//
// plan.ErrOutOfRange maps to EDIT_TARGET_OUT_OF_RANGE and leaves the draft
// unchanged; an out-of-range DeleteExercise is a silent no-op by design.
// No edit ever touches the committed plan.
func (e *Engine) Edit(op plan.EditOp) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return newStateError(ErrCodeNoDraft, "no edit in progress")
	}
	if err := plan.Apply(e.draft, op); err != nil {
		return wrapStateError(ErrCodeEditTargetOutOfRange, "edit target does not exist", err)
	}
	return nil
}

// Draft returns a deep copy of the current draft, or nil when no edit is
// in progress. Callers can never alias engine-owned state.
func (e *Engine) Draft() *plan.WeekPlan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// CommitEdit replaces the committed plan with the draft's contents,
// destroys the draft, and leaves the editing section.
//
// The completion ledger is re-clamped to the day labels still present in
// the edited plan before the synchronizer is notified.
func (e *Engine) CommitEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return newStateError(ErrCodeNoDraft, "no edit in progress")
	}

	e.committed = e.draft
	e.committed.ClampCompletedDays()
	e.draft = nil
	e.section = SectionPlan
	if e.activeDay >= len(e.committed.Days) {
		e.activeDay = 0
	}
	e.notifyLocked()

	slog.Info("edit committed", "username", e.username, "days", len(e.committed.Days))
	return nil
}

// DiscardEdit destroys the draft and leaves the editing section.
// The committed plan is unaffected; nothing is persisted.
func (e *Engine) DiscardEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return newStateError(ErrCodeNoDraft, "no edit in progress")
	}
	e.draft = nil
	e.section = SectionPlan
	slog.Debug("edit discarded", "username", e.username)
	return nil
}

// LogWorkout records one completed workout day.
//
// The history entry is appended to the store FIRST; a store failure
// surfaces as LOG_APPEND_FAILED and the completion ledger is left
// unmodified - ledger and store must never diverge. On success:
//   - a repeat log of an already-completed day appends history but leaves
//     the ledger and the completion-transition result unchanged;
//   - otherwise the day joins the ledger and BecameComplete reports
//     whether this action completed the week.
//
// As a view convenience the active-day pointer advances to dayIndex+1 when
// dayIndex is not the last day.
func (e *Engine) LogWorkout(ctx context.Context, dayIndex int) (LogResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return LogResult{}, newStateError(ErrCodeNotLoaded, "no user loaded")
	}
	if e.committed == nil {
		return LogResult{}, newStateError(ErrCodeNoPlan, "no plan to log against")
	}
	if dayIndex < 0 || dayIndex >= len(e.committed.Days) {
		return LogResult{}, newStateError(ErrCodeDayOutOfRange,
			fmt.Sprintf("day index %d outside plan of %d days", dayIndex, len(e.committed.Days)))
	}

	day := e.committed.Days[dayIndex]
	entry := plan.WorkoutLogEntry{
		ID:             e.tokens.Token(),
		Date:           e.clock.Now(),
		DayName:        day.Day,
		Focus:          day.Focus,
		CaloriesBurned: day.CaloriesBurned,
	}

	// Store append first: on failure the ledger must not change.
	if err := e.store.AddWorkoutLog(ctx, e.username, entry); err != nil {
		slog.Error("workout log append failed", "username", e.username, "day", day.Day, "error", err)
		return LogResult{}, wrapStateError(ErrCodeLogAppendFailed, "could not save your workout", err)
	}

	result := LogResult{Entry: entry}
	if e.committed.DayCompleted(day.Day) {
		result.AlreadyCompleted = true
	} else {
		e.committed.MarkDayCompleted(day.Day)
		result.BecameComplete = e.committed.IsWeekComplete()
	}

	if dayIndex < len(e.committed.Days)-1 {
		e.activeDay = dayIndex + 1
	}

	// Most-recent-first, matching the store's read order.
	e.history = append([]plan.WorkoutLogEntry{entry}, e.history...)
	e.notifyLocked()

	slog.Info("workout logged",
		"username", e.username,
		"day", day.Day,
		"already_completed", result.AlreadyCompleted,
		"became_complete", result.BecameComplete,
	)
	return result, nil
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Username:     e.username,
		Mode:         e.mode,
		Section:      e.section,
		Busy:         e.busy,
		Error:        e.userErr,
		ActiveDay:    e.activeDay,
		HasPlan:      e.committed != nil,
		Editing:      e.draft != nil,
		WeekComplete: e.committed.IsWeekComplete(),
	}
}

// Committed returns a deep copy of the committed plan, or nil.
func (e *Engine) Committed() *plan.WeekPlan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed.Clone()
}

// CurrentProfile returns a deep copy of the profile.
func (e *Engine) CurrentProfile() plan.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

// History returns a copy of the in-memory history cache, most recent first.
func (e *Engine) History() []plan.WorkoutLogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]plan.WorkoutLogEntry, len(e.history))
	copy(out, e.history)
	return out
}

// notifyLocked hands the current committed state to the synchronizer.
// Caller must hold e.mu. No-op while the write gate is closed.
func (e *Engine) notifyLocked() {
	if !e.loaded {
		return
	}
	e.sync.Notify(plan.UserState{
		Username:    e.username,
		UserData:    e.profile.Clone(),
		WorkoutPlan: e.committed.Clone(),
	})
}
