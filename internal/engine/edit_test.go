package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitweek/fitweek/internal/plan"
)

func planJSON(t *testing.T, w *plan.WeekPlan) string {
	t.Helper()
	data, err := json.Marshal(w)
	require.NoError(t, err)
	return string(data)
}

// engineWithPlan returns an engine with a loaded user and installed plan.
func engineWithPlan(t *testing.T) (*Engine, *fakeStore) {
	t.Helper()
	st := newFakeStore()
	e := newTestEngine(t, st, &fakeGenerator{result: generatedPlan()})
	loadUser(t, e, "alex")
	require.NoError(t, e.UpdateProfile(validProfile()))
	require.NoError(t, e.RequestGeneration(context.Background()))
	return e, st
}

func TestStartEdit_RequiresCommittedPlan(t *testing.T) {
	st := newFakeStore()
	e := newTestEngine(t, st, &fakeGenerator{result: generatedPlan()})
	loadUser(t, e, "alex")

	assert.False(t, e.StartEdit(), "no committed plan: StartEdit is a no-op")
	assert.Nil(t, e.Draft())
}

func TestStartEdit_DraftIsIndependentCopy(t *testing.T) {
	e, _ := engineWithPlan(t)
	committedBefore := planJSON(t, e.Committed())

	require.True(t, e.StartEdit())
	assert.Equal(t, SectionEditing, e.Status().Section)

	draft := e.Draft()
	require.NotNil(t, draft)
	assert.Equal(t, committedBefore, planJSON(t, draft), "draft starts structurally equal")

	// Mutate the draft through every edit primitive.
	require.NoError(t, e.Edit(plan.SetExerciseField{Day: 0, Group: 0, Exercise: 0, Field: plan.FieldReps, Value: "5"}))
	require.NoError(t, e.Edit(plan.SetDayFocus{Day: 1, Focus: "Back thickness"}))
	require.NoError(t, e.Edit(plan.AddExercise{Day: 0, Group: 0}))
	require.NoError(t, e.Edit(plan.DeleteExercise{Day: 0, Group: 0, Exercise: 0}))

	assert.Equal(t, committedBefore, planJSON(t, e.Committed()),
		"the committed plan stays byte-for-byte unchanged until commit")
}

func TestEdit_WithoutDraft(t *testing.T) {
	e, _ := engineWithPlan(t)

	err := e.Edit(plan.SetDayFocus{Day: 0, Focus: "x"})
	assert.Equal(t, ErrCodeNoDraft, CodeOf(err))
	assert.Equal(t, ErrCodeNoDraft, CodeOf(e.CommitEdit()))
	assert.Equal(t, ErrCodeNoDraft, CodeOf(e.DiscardEdit()))
}

func TestEdit_OutOfRangeTarget(t *testing.T) {
	e, _ := engineWithPlan(t)
	require.True(t, e.StartEdit())
	before := planJSON(t, e.Draft())

	err := e.Edit(plan.SetExerciseField{Day: 9, Group: 0, Exercise: 0, Field: plan.FieldName, Value: "x"})
	assert.Equal(t, ErrCodeEditTargetOutOfRange, CodeOf(err))
	assert.Equal(t, before, planJSON(t, e.Draft()), "failed edit leaves the draft unchanged")

	// Delete with stale coordinates is a silent no-op per the edit rules.
	assert.NoError(t, e.Edit(plan.DeleteExercise{Day: 9, Group: 9, Exercise: 9}))
	assert.Equal(t, before, planJSON(t, e.Draft()))
}

func TestCommitEdit_ReplacesCommittedPlan(t *testing.T) {
	e, _ := engineWithPlan(t)
	require.True(t, e.StartEdit())
	require.NoError(t, e.Edit(plan.SetDayFocus{Day: 0, Focus: "Heavy push"}))

	require.NoError(t, e.CommitEdit())

	status := e.Status()
	assert.False(t, status.Editing)
	assert.Equal(t, SectionPlan, status.Section)

	committed := e.Committed()
	assert.Equal(t, "Heavy push", committed.Days[0].Focus)
	assert.Nil(t, e.Draft(), "the draft is destroyed on commit")
}

func TestCommitEdit_ThenStartEditRoundTrips(t *testing.T) {
	e, _ := engineWithPlan(t)
	require.True(t, e.StartEdit())
	require.NoError(t, e.Edit(plan.SetExerciseField{Day: 0, Group: 0, Exercise: 0, Field: plan.FieldName, Value: "Incline Press"}))
	require.NoError(t, e.CommitEdit())

	committed := planJSON(t, e.Committed())

	require.True(t, e.StartEdit())
	draft := e.Draft()
	assert.Equal(t, committed, planJSON(t, draft), "round-trip equality")

	// Independence: mutating the new draft leaves the committed plan alone.
	require.NoError(t, e.Edit(plan.SetDayFocus{Day: 0, Focus: "changed"}))
	assert.Equal(t, committed, planJSON(t, e.Committed()))
}

func TestCommitEdit_ClampsLedgerToSurvivingDays(t *testing.T) {
	e, _ := engineWithPlan(t)
	_, err := e.LogWorkout(context.Background(), 0) // completes "Monday"
	require.NoError(t, err)

	require.True(t, e.StartEdit())
	require.NoError(t, e.Edit(plan.SetDayFocus{Day: 0, Focus: "still monday"}))
	require.NoError(t, e.CommitEdit())
	assert.Equal(t, []string{"Monday"}, e.Committed().CompletedDays,
		"ledger survives when the day label survives")
}

func TestDiscardEdit_LeavesCommittedUntouched(t *testing.T) {
	e, st := engineWithPlan(t)
	before := planJSON(t, e.Committed())
	savesBefore := st.saveCount()

	require.True(t, e.StartEdit())
	require.NoError(t, e.Edit(plan.SetDayFocus{Day: 0, Focus: "never persisted"}))
	require.NoError(t, e.DiscardEdit())

	assert.Equal(t, before, planJSON(t, e.Committed()))
	assert.Nil(t, e.Draft())
	assert.Equal(t, SectionPlan, e.Status().Section)

	e.Close() // drain any pending writes before inspecting the store
	assert.Equal(t, savesBefore, st.saveCount(), "a discarded draft is never persisted")
}

func TestStartEdit_DiscardsStaleDraft(t *testing.T) {
	e, _ := engineWithPlan(t)
	require.True(t, e.StartEdit())
	require.NoError(t, e.Edit(plan.SetDayFocus{Day: 0, Focus: "stale edit"}))

	// A second StartEdit drops the stale draft; there is never a merge.
	require.True(t, e.StartEdit())
	draft := e.Draft()
	assert.NotEqual(t, "stale edit", draft.Days[0].Focus)
	assert.Equal(t, planJSON(t, e.Committed()), planJSON(t, draft))
}
