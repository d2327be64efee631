package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FouserBot/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func activePlans(t *testing.T, store *Store, userID int64) []models.Plan {
	t.Helper()
	plans, err := store.GetPlansByUser(context.Background(), userID)
	require.NoError(t, err)
	var active []models.Plan
	for _, plan := range plans {
		if plan.EndTime == nil {
			active = append(active, plan)
		}
	}
	return active
}

func TestGetProfileNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetProfile(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileUpsertRoundTripOpenSchema(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	profile := models.Profile{
		"name":   "Sam",
		"age":    float64(30),
		"gender": "m",
		"height": float64(180),
		"weight": float64(70),
		"goal":   "strength",
		"injury": "left knee", // opaque pass-through field
	}
	require.NoError(t, store.UpsertProfile(ctx, 42, profile))

	got, err := store.GetProfile(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestUpsertProfileIsFullReplace(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := models.Profile{"name": "Sam", "goal": "bulk", "injury": "knee"}
	require.NoError(t, store.UpsertProfile(ctx, 42, first))

	// The second profile omits goal and injury; they must not survive.
	second := models.Profile{"name": "Sam", "age": float64(31)}
	require.NoError(t, store.UpsertProfile(ctx, 42, second))

	got, err := store.GetProfile(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSaveNewPlanVersioning(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	profile := models.Profile{"name": "Sam", "weight": float64(70)}
	require.NoError(t, store.SaveNewPlan(ctx, 42, profile, "plan one"))
	require.NoError(t, store.SaveNewPlan(ctx, 42, profile, "plan two"))

	active := activePlans(t, store, 42)
	require.Len(t, active, 1)
	assert.Equal(t, "plan two", active[0].PlanText)
	assert.Equal(t, profile, active[0].Profile)

	plans, err := store.GetPlansByUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	// Newest first; the closed plan's end_time is the new plan's start_time.
	require.NotNil(t, plans[1].EndTime)
	assert.True(t, plans[1].EndTime.Equal(plans[0].StartTime))

	stored, err := store.GetProfile(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, profile, stored)
}

func TestSaveNewPlanIdempotentArguments(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	profile := models.Profile{"name": "Sam"}
	require.NoError(t, store.SaveNewPlan(ctx, 42, profile, "same plan"))
	require.NoError(t, store.SaveNewPlan(ctx, 42, profile, "same plan"))

	active := activePlans(t, store, 42)
	require.Len(t, active, 1)
	assert.Equal(t, "same plan", active[0].PlanText)
}

func TestSaveNewPlanIsolatedPerUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveNewPlan(ctx, 1, models.Profile{"name": "A"}, "plan a"))
	require.NoError(t, store.SaveNewPlan(ctx, 2, models.Profile{"name": "B"}, "plan b"))

	plan, err := store.GetActivePlan(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "plan a", plan.PlanText)
}

func TestGetActivePlanNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetActivePlan(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetActivePlanTieBreakOnLatestStart(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// Simulate a prior partial failure: two rows with NULL end_time.
	older := time.Now().Add(-time.Hour).UTC().Format(timeLayout)
	newer := time.Now().UTC().Format(timeLayout)
	for _, row := range []struct{ text, start string }{
		{"older plan", older},
		{"newer plan", newer},
	} {
		_, err := store.db.ExecContext(ctx, `
			INSERT INTO plan_history(user_id, plan_text, profile_json, start_time, end_time)
			VALUES(?, ?, ?, ?, NULL)`, 42, row.text, "{}", row.start)
		require.NoError(t, err)
	}

	plan, err := store.GetActivePlan(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "newer plan", plan.PlanText)
}

func TestLogTurnOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.LogTurn(ctx, 42, models.SenderUser, "hi"))
	require.NoError(t, store.LogTurn(ctx, 42, models.SenderAI, "hello, what's your name?"))
	require.NoError(t, store.LogTurn(ctx, 7, models.SenderUser, "other user"))

	turns, err := store.GetTurnsByUser(ctx, 42, 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.SenderUser, turns[0].Sender)
	assert.Equal(t, "hi", turns[0].Text)
	assert.Equal(t, models.SenderAI, turns[1].Sender)
	assert.False(t, turns[1].Timestamp.Before(turns[0].Timestamp))
}
