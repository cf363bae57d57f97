package service

import (
	"context"
	"testing"

	"trainmate/internal/cache"
	"trainmate/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClient(t *testing.T, env *testEnv, userID uuid.UUID) uuid.UUID {
	t.Helper()
	client, err := env.clients.Create(context.Background(), userID, &domain.Client{
		Name:  "Mario Rossi",
		Email: uuid.NewString() + "@example.com",
	})
	require.NoError(t, err)
	return client.ID
}

func TestPlanMutationsRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.plans.Create(ctx, uuid.Nil, &domain.TrainingPlan{Name: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.plans.Update(ctx, uuid.Nil, &domain.TrainingPlan{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	err = env.plans.Delete(ctx, uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.plans.Get(ctx, uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = env.plans.List(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	err = env.plans.SetExerciseCompleted(ctx, uuid.Nil, uuid.New(), true)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPlanCreateSyncsCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	// Warm both list entries; the optimistic patches only touch cached lists.
	_, err := env.plans.List(ctx, userID)
	require.NoError(t, err)
	_, err = env.plans.ListByClient(ctx, userID, clientID)
	require.NoError(t, err)

	var invalidated []cache.Key
	env.cache.Subscribe(func(k cache.Key) { invalidated = append(invalidated, k) })

	created, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "Giorno 1", Exercises: []domain.Exercise{{Name: "Squat", Sets: 5, Reps: "5"}}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, invalidated, cache.TrainingPlansKey(userID))
	assert.Contains(t, invalidated, cache.ClientTrainingPlansKey(clientID))

	// The optimistic patch puts the new plan at the head of both lists, and
	// the lists stay stale so the next read refetches them.
	all := cache.ListOf[domain.TrainingPlan](env.cache, cache.TrainingPlansKey(userID))
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	byClient := cache.ListOf[domain.TrainingPlan](env.cache, cache.ClientTrainingPlansKey(clientID))
	require.Len(t, byClient, 1)
	_, _, stale := env.cache.Lookup(cache.TrainingPlansKey(userID))
	assert.True(t, stale)

	// The single-plan entry is fresh, so Get serves it without a read.
	value, ok, stale := env.cache.Lookup(cache.TrainingPlanKey(created.ID))
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, created.ID, value.(domain.TrainingPlan).ID)

	require.Len(t, *env.notifications, 2) // client created + plan created
	assert.Equal(t, "Piano creato", (*env.notifications)[1].Title)
}

func TestPlanUpdatePatchesCachedLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	created, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
	})
	require.NoError(t, err)

	// An authoritative read caches the list the patch will rewrite.
	_, err = env.plans.List(ctx, userID)
	require.NoError(t, err)

	updated, err := env.plans.Update(ctx, userID, &domain.TrainingPlan{
		ID:       created.ID,
		ClientID: clientID,
		Name:     "Piano B",
	})
	require.NoError(t, err)
	assert.Equal(t, "Piano B", updated.Name)

	all := cache.ListOf[domain.TrainingPlan](env.cache, cache.TrainingPlansKey(userID))
	require.Len(t, all, 1)
	assert.Equal(t, "Piano B", all[0].Name, "list entry replaced in place")

	value, ok, _ := env.cache.Lookup(cache.TrainingPlanKey(created.ID))
	require.True(t, ok)
	assert.Equal(t, "Piano B", value.(domain.TrainingPlan).Name)
}

func TestPlanDeleteRemovesFromCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	created, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
	})
	require.NoError(t, err)

	require.NoError(t, env.plans.Delete(ctx, userID, created.ID))

	assert.Empty(t, cache.ListOf[domain.TrainingPlan](env.cache, cache.TrainingPlansKey(userID)))
	assert.Empty(t, cache.ListOf[domain.TrainingPlan](env.cache, cache.ClientTrainingPlansKey(clientID)))
	_, ok, _ := env.cache.Lookup(cache.TrainingPlanKey(created.ID))
	assert.False(t, ok, "single-plan entry must be dropped, not just staled")

	err = env.plans.Delete(ctx, userID, created.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanDeleteResolvesClientFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	created, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
	})
	require.NoError(t, err)

	// Delete reads the stored row for the client key; the cached single-plan
	// entry plays no part.
	env.cache.Remove(cache.TrainingPlanKey(created.ID))
	env.cache.Set(cache.ClientTrainingPlansKey(clientID), []domain.TrainingPlan{*created})

	require.NoError(t, env.plans.Delete(ctx, userID, created.ID))
	assert.Empty(t, cache.ListOf[domain.TrainingPlan](env.cache, cache.ClientTrainingPlansKey(clientID)))
}

func TestPlanCacheReadThrough(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	created, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "Giorno 1", Exercises: []domain.Exercise{{Name: "Squat", Sets: 5, Reps: "5"}}},
		},
	})
	require.NoError(t, err)

	// A stale entry is not served; the read refreshes it.
	env.cache.Invalidate(cache.TrainingPlanKey(created.ID))
	got, err := env.plans.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Len(t, got.ExerciseGroups, 1)
	_, _, stale := env.cache.Lookup(cache.TrainingPlanKey(created.ID))
	assert.False(t, stale)

	// List populates its key so a second call hits the cache.
	env.cache.Remove(cache.TrainingPlansKey(userID))
	first, err := env.plans.List(ctx, userID)
	require.NoError(t, err)
	second, err := env.plans.List(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSetExerciseCompletedInvalidatesPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	created, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "Giorno 1", Exercises: []domain.Exercise{{Name: "Squat", Sets: 5, Reps: "5"}}},
		},
	})
	require.NoError(t, err)
	exerciseID := created.ExerciseGroups[0].Exercises[0].ID

	require.NoError(t, env.plans.SetExerciseCompleted(ctx, userID, exerciseID, true))

	_, ok, stale := env.cache.Lookup(cache.TrainingPlanKey(created.ID))
	require.True(t, ok)
	assert.True(t, stale, "plan entry must be marked stale")

	got, err := env.plans.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.True(t, got.ExerciseGroups[0].Exercises[0].Completed)
}

func TestPlanAccessDeniedForOtherUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t)
	intruder := env.seedUser(t)
	clientID := seedClient(t, env, owner)

	created, err := env.plans.Create(ctx, owner, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
	})
	require.NoError(t, err)

	_, err = env.plans.Update(ctx, intruder, &domain.TrainingPlan{ID: created.ID, ClientID: clientID, Name: "hijack"})
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	_, err = env.plans.Get(ctx, intruder, created.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	// Create warmed the single-plan entry; ownership must still be checked
	// against storage, not against whatever the cache holds.
	_, ok, _ := env.cache.Lookup(cache.TrainingPlanKey(created.ID))
	require.True(t, ok)
	err = env.plans.Delete(ctx, intruder, created.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	got, err := env.plans.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Piano A", got.Name)
}

func TestSetExerciseCompletedScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.seedUser(t)
	intruder := env.seedUser(t)
	clientID := seedClient(t, env, owner)

	created, err := env.plans.Create(ctx, owner, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano A",
		ExerciseGroups: []domain.ExerciseGroup{
			{Title: "Giorno 1", Exercises: []domain.Exercise{{Name: "Squat", Sets: 5, Reps: "5"}}},
		},
	})
	require.NoError(t, err)
	exerciseID := created.ExerciseGroups[0].Exercises[0].ID

	err = env.plans.SetExerciseCompleted(ctx, intruder, exerciseID, true)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	got, err := env.plans.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.False(t, got.ExerciseGroups[0].Exercises[0].Completed)
}

func TestPlanCreateOnColdCacheForcesListRefetch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.seedUser(t)
	clientID := seedClient(t, env, userID)

	_, err := env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano vecchio",
	})
	require.NoError(t, err)

	env.cache.Remove(cache.TrainingPlansKey(userID))
	env.cache.Remove(cache.ClientTrainingPlansKey(clientID))

	_, err = env.plans.Create(ctx, userID, &domain.TrainingPlan{
		ClientID: clientID,
		Name:     "Piano nuovo",
	})
	require.NoError(t, err)

	// No list entry may be fabricated from the patch alone: the next read has
	// to fall through to storage and see both plans, not just the new one.
	_, ok, _ := env.cache.Lookup(cache.TrainingPlansKey(userID))
	assert.False(t, ok)
	all, err := env.plans.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	byClient, err := env.plans.ListByClient(ctx, userID, clientID)
	require.NoError(t, err)
	assert.Len(t, byClient, 2)
}
