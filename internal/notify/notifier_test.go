package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *[]Notification, *time.Time) {
	var got []Notification
	now := time.Unix(1700000000, 0)
	s := NewService(SinkFunc(func(n Notification) { got = append(got, n) }))
	s.now = func() time.Time { return now }
	return s, &got, &now
}

func TestSuccessDeduplicatesWithinWindow(t *testing.T) {
	s, got, now := newTestService()

	assert.True(t, s.Success(TrainingPlanCreated, "p1", "Piano creato", "ok"))
	assert.False(t, s.Success(TrainingPlanCreated, "p1", "Piano creato", "ok"),
		"immediate repeat must be suppressed")
	require.Len(t, *got, 1)

	// A different entity is not a repeat.
	assert.True(t, s.Success(TrainingPlanCreated, "p2", "Piano creato", "ok"))
	// Nor is a different kind on the same entity.
	assert.True(t, s.Success(TrainingPlanUpdated, "p1", "Piano aggiornato", "ok"))
	require.Len(t, *got, 3)

	// Past the window the same notification fires again.
	*now = now.Add(3 * time.Second)
	assert.True(t, s.Success(TrainingPlanCreated, "p1", "Piano creato", "ok"))
	require.Len(t, *got, 4)
}

func TestErrorNeverDeduplicated(t *testing.T) {
	s, got, _ := newTestService()

	s.Error("Errore", "fallito")
	s.Error("Errore", "fallito")
	require.Len(t, *got, 2)
	assert.Equal(t, VariantDestructive, (*got)[0].Variant)
}

func TestSweepDropsOldEntries(t *testing.T) {
	s, _, now := newTestService()

	s.Success(ClientCreated, "c1", "t", "m")
	*now = now.Add(15 * time.Second)
	// Any emission sweeps entries older than sweepAfter.
	s.Success(ClientCreated, "c2", "t", "m")
	assert.NotContains(t, s.recent, "client-created-c1")
	assert.Contains(t, s.recent, "client-created-c2")
}
