package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
)

// TestPostgresStore_RoundTrip validates that a baseline document survives
// the JSONB round trip: identity, state, statistics, sample history, and
// the dedup ledger all come back intact.
func TestPostgresStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := newTestStore(t)

	patientID := "it-" + uuid.NewString()
	trackPatient(t, store, patientID)

	want := storedBaseline(patientID)
	require.NoError(t, store.Put(ctx, want), "Should store baseline")

	got, err := store.Get(ctx, patientID)
	require.NoError(t, err, "Should load baseline")

	assert.Equal(t, want.PatientID, got.PatientID)
	assert.Equal(t, want.State, got.State)
	assert.Equal(t, want.Stats, got.Stats)
	assert.Equal(t, want.SessionIDs, got.SessionIDs)
	require.Len(t, got.Samples, len(want.Samples))
	for i := range want.Samples {
		assert.Equal(t, want.Samples[i].SessionID, got.Samples[i].SessionID)
		assert.Equal(t, want.Samples[i].Features, got.Samples[i].Features)
		assert.WithinDuration(t, want.Samples[i].RecordedAt, got.Samples[i].RecordedAt, time.Second)
	}
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)
	assert.WithinDuration(t, want.UpdatedAt, got.UpdatedAt, time.Second)

	t.Logf("✅ Baseline round-tripped with %d samples", len(got.Samples))
}

// TestPostgresStore_Upsert validates that a second Put for the same patient
// replaces the stored document instead of tripping the primary key.
func TestPostgresStore_Upsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := newTestStore(t)

	patientID := "it-" + uuid.NewString()
	trackPatient(t, store, patientID)

	b := storedBaseline(patientID)
	require.NoError(t, store.Put(ctx, b))

	b.State = baseline.StateEstablished
	b.Samples = append(b.Samples, baseline.Sample{
		SessionID:  "sess-3",
		Features:   featureSample(3),
		RecordedAt: time.Now().UTC(),
	})
	b.SessionIDs = append(b.SessionIDs, "sess-3")
	b.UpdatedAt = time.Now().UTC()
	require.NoError(t, store.Put(ctx, b), "Should replace existing row")

	got, err := store.Get(ctx, patientID)
	require.NoError(t, err)
	assert.Equal(t, baseline.StateEstablished, got.State)
	assert.Len(t, got.Samples, 3)
	assert.Contains(t, got.SessionIDs, "sess-3")
}

// TestPostgresStore_MissingPatient validates the not-found contract shared
// with the in-memory store.
func TestPostgresStore_MissingPatient(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := newTestStore(t)

	absent := "it-absent-" + uuid.NewString()

	_, err := store.Get(ctx, absent)
	assert.ErrorIs(t, err, baseline.ErrBaselineNotFound)

	err = store.Delete(ctx, absent)
	assert.ErrorIs(t, err, baseline.ErrBaselineNotFound)
}

// TestPostgresStore_DeleteAndList validates row removal and patient listing
// against a shared database that may hold unrelated rows.
func TestPostgresStore_DeleteAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := newTestStore(t)

	keep := "it-keep-" + uuid.NewString()
	drop := "it-drop-" + uuid.NewString()
	trackPatient(t, store, keep)
	trackPatient(t, store, drop)

	require.NoError(t, store.Put(ctx, storedBaseline(keep)))
	require.NoError(t, store.Put(ctx, storedBaseline(drop)))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, keep)
	assert.Contains(t, ids, drop)

	require.NoError(t, store.Delete(ctx, drop))

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, keep)
	assert.NotContains(t, ids, drop)
}

// TestManager_LifecycleOverPostgres drives the full baseline lifecycle
// through the SQL store: collect seven sessions, establish, reject replays,
// stay frozen, then reset.
func TestManager_LifecycleOverPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	store := newTestStore(t)

	patientID := "it-" + uuid.NewString()
	trackPatient(t, store, patientID)

	mgr, err := baseline.NewManager(store, baseline.NewDefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	for i := 1; i <= mgr.Required(); i++ {
		b, err := mgr.Update(ctx, patientID, fmt.Sprintf("sess-%d", i), featureSample(i))
		require.NoError(t, err)
		assert.Equal(t, i, b.SampleCount())
	}

	b, err := mgr.Get(ctx, patientID)
	require.NoError(t, err)
	assert.True(t, b.Established(), "Should establish after required sessions")

	// Replaying an incorporated session is rejected outright.
	seen, err := mgr.Seen(ctx, patientID, "sess-3")
	require.NoError(t, err)
	assert.True(t, seen)

	_, err = mgr.Update(ctx, patientID, "sess-3", featureSample(3))
	assert.ErrorIs(t, err, baseline.ErrDuplicateSession)

	// A new session against the frozen baseline leaves the history alone.
	frozen, err := mgr.Update(ctx, patientID, "sess-frozen", featureSample(8))
	require.NoError(t, err)
	assert.Equal(t, b.SampleCount(), frozen.SampleCount())
	assert.False(t, frozen.Contains("sess-frozen"))

	p, err := mgr.Progress(ctx, patientID)
	require.NoError(t, err)
	assert.Equal(t, baseline.StateEstablished, p.State)
	assert.Equal(t, mgr.Required(), p.SampleCount)
	assert.Equal(t, 1.0, p.Fraction)

	t.Logf("✅ Baseline established after %d sessions", p.SampleCount)

	// Reset wipes the row; collection starts over on the next session.
	require.NoError(t, mgr.Reset(ctx, patientID))

	_, err = mgr.Get(ctx, patientID)
	assert.ErrorIs(t, err, baseline.ErrBaselineNotFound)

	p, err = mgr.Progress(ctx, patientID)
	require.NoError(t, err)
	assert.Equal(t, baseline.StateCollecting, p.State)
	assert.Zero(t, p.SampleCount)
}
