package baseline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m, err := NewManager(NewMemoryStore(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return m
}

// vec builds a feature vector whose stride varies with the seed so sessions
// are distinguishable.
func vec(seed float64) analysis.FeatureVector {
	return analysis.FeatureVector{
		StrideLength:      0.10 + 0.01*seed,
		Cadence:           110 + seed,
		GaitSymmetry:      0.92,
		TremorFrequency:   5.0,
		TremorAmplitude:   0.01,
		BradykinesiaScore: 0.40,
	}
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(nil, NewDefaultConfig(), nil)
	assert.Error(t, err)

	bad := NewDefaultConfig()
	bad.RequiredSessions = 1
	_, err = NewManager(NewMemoryStore(), bad, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestManager_Update_CollectsUntilEstablished(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	for i := 1; i <= 6; i++ {
		b, err := m.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(float64(i)))
		require.NoError(t, err)
		assert.Equal(t, StateCollecting, b.State)
		assert.Len(t, b.Samples, i)
	}

	b, err := m.Update(ctx, "p1", "s7", vec(7))
	require.NoError(t, err)
	assert.Equal(t, StateEstablished, b.State)
	assert.Len(t, b.Samples, 7)

	p, err := m.Progress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StateEstablished, p.State)
	assert.Equal(t, 7, p.SampleCount)
	assert.InDelta(t, 1.0, p.Fraction, 1e-12)
}

func TestManager_Update_DuplicateSessionRejected(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	_, err := m.Update(ctx, "p1", "s1", vec(1))
	require.NoError(t, err)

	_, err = m.Update(ctx, "p1", "s1", vec(99))
	assert.ErrorIs(t, err, ErrDuplicateSession)

	b, err := m.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, b.Samples, 1)
	assert.Equal(t, vec(1), b.Samples[0].Features)
}

func TestManager_Update_OrderIndependent(t *testing.T) {
	ctx := context.Background()
	forward := newTestManager(t, NewDefaultConfig())
	reverse := newTestManager(t, NewDefaultConfig())

	for i := 1; i <= 7; i++ {
		_, err := forward.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(float64(i)))
		require.NoError(t, err)
	}
	for i := 7; i >= 1; i-- {
		_, err := reverse.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(float64(i)))
		require.NoError(t, err)
	}

	fb, err := forward.Get(ctx, "p1")
	require.NoError(t, err)
	rb, err := reverse.Get(ctx, "p1")
	require.NoError(t, err)

	require.Equal(t, StateEstablished, fb.State)
	require.Equal(t, StateEstablished, rb.State)
	for _, name := range analysis.FeatureNames() {
		assert.InDelta(t, fb.Stats[name].Mean, rb.Stats[name].Mean, 1e-9, name)
		assert.InDelta(t, fb.Stats[name].Std, rb.Stats[name].Std, 1e-9, name)
	}
}

func TestManager_Update_FrozenAfterEstablished(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	for i := 1; i <= 7; i++ {
		_, err := m.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(float64(i)))
		require.NoError(t, err)
	}
	before, err := m.Get(ctx, "p1")
	require.NoError(t, err)

	// A wildly abnormal session is scored against the baseline but must
	// not move it.
	outlier := analysis.FeatureVector{StrideLength: 5, Cadence: 500, BradykinesiaScore: 1}
	b, err := m.Update(ctx, "p1", "s8", outlier)
	require.NoError(t, err)
	assert.Equal(t, before.Stats, b.Stats)

	after, err := m.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, before.Stats, after.Stats)
	assert.Len(t, after.Samples, 7)
}

func TestManager_Update_AdaptiveDriftsMeansOnly(t *testing.T) {
	ctx := context.Background()
	cfg := NewDefaultConfig()
	cfg.Adaptive = true
	m := newTestManager(t, cfg)

	// Identical sessions establish a baseline with zero spread.
	for i := 1; i <= 7; i++ {
		_, err := m.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(3))
		require.NoError(t, err)
	}
	before, err := m.Get(ctx, "p1")
	require.NoError(t, err)

	shifted := vec(3)
	shifted.StrideLength += 1.0
	b, err := m.Update(ctx, "p1", "s8", shifted)
	require.NoError(t, err)

	wantMean := before.Stats[analysis.FeatureStrideLength].Mean + 0.1
	assert.InDelta(t, wantMean, b.Stats[analysis.FeatureStrideLength].Mean, 1e-9)
	assert.Equal(t, before.Stats[analysis.FeatureStrideLength].Std,
		b.Stats[analysis.FeatureStrideLength].Std)

	// The adapted session still counts as seen.
	_, err = m.Update(ctx, "p1", "s8", shifted)
	assert.ErrorIs(t, err, ErrDuplicateSession)
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	for i := 1; i <= 7; i++ {
		_, err := m.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(float64(i)))
		require.NoError(t, err)
	}

	require.NoError(t, m.Reset(ctx, "p1"))

	_, err := m.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrBaselineNotFound)

	p, err := m.Progress(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StateCollecting, p.State)
	assert.Zero(t, p.SampleCount)

	// Collection starts over, and previously used session IDs are allowed
	// again.
	b, err := m.Update(ctx, "p1", "s1", vec(1))
	require.NoError(t, err)
	assert.Equal(t, StateCollecting, b.State)
	assert.Len(t, b.Samples, 1)
}

func TestManager_Reset_Unknown(t *testing.T) {
	m := newTestManager(t, NewDefaultConfig())
	assert.ErrorIs(t, m.Reset(context.Background(), "ghost"), ErrBaselineNotFound)
}

func TestManager_Seen(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	seen, err := m.Seen(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = m.Update(ctx, "p1", "s1", vec(1))
	require.NoError(t, err)

	seen, err = m.Seen(ctx, "p1", "s1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestManager_Update_IdentityRequired(t *testing.T) {
	m := newTestManager(t, NewDefaultConfig())

	_, err := m.Update(context.Background(), "", "s1", vec(1))
	assert.ErrorIs(t, err, ErrPatientRequired)

	_, err = m.Update(context.Background(), "p1", "", vec(1))
	assert.ErrorIs(t, err, ErrSessionRequired)
}

func TestManager_ConcurrentSamePatient(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	var g errgroup.Group
	for i := 1; i <= 7; i++ {
		g.Go(func() error {
			_, err := m.Update(ctx, "p1", fmt.Sprintf("s%d", i), vec(float64(i)))
			return err
		})
	}
	require.NoError(t, g.Wait())

	b, err := m.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StateEstablished, b.State)
	assert.Len(t, b.Samples, 7)
	assert.Len(t, b.SessionIDs, 7)
}

func TestManager_ConcurrentDistinctPatients(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, NewDefaultConfig())

	var g errgroup.Group
	for p := 0; p < 8; p++ {
		patient := fmt.Sprintf("p%d", p)
		g.Go(func() error {
			for i := 1; i <= 7; i++ {
				if _, err := m.Update(ctx, patient, fmt.Sprintf("%s-s%d", patient, i), vec(float64(i))); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ids, err := m.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 8)
	for _, id := range ids {
		b, err := m.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, StateEstablished, b.State)
	}
}
