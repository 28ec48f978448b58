package baseline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
)

const tracerName = "github.com/neuromotionlabs/kinemetry/pkg/baseline"
const meterName = "baseline"

// Manager owns the baseline lifecycle: collection, establishment, and
// explicit reset. All updates for one patient are serialized, so concurrent
// sessions for different patients proceed independently while a single
// patient's history stays consistent.
type Manager struct {
	store  Store
	config Config
	logger *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// Metrics
	updateCounter metric.Int64Counter
	resetCounter  metric.Int64Counter
}

// NewManager creates a manager over the given store. A nil logger disables
// logging.
func NewManager(store Store, config Config, logger *zap.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		store:  store,
		config: config,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		meter:  otel.Meter(meterName),
		locks:  make(map[string]*sync.Mutex),
	}

	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return m, nil
}

// Required returns how many sessions establish a baseline.
func (m *Manager) Required() int {
	return m.config.RequiredSessions
}

// Update incorporates one analyzed session into the patient's baseline.
//
// While collecting, the session's features are appended to the history and
// the statistics are recomputed over all samples; reaching the required
// count establishes the baseline. Once established the baseline is frozen:
// further sessions return it unchanged, unless adaptive drift is enabled,
// in which case the means (never the deviations) shift slowly toward new
// observations.
//
// A session ID that has already touched the baseline is rejected with
// ErrDuplicateSession, so retried submissions can never double-count.
func (m *Manager) Update(ctx context.Context, patientID, sessionID string, features analysis.FeatureVector) (*Baseline, error) {
	ctx, span := m.tracer.Start(ctx, "baseline.update",
		trace.WithAttributes(
			attribute.String("patient.id", patientID),
			attribute.String("session.id", sessionID),
		),
	)
	defer span.End()

	if patientID == "" {
		return nil, ErrPatientRequired
	}
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	lock := m.patientLock(patientID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()
	b, err := m.store.Get(ctx, patientID)
	switch {
	case errors.Is(err, ErrBaselineNotFound):
		b = &Baseline{PatientID: patientID, State: StateCollecting, CreatedAt: now}
	case err != nil:
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}

	if b.Contains(sessionID) {
		m.updateCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", "duplicate")))
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSession, sessionID)
	}

	var outcome string
	switch {
	case !b.Established():
		b.Samples = append(b.Samples, Sample{
			SessionID:  sessionID,
			Features:   features,
			RecordedAt: now,
		})
		b.SessionIDs = append(b.SessionIDs, sessionID)
		b.Stats = computeStats(b.Samples)
		outcome = "incorporated"
		if len(b.Samples) >= m.config.RequiredSessions {
			b.State = StateEstablished
			outcome = "established"
		}

	case m.config.Adaptive:
		b.SessionIDs = append(b.SessionIDs, sessionID)
		alpha := m.config.AdaptiveAlpha
		for name, x := range features.Map() {
			st := b.Stats[name]
			st.Mean = (1-alpha)*st.Mean + alpha*x
			b.Stats[name] = st
		}
		outcome = "adapted"

	default:
		// Frozen: the session was scored against the baseline but must
		// never shift it.
		m.updateCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", "frozen")))
		return b, nil
	}

	b.UpdatedAt = now
	if err := m.store.Put(ctx, b); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to store baseline: %w", err)
	}

	m.updateCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetAttributes(
		attribute.String("baseline.state", string(b.State)),
		attribute.Int("baseline.samples", len(b.Samples)),
	)
	m.logger.Info("baseline updated",
		zap.String("patient_id", patientID),
		zap.String("session_id", sessionID),
		zap.String("state", string(b.State)),
		zap.Int("samples", len(b.Samples)),
	)

	return b, nil
}

// Get returns the patient's baseline or ErrBaselineNotFound.
func (m *Manager) Get(ctx context.Context, patientID string) (*Baseline, error) {
	ctx, span := m.tracer.Start(ctx, "baseline.get",
		trace.WithAttributes(attribute.String("patient.id", patientID)))
	defer span.End()

	if patientID == "" {
		return nil, ErrPatientRequired
	}
	return m.store.Get(ctx, patientID)
}

// Progress reports collection progress. A patient with no stored baseline
// is simply at the start of collection, not an error.
func (m *Manager) Progress(ctx context.Context, patientID string) (Progress, error) {
	if patientID == "" {
		return Progress{}, ErrPatientRequired
	}

	b, err := m.store.Get(ctx, patientID)
	if errors.Is(err, ErrBaselineNotFound) {
		return Progress{State: StateCollecting, Required: m.config.RequiredSessions}, nil
	}
	if err != nil {
		return Progress{}, err
	}
	return b.Progress(m.config.RequiredSessions), nil
}

// Seen reports whether the session has already touched the patient's
// baseline.
func (m *Manager) Seen(ctx context.Context, patientID, sessionID string) (bool, error) {
	b, err := m.store.Get(ctx, patientID)
	if errors.Is(err, ErrBaselineNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return b.Contains(sessionID), nil
}

// Reset discards the patient's baseline entirely. Collection starts over
// with the next session. This is the only way an established baseline ever
// changes shape.
func (m *Manager) Reset(ctx context.Context, patientID string) error {
	ctx, span := m.tracer.Start(ctx, "baseline.reset",
		trace.WithAttributes(attribute.String("patient.id", patientID)))
	defer span.End()

	if patientID == "" {
		return ErrPatientRequired
	}

	lock := m.patientLock(patientID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.Delete(ctx, patientID); err != nil {
		return err
	}

	m.resetCounter.Add(ctx, 1)
	m.logger.Info("baseline reset", zap.String("patient_id", patientID))
	return nil
}

// patientLock returns the mutex serializing one patient's updates.
func (m *Manager) patientLock(patientID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[patientID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[patientID] = l
	}
	return l
}

// initMetrics initializes OpenTelemetry metrics
func (m *Manager) initMetrics() error {
	var err error

	m.updateCounter, err = m.meter.Int64Counter(
		"baseline.updates_total",
		metric.WithDescription("Total number of baseline update attempts by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create update counter: %w", err)
	}

	m.resetCounter, err = m.meter.Int64Counter(
		"baseline.resets_total",
		metric.WithDescription("Total number of baseline resets"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create reset counter: %w", err)
	}

	return nil
}
