package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
	"github.com/neuromotionlabs/kinemetry/pkg/pose"
	"github.com/neuromotionlabs/kinemetry/pkg/risk"
)

const tracerName = "github.com/neuromotionlabs/kinemetry/pkg/pipeline"
const meterName = "pipeline"

// Service wires the full flow: validate, extract features, classify against
// the baseline, then incorporate the session. Classification always runs
// against the baseline as it stood before this session, so a session never
// scores against statistics it contributed to.
type Service struct {
	analyzer  *analysis.Analyzer
	baselines *baseline.Manager
	riskCfg   risk.Config
	logger    *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	sessionCounter  metric.Int64Counter
	processTime     metric.Float64Histogram
	assessmentLevel metric.Int64Counter
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRiskConfig overrides the default classification thresholds.
func WithRiskConfig(cfg risk.Config) Option {
	return func(s *Service) {
		s.riskCfg = cfg
	}
}

// New creates the pipeline service over an analyzer and a baseline manager.
func New(analyzer *analysis.Analyzer, baselines *baseline.Manager, opts ...Option) (*Service, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if baselines == nil {
		return nil, errors.New("baseline manager is required")
	}

	s := &Service{
		analyzer:  analyzer,
		baselines: baselines,
		riskCfg:   risk.NewDefaultConfig(),
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
		meter:     otel.Meter(meterName),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.riskCfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return s, nil
}

// Process runs one session through the whole pipeline.
//
// The session is validated as-is: any malformed frame rejects the entire
// submission before it can touch the baseline. A duplicate session ID is
// rejected up front for the same reason. Analysis failures
// (ErrInsufficientData) likewise leave the baseline untouched.
//
// A patient's first session has no baseline to compare against. That is
// not a failure: the session is analyzed and incorporated, and the result
// carries a nil Assessment with collection progress instead. Every later
// session is scored, even while the baseline is still collecting.
func (s *Service) Process(ctx context.Context, session *pose.Session) (*Result, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}

	ctx, span := s.tracer.Start(ctx, "pipeline.process",
		trace.WithAttributes(
			attribute.String("session.id", session.ID),
			attribute.String("patient.id", session.PatientID),
			attribute.Int("frame_count", len(session.Frames)),
		),
	)
	defer span.End()

	start := time.Now()

	if err := session.Validate(); err != nil {
		s.fail(ctx, span, "invalid_session", err)
		return nil, fmt.Errorf("session validation: %w", err)
	}

	seen, err := s.baselines.Seen(ctx, session.PatientID, session.ID)
	if err != nil {
		s.fail(ctx, span, "storage_error", err)
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if seen {
		err := fmt.Errorf("%w: %s", baseline.ErrDuplicateSession, session.ID)
		s.fail(ctx, span, "duplicate", err)
		return nil, err
	}

	analyzed, err := s.analyzer.Analyze(ctx, session)
	if err != nil {
		s.fail(ctx, span, "insufficient_data", err)
		return nil, fmt.Errorf("analysis: %w", err)
	}

	// Classify against the pre-session baseline. Absence means the patient
	// is still collecting, which the result reports explicitly.
	var assessment *risk.Assessment
	prior, err := s.baselines.Get(ctx, session.PatientID)
	if err != nil && !errors.Is(err, baseline.ErrBaselineNotFound) {
		s.fail(ctx, span, "storage_error", err)
		return nil, fmt.Errorf("baseline lookup: %w", err)
	}
	if prior != nil {
		assessment, err = risk.Classify(analyzed.Features, prior, s.riskCfg)
		if err != nil && !errors.Is(err, risk.ErrBaselineUnavailable) {
			s.fail(ctx, span, "classification_error", err)
			return nil, fmt.Errorf("classification: %w", err)
		}
	}

	updated, err := s.baselines.Update(ctx, session.PatientID, session.ID, analyzed.Features)
	if err != nil {
		outcome := "storage_error"
		if errors.Is(err, baseline.ErrDuplicateSession) {
			outcome = "duplicate"
		}
		s.fail(ctx, span, outcome, err)
		return nil, fmt.Errorf("baseline update: %w", err)
	}

	progress := updated.Progress(s.baselines.Required())
	result := &Result{
		SessionID:       session.ID,
		PatientID:       session.PatientID,
		Features:        analyzed.Features,
		RestingTremor:   analyzed.RestingTremor,
		Assessment:      assessment,
		Baseline:        progress,
		Recommendations: recommendations(analyzed.Features, assessment),
		Summary:         summarize(session, analyzed.Features, assessment, progress),
		AnalyzedAt:      time.Now().UTC(),
	}

	s.sessionCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", "ok")))
	s.processTime.Record(ctx, time.Since(start).Seconds())

	fields := []zap.Field{
		zap.String("session_id", session.ID),
		zap.String("patient_id", session.PatientID),
		zap.String("baseline_state", string(progress.State)),
	}
	if assessment != nil {
		s.assessmentLevel.Add(ctx, 1,
			metric.WithAttributes(attribute.String("level", string(assessment.Level))))
		span.SetAttributes(
			attribute.String("risk.level", string(assessment.Level)),
			attribute.Float64("risk.deviation", assessment.DeviationScore),
		)
		fields = append(fields,
			zap.String("risk_level", string(assessment.Level)),
			zap.Float64("deviation_score", assessment.DeviationScore),
			zap.Bool("needs_review", assessment.NeedsReview()),
		)
	}
	s.logger.Info("session processed", fields...)

	return result, nil
}

// fail records a failed submission on the span and the outcome counter.
func (s *Service) fail(ctx context.Context, span trace.Span, outcome string, err error) {
	span.RecordError(err)
	s.sessionCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))
	s.logger.Warn("session rejected",
		zap.String("outcome", outcome),
		zap.Error(err),
	)
}

// initMetrics initializes OpenTelemetry metrics
func (s *Service) initMetrics() error {
	var err error

	s.sessionCounter, err = s.meter.Int64Counter(
		"pipeline.sessions_total",
		metric.WithDescription("Total number of submitted sessions by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session counter: %w", err)
	}

	s.processTime, err = s.meter.Float64Histogram(
		"pipeline.duration_seconds",
		metric.WithDescription("End-to-end session processing time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create processing time histogram: %w", err)
	}

	s.assessmentLevel, err = s.meter.Int64Counter(
		"pipeline.assessments_total",
		metric.WithDescription("Total number of risk assessments by level"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create assessment counter: %w", err)
	}

	return nil
}
