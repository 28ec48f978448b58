package analysis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

const tracerName = "github.com/neuromotionlabs/kinemetry/pkg/analysis"
const meterName = "analysis"

// Analyzer runs the three extraction stages over validated sessions.
type Analyzer struct {
	config Config
	logger *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	sessionCounter metric.Int64Counter
	stageTime      metric.Float64Histogram
	stageErrors    metric.Int64Counter
}

// NewAnalyzer creates an analyzer with the given tuning. A nil logger
// disables logging.
func NewAnalyzer(config Config, logger *zap.Logger) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Analyzer{
		config: config,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		meter:  otel.Meter(meterName),
	}

	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return a, nil
}

// Config returns the tuning the analyzer was built with.
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze runs gait, tremor, and bradykinesia extraction in parallel and
// assembles the feature vector once all three complete. The session must
// already have passed pose.Session.Validate; identical input always yields
// an identical result.
//
// If any stage cannot compute its features the whole analysis fails with
// ErrInsufficientData, so a vector is either complete or absent.
func (a *Analyzer) Analyze(ctx context.Context, session *pose.Session) (*Result, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.analyze_session",
		trace.WithAttributes(
			attribute.String("session.id", session.ID),
			attribute.Int("frame_count", len(session.Frames)),
			attribute.Float64("video_duration_s", session.VideoDuration),
		),
	)
	defer span.End()

	var (
		gait    GaitMetrics
		tremor  TremorMetrics
		resting RestingTremor
		brady   float64
	)

	// Stages write disjoint variables; g.Wait orders them before the reads
	// below.
	var g errgroup.Group
	g.Go(a.stage(ctx, "gait", func() error {
		m, err := AnalyzeGait(session, a.config.Gait)
		if err != nil {
			return err
		}
		gait = m
		return nil
	}))
	g.Go(a.stage(ctx, "tremor", func() error {
		m, err := AnalyzeTremor(session, a.config.Tremor)
		if err != nil {
			return err
		}
		tremor = m
		resting = DetectRestingTremor(session, a.config.Tremor)
		return nil
	}))
	g.Go(a.stage(ctx, "bradykinesia", func() error {
		score, err := ScoreBradykinesia(session, a.config.Bradykinesia)
		if err != nil {
			return err
		}
		brady = score
		return nil
	}))

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		a.sessionCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", "insufficient_data")))
		return nil, err
	}

	result := &Result{
		Features: FeatureVector{
			StrideLength:      gait.StrideLength,
			Cadence:           gait.Cadence,
			GaitSymmetry:      gait.Symmetry,
			TremorFrequency:   tremor.Frequency,
			TremorAmplitude:   tremor.Amplitude,
			BradykinesiaScore: brady,
		},
		RestingTremor: resting,
	}

	span.SetAttributes(
		attribute.Float64("stride_length", result.Features.StrideLength),
		attribute.Float64("cadence", result.Features.Cadence),
		attribute.Float64("gait_symmetry", result.Features.GaitSymmetry),
		attribute.Float64("tremor_frequency", result.Features.TremorFrequency),
		attribute.Float64("bradykinesia_score", result.Features.BradykinesiaScore),
		attribute.Int("heel_strikes", gait.HeelStrikes),
	)
	a.sessionCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", "ok")))

	a.logger.Debug("session analyzed",
		zap.String("session_id", session.ID),
		zap.Int("heel_strikes", gait.HeelStrikes),
		zap.Float64("cadence", result.Features.Cadence),
		zap.Float64("tremor_frequency", result.Features.TremorFrequency),
		zap.Bool("resting_tremor", resting.Present),
	)

	return result, nil
}

// stage wraps one extraction stage with timing and error metrics.
func (a *Analyzer) stage(ctx context.Context, name string, fn func() error) func() error {
	return func() error {
		start := time.Now()
		err := fn()
		a.stageTime.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", name)))
		if err != nil {
			a.stageErrors.Add(ctx, 1,
				metric.WithAttributes(attribute.String("stage", name)))
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// initMetrics initializes OpenTelemetry metrics
func (a *Analyzer) initMetrics() error {
	var err error

	a.sessionCounter, err = a.meter.Int64Counter(
		"analysis.sessions_total",
		metric.WithDescription("Total number of sessions analyzed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session counter: %w", err)
	}

	a.stageTime, err = a.meter.Float64Histogram(
		"analysis.stage_duration_seconds",
		metric.WithDescription("Time spent in each extraction stage"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create stage time histogram: %w", err)
	}

	a.stageErrors, err = a.meter.Int64Counter(
		"analysis.stage_errors_total",
		metric.WithDescription("Total number of extraction stage failures"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create stage errors counter: %w", err)
	}

	return nil
}
