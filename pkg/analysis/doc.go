// Package analysis extracts movement features from validated pose sessions.
//
// Three independent stages run over the same session and together produce a
// FeatureVector: gait (stride length, cadence, symmetry from the ankle
// trajectories), tremor (dominant wrist oscillation frequency and amplitude
// from a Hann-windowed FFT), and bradykinesia (whole-body movement slowness
// on [0, 1]). The stages share no state and the Analyzer runs them in
// parallel; the vector is assembled only once all three succeed.
//
// # Determinism
//
// Extraction is pure: the same session bytes always produce the same
// feature vector, with no clocks, randomness, or external calls. This is a
// clinical requirement, since reanalyzing a stored recording must reproduce
// the assessment that was originally reported.
//
// # Insufficient data
//
// A session can be structurally valid yet carry too little signal to
// analyze: too few frames, zero video duration, low detection confidence,
// non-uniform frame spacing, or a recording too short to resolve the tremor
// band. These fail with an error wrapping ErrInsufficientData rather than
// degrade into zeros, so a caller can always tell "no tremor" apart from
// "could not measure tremor". A quiet tremor spectrum or a motionless gait,
// by contrast, are valid results, not errors.
//
// # Usage
//
//	analyzer, err := analysis.NewAnalyzer(analysis.NewDefaultConfig(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := analyzer.Analyze(ctx, session)
//	if errors.Is(err, analysis.ErrInsufficientData) {
//	    // Re-record; the session cannot be scored.
//	}
//	fmt.Printf("cadence %.1f steps/min, tremor %.1f Hz\n",
//	    result.Features.Cadence, result.Features.TremorFrequency)
//
// The stage functions AnalyzeGait, AnalyzeTremor, and ScoreBradykinesia are
// exported for callers that want a single feature family without the
// service wrapper.
//
// # Observability
//
// The Analyzer exports OpenTelemetry metrics and traces:
//   - analysis.sessions_total (counter): Sessions analyzed by outcome
//   - analysis.stage_duration_seconds (histogram): Per-stage processing time
//   - analysis.stage_errors_total (counter): Stage failures by stage
package analysis
