// Package pipeline assembles the full movement assessment flow.
//
// One Process call takes a raw pose session through four stages: structural
// validation (fail-fast, nothing is repaired or dropped), parallel feature
// extraction, risk classification against the patient's baseline as it
// stood before the session, and finally incorporation of the session into
// that baseline. The ordering matters twice over: a rejected session must
// never touch the baseline, and a scored session must never be compared
// against statistics it just shifted.
//
// The first session of a new patient cannot be classified at all. It is
// analyzed and incorporated, and the Result carries collection progress
// with a nil Assessment; that state is deliberately distinct from a LOW
// risk score. From the second session on, every submission is scored, with
// early assessments excluding features whose spread is still zero.
//
// # Observability
//
// The service exports OpenTelemetry metrics and traces:
//   - pipeline.sessions_total (counter): Submissions by outcome
//   - pipeline.duration_seconds (histogram): End-to-end processing time
//   - pipeline.assessments_total (counter): Assessments by risk level
package pipeline
