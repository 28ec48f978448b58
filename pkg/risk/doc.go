// Package risk classifies analyzed sessions against per-patient baselines.
//
// Classification is a stateless comparison: each feature's absolute z-score
// against the patient's own baseline, averaged into a deviation score, then
// mapped through two thresholds. Below the medium threshold is LOW, at or
// above it MEDIUM, at or above the high threshold HIGH. Both boundaries
// classify upward.
//
// Any baseline holding at least one sample is scorable, including one still
// collecting. A patient with no baseline data at all cannot be classified;
// ErrBaselineUnavailable keeps that case structurally separate from LOW so
// missing data can never masquerade as a healthy result.
package risk
