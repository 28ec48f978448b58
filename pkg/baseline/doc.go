// Package baseline learns each patient's normal movement profile.
//
// Every analyzed session feeds a per-patient baseline that starts in the
// collecting state. Once the required number of sessions has been
// incorporated (seven by default) the baseline is established: per-feature
// means and population standard deviations are frozen and later sessions
// are scored against them without shifting them. The only way an
// established baseline changes is an explicit Reset, or slow drift of the
// means when adaptive mode is deliberately enabled.
//
// Statistics are recomputed over the complete sample history on every
// update, so incorporation order never affects the established baseline.
// Each session may touch a baseline exactly once: resubmitting a session ID
// fails with ErrDuplicateSession instead of double-counting.
//
// Storage is pluggable through the Store interface. MemoryStore serves
// tests and single-process use; PostgresStore persists baselines as JSONB
// rows keyed by patient.
package baseline
