// Package diagnostic provides the run-scoped log of a conversion.
//
// Entries are kept in insertion order and carry one of four severities:
//   - Info: counts and phase banners
//   - Warning: recoverable data-quality problems
//   - Error: conditions that failed the run
//   - Internal: invariant violations inside the converter
//
// Every entry can be mirrored to a *slog.Logger as it is added.
package diagnostic
