// Package match provides name normalization and edit-distance scoring.
//
// It backs the "did you mean" suggestions attached to log entries for
// unknown record types and attributes, and the token tests used to
// recognise pedal divisions by name.
package match
