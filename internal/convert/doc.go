// Package convert runs the conversion pipeline: load the source document,
// link its records, synthesize the target objects and write the result.
package convert
