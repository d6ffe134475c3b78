// Package common holds small generic helpers shared by the converter
// packages: slice accessors, numeric range checks, zero-padded identifiers
// and Y/N flag parsing.
package common
