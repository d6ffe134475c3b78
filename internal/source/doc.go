// Package source holds the parsed records of a Hauptwerk organ definition.
//
// A Record is identified by its type name and a numeric id; the Store keeps
// every record of one run and the bidirectional parent/child edges between
// them. Attribute access goes through the Field table in fields.go, which
// declares for every attribute the converter reads whether it is required
// and what its default is.
package source
