// Package dictionary loads the static lookup table of the source schema.
//
// The table maps every Hauptwerk record type to the attribute holding its
// numeric id and to the expansion of the abbreviated tags found in
// compressed element blocks. A default table is embedded in the binary; a
// custom sidecar can be loaded with LoadFile.
package dictionary
