// Package link builds the bidirectional edge graph of a loaded source store.
//
// Edges come from an ordered, declarative rule table: a rule names a record
// type, one of its integer attributes, the record type the attribute points
// to, and whether the referenced record becomes the parent or the child.
// Derived rules then follow existing edges to connect records that only
// relate indirectly, and a final pass hangs parentless top-level records
// under the general record.
package link
