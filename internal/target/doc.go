// Package target holds synthesized GrandOrgue ODF objects and reads and
// writes the ODF text format.
//
// An ODF is a flat list of [ObjectName] sections holding attribute=value
// lines. Records keep attributes in insertion order and the store keeps
// records in creation order; both orders are preserved on output.
package target
