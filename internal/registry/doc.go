// Package registry maps wind supply and expression configurations to
// deduplicated target windchest groups and enclosures.
//
// A configuration is the triple (wind compartment, level control node,
// enclosure control node). Control nodes are resolved upward through
// continuous control linkages to the first control shown on screen, so
// configurations that differ only in intermediate linkage records collapse
// into one windchest group.
package registry
