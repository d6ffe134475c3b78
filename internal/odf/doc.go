// Package odf checks the reference consistency of a GrandOrgue organ
// definition.
//
// Build derives the object graph of a target store: Organ owns the top
// level objects and the panels, panels own their elements and images, and
// every numbered reference attribute (Stop001=004) links its owner to the
// referenced object. Check reports what does not hold together.
package odf
