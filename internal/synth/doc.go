// Package synth converts a linked source store into GrandOrgue objects.
//
// The Synthesizer runs a fixed sequence of phases:
//
//  1. general record -> Organ
//  2. display pages -> panels, static images, text labels
//  3. keyboards and divisions -> manuals
//  4. keyboard to keyboard key actions -> couplers
//  5. stops with pipe ranks -> stops and deduplicated ranks
//  6. noise stop ranks and switch driven pipes -> noise stops
//  7. clickable switches not yet used -> switches
//  8. tremulants
//  9. counts, then removal of bookkeeping attributes
//
// Every device goes through the control network of its gating switch. A
// device whose gating switch does not resolve to any switch can never sound,
// so it is dropped. A reached switch is kept even when it is neither
// clickable nor engaged by default: crescendo stages and conditional
// linkages may still drive it.
package synth
