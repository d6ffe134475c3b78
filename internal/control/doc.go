// Package control resolves control networks: the sets of switches joined
// by unconditional pass-through SwitchLinkage records that act as one
// logical switch.
package control
