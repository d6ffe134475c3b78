// Package media resolves files referenced by an organ definition: samples
// and bitmaps stored in installation package folders.
//
// Hauptwerk installation packages live in
// OrganInstallationPackages/NNNNNN/ next to the OrganDefinitions folder.
// Definitions are authored on case-insensitive file systems, so lookups
// match names without regard to case and return the on-disk spelling.
// Checking can be turned off, in which case every file is assumed present.
package media
