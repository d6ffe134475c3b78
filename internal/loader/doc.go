// Package loader parses a Hauptwerk organ definition into a source.Store.
//
// The document is an XML envelope <Hauptwerk FileFormat="Organ"> holding
// <ObjectList ObjectType="..."> groups. Each group lists element blocks,
// either compressed <o> blocks with abbreviated tags or blocks named after
// the record type with full attribute names. Tags are expanded through the
// lookup table, record ids are taken from the configured id attribute or
// synthesized, and the parsed records replace the store contents only once
// the whole document was read.
package loader
