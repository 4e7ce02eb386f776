// Package openddl parses OpenDDL documents into a queryable in-memory tree
// and validates them against caller-supplied structure rules.
//
// The grammar vocabulary is not hardcoded: Parse takes ordered identifier
// tables for custom structure and property keywords, and each keyword's
// position becomes its integer identifier. Keywords missing from the tables
// resolve to UnknownIdentifier; such structures and properties are kept in
// the document and skipped by validation, so schemas can evolve without
// breaking older consumers.
package openddl

import "github.com/jacoelho/openddl/internal/scanner"

// Parse builds a Document from OpenDDL source text. structureIdentifiers
// and propertyIdentifiers define the custom vocabulary; a keyword's
// position in its table is the identifier reported by Structure.Identifier
// and Property.Identifier.
//
// On failure Parse returns a nil Document and an *errors.ParseError whose
// message carries the 1-based source line. Parsing is atomic: there is no
// partially populated document to salvage.
func Parse(src []byte, structureIdentifiers, propertyIdentifiers []string) (*Document, error) {
	p := &parser{
		doc:          newDocument(structureIdentifiers, propertyIdentifiers),
		scan:         scanner.New(src),
		structureIDs: identifierTable(structureIdentifiers),
		propertyIDs:  identifierTable(propertyIdentifiers),
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// identifierTable maps keywords to their table positions. The first
// occurrence of a duplicated keyword wins.
func identifierTable(identifiers []string) map[string]int {
	table := make(map[string]int, len(identifiers))
	for position, keyword := range identifiers {
		if _, taken := table[keyword]; !taken {
			table[keyword] = position
		}
	}
	return table
}
