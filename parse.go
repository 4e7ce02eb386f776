package openddl

import (
	"math"
	"strconv"
	"strings"

	"github.com/jacoelho/openddl/errors"
	"github.com/jacoelho/openddl/internal/scanner"
)

// parser builds a Document directly from scanner tokens in a single pass,
// with one token of lookahead.
type parser struct {
	doc          *Document
	scan         *scanner.Scanner
	tok          scanner.Token
	structureIDs map[string]int
	propertyIDs  map[string]int
}

func (p *parser) advance() error {
	tok, err := p.scan.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.NewParse(p.tok.Line, format, args...)
}

func (p *parser) expect(kind scanner.Kind, message string) error {
	if p.tok.Kind != kind {
		return p.errorf("%s", message)
	}
	return p.advance()
}

func (p *parser) parseDocument() error {
	last := 0
	for p.tok.Kind != scanner.EOF {
		if p.tok.Kind != scanner.Identifier {
			return p.errorf("invalid identifier")
		}
		index, err := p.parseStructure(0)
		if err != nil {
			return err
		}
		p.link(0, &last, index)
	}
	return nil
}

// link appends a freshly parsed structure to its parent's child chain.
func (p *parser) link(parent int, last *int, index int) {
	if *last == 0 {
		p.doc.structures[parent].firstChild = index
	} else {
		p.doc.structures[*last].next = index
	}
	*last = index
}

// parseStructure dispatches on the current identifier token: a type keyword
// starts a primitive structure, anything else a custom one.
func (p *parser) parseStructure(parent int) (int, error) {
	if typ, ok := typeForKeyword(p.tok.Text); ok {
		return p.parsePrimitive(parent, typ)
	}
	return p.parseCustom(parent)
}

// allocStructure appends a new record to the structure arena and registers
// its name for reference resolution. First occurrence of a name wins.
func (p *parser) allocStructure(rec structureData) int {
	index := len(p.doc.structures)
	p.doc.structures = append(p.doc.structures, rec)
	if rec.name != 0 {
		name := p.doc.strings[rec.name]
		if _, taken := p.doc.named[name]; !taken {
			p.doc.named[name] = index
		}
	}
	return index
}

func (p *parser) parseName() (int, error) {
	if p.tok.Kind != scanner.Name {
		return 0, nil
	}
	index := len(p.doc.strings)
	p.doc.strings = append(p.doc.strings, p.tok.Text)
	return index, p.advance()
}

func (p *parser) parsePrimitive(parent int, typ Type) (int, error) {
	if err := p.advance(); err != nil {
		return 0, err
	}

	subArraySize := 0
	if p.tok.Kind == scanner.BracketOpen {
		if err := p.advance(); err != nil {
			return 0, err
		}
		size, ok := p.subArraySizeValue()
		if !ok {
			return 0, p.errorf("invalid subarray size")
		}
		subArraySize = size
		if err := p.advance(); err != nil {
			return 0, err
		}
		if err := p.expect(scanner.BracketClose, "expected ] character"); err != nil {
			return 0, err
		}
	}

	name, err := p.parseName()
	if err != nil {
		return 0, err
	}

	if err := p.expect(scanner.BraceOpen, "expected { character"); err != nil {
		return 0, err
	}

	index := p.allocStructure(structureData{
		typ:          typ,
		name:         name,
		parent:       parent,
		begin:        p.doc.dataLen(typ),
		subArraySize: subArraySize,
	})

	size, err := p.parsePrimitiveList(typ, subArraySize)
	if err != nil {
		return 0, err
	}
	p.doc.structures[index].size = size
	return index, nil
}

func (p *parser) subArraySizeValue() (int, bool) {
	if p.tok.Kind != scanner.Number || p.tok.Float {
		return 0, false
	}
	size, err := strconv.Atoi(p.tok.Text)
	if err != nil || size <= 0 {
		return 0, false
	}
	return size, true
}

// parsePrimitiveList consumes the braced value list of a primitive
// structure, the opening brace already consumed, and returns the total
// element count. With a declared sub-array size the list is comma-separated
// groups of exactly that many values.
func (p *parser) parsePrimitiveList(typ Type, subArraySize int) (int, error) {
	if p.tok.Kind == scanner.BraceClose {
		return 0, p.advance()
	}

	size := 0
	for {
		if subArraySize > 0 {
			if err := p.expect(scanner.BraceOpen, "expected { character"); err != nil {
				return 0, err
			}
			for i := 0; i < subArraySize; i++ {
				if i > 0 {
					if p.tok.Kind != scanner.Comma {
						return 0, p.errorf("expected , character")
					}
					if err := p.advance(); err != nil {
						return 0, err
					}
				}
				if err := p.parseValue(typ); err != nil {
					return 0, err
				}
			}
			if err := p.expect(scanner.BraceClose, "expected } character"); err != nil {
				return 0, err
			}
			size += subArraySize
		} else {
			if err := p.parseValue(typ); err != nil {
				return 0, err
			}
			size++
		}

		switch p.tok.Kind {
		case scanner.Comma:
			if err := p.advance(); err != nil {
				return 0, err
			}
		case scanner.BraceClose:
			return size, p.advance()
		case scanner.EOF:
			return 0, p.errorf("expected } character")
		default:
			return 0, p.errorf("expected , character")
		}
	}
}

// parseValue consumes one primitive value of the given type and appends it
// to the matching data array.
func (p *parser) parseValue(typ Type) error {
	switch typ {
	case TypeBool:
		if p.tok.Kind != scanner.Identifier {
			return p.errorf("invalid literal")
		}
		switch p.tok.Text {
		case "true":
			p.doc.bools = append(p.doc.bools, true)
		case "false":
			p.doc.bools = append(p.doc.bools, false)
		default:
			return p.errorf("invalid literal")
		}

	case TypeUnsignedByte, TypeUnsignedShort, TypeUnsignedInt, TypeUnsignedLong:
		mag, ok := p.unsignedValue(unsignedBits(typ))
		if !ok {
			return p.errorf("invalid literal")
		}
		switch typ {
		case TypeUnsignedByte:
			p.doc.unsignedBytes = append(p.doc.unsignedBytes, uint8(mag))
		case TypeUnsignedShort:
			p.doc.unsignedShorts = append(p.doc.unsignedShorts, uint16(mag))
		case TypeUnsignedInt:
			p.doc.unsignedInts = append(p.doc.unsignedInts, uint32(mag))
		case TypeUnsignedLong:
			p.doc.unsignedLongs = append(p.doc.unsignedLongs, mag)
		}

	case TypeByte, TypeShort, TypeInt, TypeLong:
		value, ok := p.signedValue(signedBits(typ))
		if !ok {
			return p.errorf("invalid literal")
		}
		switch typ {
		case TypeByte:
			p.doc.bytes = append(p.doc.bytes, int8(value))
		case TypeShort:
			p.doc.shorts = append(p.doc.shorts, int16(value))
		case TypeInt:
			p.doc.ints = append(p.doc.ints, int32(value))
		case TypeLong:
			p.doc.longs = append(p.doc.longs, value)
		}

	case TypeFloat:
		value, ok := p.floatValue(32)
		if !ok {
			return p.errorf("invalid literal")
		}
		p.doc.floats = append(p.doc.floats, float32(value))

	case TypeDouble:
		value, ok := p.floatValue(64)
		if !ok {
			return p.errorf("invalid literal")
		}
		p.doc.doubles = append(p.doc.doubles, value)

	case TypeString:
		if p.tok.Kind != scanner.String {
			return p.errorf("invalid literal")
		}
		p.doc.strings = append(p.doc.strings, p.tok.Text)

	case TypeReference:
		switch {
		case p.tok.Kind == scanner.Name:
			p.doc.references = append(p.doc.references, p.tok.Text)
		case p.tok.Kind == scanner.Identifier && p.tok.Text == "null":
			p.doc.references = append(p.doc.references, "null")
		default:
			return p.errorf("invalid literal")
		}
	}

	return p.advance()
}

func unsignedBits(typ Type) int {
	switch typ {
	case TypeUnsignedByte:
		return 8
	case TypeUnsignedShort:
		return 16
	case TypeUnsignedInt:
		return 32
	}
	return 64
}

func signedBits(typ Type) int {
	switch typ {
	case TypeByte:
		return 8
	case TypeShort:
		return 16
	case TypeInt:
		return 32
	}
	return 64
}

// integerParts splits an integer literal into sign and magnitude, accepting
// decimal, hex, and binary forms.
func integerParts(text string) (negative bool, magnitude uint64, ok bool) {
	switch {
	case strings.HasPrefix(text, "-"):
		negative = true
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base, text = 16, text[2:]
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		base, text = 2, text[2:]
	}
	magnitude, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return false, 0, false
	}
	return negative, magnitude, true
}

// unsignedValue reads the current token as an unsigned integer of the given
// width. Character literals are accepted.
func (p *parser) unsignedValue(bits int) (uint64, bool) {
	var negative bool
	var magnitude uint64
	switch p.tok.Kind {
	case scanner.Number:
		if p.tok.Float {
			return 0, false
		}
		var ok bool
		negative, magnitude, ok = integerParts(p.tok.Text)
		if !ok {
			return 0, false
		}
	case scanner.Char:
		if p.tok.Value < 0 {
			negative, magnitude = true, uint64(-p.tok.Value)
		} else {
			magnitude = uint64(p.tok.Value)
		}
	default:
		return 0, false
	}
	if negative && magnitude != 0 {
		return 0, false
	}
	if bits < 64 && magnitude > uint64(1)<<bits-1 {
		return 0, false
	}
	return magnitude, true
}

// signedValue reads the current token as a signed integer of the given
// width. Character literals are accepted.
func (p *parser) signedValue(bits int) (int64, bool) {
	var negative bool
	var magnitude uint64
	switch p.tok.Kind {
	case scanner.Number:
		if p.tok.Float {
			return 0, false
		}
		var ok bool
		negative, magnitude, ok = integerParts(p.tok.Text)
		if !ok {
			return 0, false
		}
	case scanner.Char:
		return p.tok.Value, true
	default:
		return 0, false
	}
	limit := uint64(1) << (bits - 1)
	if negative {
		if magnitude > limit {
			return 0, false
		}
		return -int64(magnitude), true
	}
	if magnitude > limit-1 {
		return 0, false
	}
	return int64(magnitude), true
}

// floatValue reads the current token as a float of the given width. Decimal
// integer literals convert; hex and binary literals are IEEE bit patterns.
func (p *parser) floatValue(bits int) (float64, bool) {
	if p.tok.Kind != scanner.Number {
		return 0, false
	}
	text := p.tok.Text
	if strings.ContainsAny(text, "xXbB") {
		_, magnitude, ok := integerParts(text)
		if !ok || strings.HasPrefix(text, "-") || strings.HasPrefix(text, "+") {
			return 0, false
		}
		if bits == 32 {
			if magnitude > math.MaxUint32 {
				return 0, false
			}
			return float64(math.Float32frombits(uint32(magnitude))), true
		}
		return math.Float64frombits(magnitude), true
	}
	value, err := strconv.ParseFloat(text, bits)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (p *parser) parseCustom(parent int) (int, error) {
	identifier, ok := p.structureIDs[p.tok.Text]
	if !ok {
		identifier = UnknownIdentifier
	}
	if err := p.advance(); err != nil {
		return 0, err
	}

	name, err := p.parseName()
	if err != nil {
		return 0, err
	}

	index := p.allocStructure(structureData{
		typ:           TypeCustom,
		identifier:    identifier,
		name:          name,
		parent:        parent,
		propertyBegin: len(p.doc.properties),
	})

	if p.tok.Kind == scanner.ParenOpen {
		if err := p.parsePropertyList(index); err != nil {
			return 0, err
		}
	}

	if err := p.expect(scanner.BraceOpen, "expected { character"); err != nil {
		return 0, err
	}

	last := 0
	for p.tok.Kind != scanner.BraceClose {
		if p.tok.Kind == scanner.EOF {
			return 0, p.errorf("expected } character")
		}
		if p.tok.Kind != scanner.Identifier {
			return 0, p.errorf("invalid identifier")
		}
		child, err := p.parseStructure(index)
		if err != nil {
			return 0, err
		}
		p.link(index, &last, child)
	}
	return index, p.advance()
}

// parsePropertyList consumes a parenthesized property list, the opening
// parenthesis still current. Duplicate identifiers are kept in source
// order.
func (p *parser) parsePropertyList(index int) error {
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.Kind == scanner.ParenClose {
		return p.advance()
	}

	for {
		if p.tok.Kind != scanner.Identifier {
			return p.errorf("invalid identifier")
		}
		identifier, ok := p.propertyIDs[p.tok.Text]
		if !ok {
			identifier = UnknownIdentifier
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expect(scanner.Equals, "expected = character"); err != nil {
			return err
		}
		if err := p.parsePropertyValue(identifier); err != nil {
			return err
		}
		p.doc.structures[index].propertyCount++

		switch p.tok.Kind {
		case scanner.Comma:
			if err := p.advance(); err != nil {
				return err
			}
		case scanner.ParenClose:
			return p.advance()
		case scanner.EOF:
			return p.errorf("expected ) character")
		default:
			return p.errorf("expected , character")
		}
	}
}

// parsePropertyValue infers the value type from the literal form, appends
// the value to the matching data array, and records the property.
func (p *parser) parsePropertyValue(identifier int) error {
	rec := propertyData{identifier: identifier}

	switch p.tok.Kind {
	case scanner.Identifier:
		switch p.tok.Text {
		case "true", "false":
			rec.typ, rec.begin = TypeBool, len(p.doc.bools)
			p.doc.bools = append(p.doc.bools, p.tok.Text == "true")
		case "null":
			rec.typ, rec.begin = TypeReference, len(p.doc.references)
			p.doc.references = append(p.doc.references, "null")
		default:
			return p.errorf("invalid property value")
		}
	case scanner.Number:
		if p.tok.Float {
			value, err := strconv.ParseFloat(p.tok.Text, 32)
			if err != nil {
				return p.errorf("invalid property value")
			}
			rec.typ, rec.begin = TypeFloat, len(p.doc.floats)
			p.doc.floats = append(p.doc.floats, float32(value))
		} else {
			value, ok := p.signedValue(64)
			if !ok {
				return p.errorf("invalid property value")
			}
			rec.typ, rec.begin = TypeLong, len(p.doc.longs)
			p.doc.longs = append(p.doc.longs, value)
		}
	case scanner.Char:
		rec.typ, rec.begin = TypeLong, len(p.doc.longs)
		p.doc.longs = append(p.doc.longs, p.tok.Value)
	case scanner.String:
		rec.typ, rec.begin = TypeString, len(p.doc.strings)
		p.doc.strings = append(p.doc.strings, p.tok.Text)
	case scanner.Name:
		rec.typ, rec.begin = TypeReference, len(p.doc.references)
		p.doc.references = append(p.doc.references, p.tok.Text)
	default:
		return p.errorf("invalid property value")
	}

	p.doc.properties = append(p.doc.properties, rec)
	return p.advance()
}

// dataLen returns the current length of the data array for a primitive
// type, used as the begin index of a new structure.
func (d *Document) dataLen(typ Type) int {
	switch typ {
	case TypeBool:
		return len(d.bools)
	case TypeUnsignedByte:
		return len(d.unsignedBytes)
	case TypeByte:
		return len(d.bytes)
	case TypeUnsignedShort:
		return len(d.unsignedShorts)
	case TypeShort:
		return len(d.shorts)
	case TypeUnsignedInt:
		return len(d.unsignedInts)
	case TypeInt:
		return len(d.ints)
	case TypeUnsignedLong:
		return len(d.unsignedLongs)
	case TypeLong:
		return len(d.longs)
	case TypeFloat:
		return len(d.floats)
	case TypeDouble:
		return len(d.doubles)
	case TypeString:
		return len(d.strings)
	case TypeReference:
		return len(d.references)
	}
	return 0
}
