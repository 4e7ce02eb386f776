package openddl

import "math"

// Property is a lightweight read-only view of one key/value pair attached
// to a custom structure. Like Structure it only references data owned by
// the Document and must not outlive it.
type Property struct {
	doc   *Document
	index int
}

func (p Property) rec() *propertyData {
	return &p.doc.properties[p.index]
}

// Identifier returns the property identifier resolved against the caller's
// property identifier table, or UnknownIdentifier.
func (p Property) Identifier() int {
	return p.rec().identifier
}

// Type returns the storage type of the property value. Integral literals
// are stored as TypeLong regardless of magnitude.
func (p Property) Type() Type {
	return p.rec().typ
}

// IsTypeCompatibleWith reports whether the parsed value can satisfy a
// property of the given declared type. Integral values widen to any integer
// type and to float/double; float values widen to double; bool, string and
// reference values match only themselves.
func (p Property) IsTypeCompatibleWith(t PropertyType) bool {
	switch p.rec().typ {
	case TypeBool:
		return t == PropertyBool
	case TypeLong:
		switch t {
		case PropertyUnsignedByte, PropertyByte, PropertyUnsignedShort, PropertyShort,
			PropertyUnsignedInt, PropertyInt, PropertyUnsignedLong, PropertyLong,
			PropertyFloat, PropertyDouble:
			return true
		}
		return false
	case TypeFloat:
		return t == PropertyFloat || t == PropertyDouble
	case TypeString:
		return t == PropertyString
	case TypeReference:
		return t == PropertyReference
	}
	return false
}

// PropertyAs returns the property value as T. The stored type must match:
// bool for bool values, any integer type for integral values (the value
// must fit), float32 or float64 for float values, string for string values.
// Reference values are readable as string, yielding the raw name.
func PropertyAs[T Value](p Property) T {
	rec := p.rec()
	var zero T
	var out any
	switch any(zero).(type) {
	case bool:
		p.requireType(TypeBool)
		out = p.doc.bools[rec.begin]
	case string:
		switch rec.typ {
		case TypeString:
			out = p.doc.strings[rec.begin]
		case TypeReference:
			out = p.doc.references[rec.begin]
		default:
			panic("openddl: property is not of the requested type")
		}
	case float32:
		p.requireType(TypeFloat)
		out = p.doc.floats[rec.begin]
	case float64:
		p.requireType(TypeFloat)
		out = float64(p.doc.floats[rec.begin])
	case uint8:
		out = uint8(p.integralIn(0, math.MaxUint8))
	case int8:
		out = int8(p.integralIn(math.MinInt8, math.MaxInt8))
	case uint16:
		out = uint16(p.integralIn(0, math.MaxUint16))
	case int16:
		out = int16(p.integralIn(math.MinInt16, math.MaxInt16))
	case uint32:
		out = uint32(p.integralIn(0, math.MaxUint32))
	case int32:
		out = int32(p.integralIn(math.MinInt32, math.MaxInt32))
	case uint64:
		out = uint64(p.integralIn(0, math.MaxInt64))
	case int64:
		out = p.integralIn(math.MinInt64, math.MaxInt64)
	}
	return out.(T)
}

func (p Property) requireType(t Type) {
	if p.rec().typ != t {
		panic("openddl: property is not of the requested type")
	}
}

func (p Property) integralIn(min, max int64) int64 {
	p.requireType(TypeLong)
	v := p.doc.longs[p.rec().begin]
	if v < min || v > max {
		panic("openddl: property value out of range for requested type")
	}
	return v
}
