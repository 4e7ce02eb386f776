package openddl

// Type tags a parsed structure with its primitive data type, or marks it as
// a custom (identifier-keyed) structure.
type Type int

const (
	// TypeBool holds boolean values.
	TypeBool Type = iota
	// TypeUnsignedByte holds unsigned 8-bit integers.
	TypeUnsignedByte
	// TypeByte holds signed 8-bit integers.
	TypeByte
	// TypeUnsignedShort holds unsigned 16-bit integers.
	TypeUnsignedShort
	// TypeShort holds signed 16-bit integers.
	TypeShort
	// TypeUnsignedInt holds unsigned 32-bit integers.
	TypeUnsignedInt
	// TypeInt holds signed 32-bit integers.
	TypeInt
	// TypeUnsignedLong holds unsigned 64-bit integers.
	TypeUnsignedLong
	// TypeLong holds signed 64-bit integers.
	TypeLong
	// TypeFloat holds 32-bit floating point values.
	TypeFloat
	// TypeDouble holds 64-bit floating point values.
	TypeDouble
	// TypeString holds string values.
	TypeString
	// TypeReference holds names referring to other structures.
	TypeReference
	// TypeCustom marks a custom structure with properties and children
	// instead of primitive data.
	TypeCustom
)

// PropertyType tags a property value. It mirrors Type without the custom
// marker, since properties are always scalar primitives.
type PropertyType int

const (
	PropertyBool PropertyType = iota
	PropertyUnsignedByte
	PropertyByte
	PropertyUnsignedShort
	PropertyShort
	PropertyUnsignedInt
	PropertyInt
	PropertyUnsignedLong
	PropertyLong
	PropertyFloat
	PropertyDouble
	PropertyString
	PropertyReference
)

// UnknownIdentifier is the identifier reported for structure and property
// keywords absent from the caller-supplied identifier tables. Such
// structures and properties parse normally and are skipped by validation.
const UnknownIdentifier = -1

var typeNames = [...]string{
	TypeBool:          "Bool",
	TypeUnsignedByte:  "UnsignedByte",
	TypeByte:          "Byte",
	TypeUnsignedShort: "UnsignedShort",
	TypeShort:         "Short",
	TypeUnsignedInt:   "UnsignedInt",
	TypeInt:           "Int",
	TypeUnsignedLong:  "UnsignedLong",
	TypeLong:          "Long",
	TypeFloat:         "Float",
	TypeDouble:        "Double",
	TypeString:        "String",
	TypeReference:     "Reference",
	TypeCustom:        "Custom",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Invalid"
	}
	return typeNames[t]
}

func (t PropertyType) String() string {
	if t < 0 || t > PropertyReference {
		return "Invalid"
	}
	return typeNames[Type(t)]
}

// typeKeywords maps OpenDDL type keywords to their type tags. Identifiers
// not present here start a custom structure.
var typeKeywords = map[string]Type{
	"bool":           TypeBool,
	"unsigned_int8":  TypeUnsignedByte,
	"int8":           TypeByte,
	"unsigned_int16": TypeUnsignedShort,
	"int16":          TypeShort,
	"unsigned_int32": TypeUnsignedInt,
	"int32":          TypeInt,
	"unsigned_int64": TypeUnsignedLong,
	"int64":          TypeLong,
	"float":          TypeFloat,
	"double":         TypeDouble,
	"string":         TypeString,
	"ref":            TypeReference,
}

func typeForKeyword(keyword string) (Type, bool) {
	t, ok := typeKeywords[keyword]
	return t, ok
}
