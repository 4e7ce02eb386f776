package openddl

import (
	"iter"

	"github.com/jacoelho/openddl/errors"
)

// Structure is a lightweight read-only view of one structure in a Document.
// It holds only a reference into the owning document, so copies are cheap
// and comparison with == is identity: two values are equal when they refer
// to the same record of the same document. A Structure must not outlive the
// Document it came from.
type Structure struct {
	doc   *Document
	index int
}

func (s Structure) rec() *structureData {
	return &s.doc.structures[s.index]
}

// IsCustom reports whether the structure is custom rather than primitive.
func (s Structure) IsCustom() bool {
	return s.rec().typ == TypeCustom
}

// Type returns the structure type tag.
func (s Structure) Type() Type {
	return s.rec().typ
}

// Identifier returns the custom structure identifier resolved against the
// caller's structure identifier table, or UnknownIdentifier. The structure
// must be custom.
func (s Structure) Identifier() int {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.rec().identifier
}

// HasName reports whether the structure carries a % or $ name.
func (s Structure) HasName() bool {
	return s.rec().name != 0
}

// Name returns the structure name including its % or $ prefix, or an empty
// string for unnamed structures.
func (s Structure) Name() string {
	return s.doc.strings[s.rec().name]
}

// ArraySize returns the total primitive element count. The structure must
// not be custom.
func (s Structure) ArraySize() int {
	if s.IsCustom() {
		panic("openddl: custom structure has no array size")
	}
	return s.rec().size
}

// SubArraySize returns the declared sub-array group size, or 0 when the
// array has no sub-grouping. The structure must not be custom.
func (s Structure) SubArraySize() int {
	if s.IsCustom() {
		panic("openddl: custom structure has no array size")
	}
	return s.rec().subArraySize
}

// Parent returns the enclosing structure, or false for top-level
// structures.
func (s Structure) Parent() (Structure, bool) {
	return s.doc.structureAt(s.rec().parent)
}

// FindNext returns the next sibling structure, or false for the last
// structure of a level.
func (s Structure) FindNext() (Structure, bool) {
	return s.doc.structureAt(s.rec().next)
}

// FindNextOf returns the next custom sibling with one of the given
// identifiers, if any.
func (s Structure) FindNextOf(identifiers ...int) (Structure, bool) {
	return s.doc.findOf(s.rec().next, identifiers)
}

// FindNextSame returns the next custom sibling with the same identifier, if
// any. The structure must be custom.
func (s Structure) FindNextSame() (Structure, bool) {
	return s.FindNextOf(s.Identifier())
}

// HasChildren reports whether the structure has child structures. The
// structure must be custom.
func (s Structure) HasChildren() bool {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.rec().firstChild != 0
}

// FirstChild returns the first child structure. The structure must be
// custom and must have children.
func (s Structure) FirstChild() Structure {
	c, ok := s.FindFirstChild()
	if !ok {
		panic("openddl: structure has no children")
	}
	return c
}

// FindFirstChild returns the first child structure, if any. The structure
// must be custom.
func (s Structure) FindFirstChild() (Structure, bool) {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.doc.structureAt(s.rec().firstChild)
}

// FirstChildOfType returns the first child of the given primitive type.
// There must be such a child.
func (s Structure) FirstChildOfType(t Type) Structure {
	c, ok := s.FindFirstChildOfType(t)
	if !ok {
		panic("openddl: no structure of requested type")
	}
	return c
}

// FindFirstChildOfType returns the first child of the given type, if any.
// The structure must be custom.
func (s Structure) FindFirstChildOfType(t Type) (Structure, bool) {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.doc.findOfType(s.rec().firstChild, t)
}

// FirstChildOf returns the first custom child with one of the given
// identifiers. There must be such a child.
func (s Structure) FirstChildOf(identifiers ...int) Structure {
	c, ok := s.FindFirstChildOf(identifiers...)
	if !ok {
		panic("openddl: no structure of requested identifier")
	}
	return c
}

// FindFirstChildOf returns the first custom child with one of the given
// identifiers, if any. The structure must be custom.
func (s Structure) FindFirstChildOf(identifiers ...int) (Structure, bool) {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.doc.findOf(s.rec().firstChild, identifiers)
}

// Children returns a lazy, restartable sequence over child structures in
// source order. The structure must be custom.
func (s Structure) Children() iter.Seq[Structure] {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.doc.childSeq(s.rec().firstChild)
}

// ChildrenOf returns a lazy sequence over custom children with one of the
// given identifiers. The structure must be custom.
func (s Structure) ChildrenOf(identifiers ...int) iter.Seq[Structure] {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.doc.childSeqOf(s.rec().firstChild, identifiers)
}

// HasProperties reports whether the structure has properties. The structure
// must be custom.
func (s Structure) HasProperties() bool {
	return s.PropertyCount() > 0
}

// PropertyCount returns the number of properties, duplicates included. The
// structure must be custom.
func (s Structure) PropertyCount() int {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	return s.rec().propertyCount
}

// Properties returns a lazy sequence over the structure's properties in
// source order, duplicates preserved. The structure must be custom.
func (s Structure) Properties() iter.Seq[Property] {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	rec := s.rec()
	begin, count := rec.propertyBegin, rec.propertyCount
	return func(yield func(Property) bool) {
		for i := 0; i < count; i++ {
			if !yield(Property{doc: s.doc, index: begin + i}) {
				return
			}
		}
	}
}

// FindPropertyOf returns the property with the given identifier, if any.
// With duplicate identifiers the last occurrence wins; earlier ones stay
// visible only through Properties. The structure must be custom.
func (s Structure) FindPropertyOf(identifier int) (Property, bool) {
	if !s.IsCustom() {
		panic("openddl: not a custom structure")
	}
	rec := s.rec()
	for i := rec.propertyCount - 1; i >= 0; i-- {
		if s.doc.properties[rec.propertyBegin+i].identifier == identifier {
			return Property{doc: s.doc, index: rec.propertyBegin + i}, true
		}
	}
	return Property{}, false
}

// PropertyOf returns the property with the given identifier. The structure
// must be custom and the property must exist.
func (s Structure) PropertyOf(identifier int) Property {
	p, ok := s.FindPropertyOf(identifier)
	if !ok {
		panic("openddl: no property of requested identifier")
	}
	return p
}

// AsReference resolves a single reference value. The structure must be of
// TypeReference with exactly one element. A literal null yields
// (Structure{}, false, nil); a name with no matching structure yields a
// DanglingReference error.
func (s Structure) AsReference() (Structure, bool, error) {
	rec := s.rec()
	if rec.typ != TypeReference {
		panic("openddl: structure is not of the requested type")
	}
	if rec.size != 1 {
		panic("openddl: not a single value")
	}
	return s.resolveReference(s.doc.references[rec.begin])
}

// AsReferenceArray resolves every element of a reference array. The
// returned presence slice is false for literal null elements. Resolution
// stops at the first dangling name.
func (s Structure) AsReferenceArray() ([]Structure, []bool, error) {
	rec := s.rec()
	if rec.typ != TypeReference {
		panic("openddl: structure is not of the requested type")
	}
	targets := make([]Structure, rec.size)
	present := make([]bool, rec.size)
	for i := 0; i < rec.size; i++ {
		target, ok, err := s.resolveReference(s.doc.references[rec.begin+i])
		if err != nil {
			return nil, nil, err
		}
		targets[i], present[i] = target, ok
	}
	return targets, present, nil
}

func (s Structure) resolveReference(name string) (Structure, bool, error) {
	if name == "null" {
		return Structure{}, false, nil
	}
	index := s.doc.resolveName(name, s.index)
	if index == 0 {
		return Structure{}, false, &errors.DanglingReference{Name: name}
	}
	return Structure{doc: s.doc, index: index}, true, nil
}

// Value constrains the Go types a primitive structure or property can hold.
type Value interface {
	bool | uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64 | string
}

// As returns the single primitive value of a structure. The structure must
// hold exactly one element of the type corresponding to T.
func As[T Value](s Structure) T {
	if s.ArraySize() != 1 {
		panic("openddl: not a single value")
	}
	return AsArray[T](s)[0]
}

// AsArray returns a read-only view of the structure's primitive elements.
// The structure must be of the type corresponding to T. The returned slice
// aliases document storage and must not be modified.
func AsArray[T Value](s Structure) []T {
	rec := s.rec()
	want, data := arrayFor[T](s.doc)
	if rec.typ != want {
		panic("openddl: structure is not of the requested type")
	}
	return data[rec.begin : rec.begin+rec.size]
}

// arrayFor maps a Go element type to its type tag and backing array.
func arrayFor[T Value](d *Document) (Type, []T) {
	var zero T
	var tag Type
	var data any
	switch any(zero).(type) {
	case bool:
		tag, data = TypeBool, d.bools
	case uint8:
		tag, data = TypeUnsignedByte, d.unsignedBytes
	case int8:
		tag, data = TypeByte, d.bytes
	case uint16:
		tag, data = TypeUnsignedShort, d.unsignedShorts
	case int16:
		tag, data = TypeShort, d.shorts
	case uint32:
		tag, data = TypeUnsignedInt, d.unsignedInts
	case int32:
		tag, data = TypeInt, d.ints
	case uint64:
		tag, data = TypeUnsignedLong, d.unsignedLongs
	case int64:
		tag, data = TypeLong, d.longs
	case float32:
		tag, data = TypeFloat, d.floats
	case float64:
		tag, data = TypeDouble, d.doubles
	case string:
		tag, data = TypeString, d.strings
	}
	return tag, data.([]T)
}
