package openddl

import "iter"

// structureData is one record in the document's structure arena. Index 0 is
// reserved: it never describes a parsed structure and doubles as the virtual
// root whose firstChild heads the top-level chain.
type structureData struct {
	typ        Type
	identifier int
	name       int // strings arena index, 0 = unnamed
	parent     int
	firstChild int
	next       int

	// primitive payload, indices into the per-type data array
	begin        int
	size         int
	subArraySize int

	// contiguous run in the property arena, custom structures only
	propertyBegin int
	propertyCount int
}

// propertyData is one key/value pair attached to a custom structure. The
// value is a single element at begin in the data array selected by typ.
type propertyData struct {
	identifier int
	typ        Type
	begin      int
}

// Document owns all data of one parse session: the structure and property
// arenas, the string table, and one contiguous payload array per primitive
// type. It is populated by a single Parse call and safe for concurrent
// read-only use afterwards.
type Document struct {
	structures []structureData
	properties []propertyData

	// strings holds structure names and string payloads; index 0 is
	// fixed to "" so unnamed structures report an empty name.
	strings []string

	bools          []bool
	unsignedBytes  []uint8
	bytes          []int8
	unsignedShorts []uint16
	shorts         []int16
	unsignedInts   []uint32
	ints           []int32
	unsignedLongs  []uint64
	longs          []int64
	floats         []float32
	doubles        []float64
	references     []string

	structureIdentifiers []string
	propertyIdentifiers  []string

	// named maps a structure name (with its % or $ prefix) to the index
	// of the first structure carrying it, for reference resolution.
	named map[string]int
}

func newDocument(structureIdentifiers, propertyIdentifiers []string) *Document {
	d := &Document{
		structures:           make([]structureData, 1),
		strings:              []string{""},
		structureIdentifiers: append([]string(nil), structureIdentifiers...),
		propertyIdentifiers:  append([]string(nil), propertyIdentifiers...),
		named:                make(map[string]int),
	}
	return d
}

// IsEmpty reports whether the document contains no structures.
func (d *Document) IsEmpty() bool {
	return d.structures[0].firstChild == 0
}

// FirstChild returns the first top-level structure. The document must not
// be empty.
func (d *Document) FirstChild() Structure {
	s, ok := d.FindFirstChild()
	if !ok {
		panic("openddl: document is empty")
	}
	return s
}

// FindFirstChild returns the first top-level structure, if any.
func (d *Document) FindFirstChild() (Structure, bool) {
	return d.structureAt(d.structures[0].firstChild)
}

// FirstChildOfType returns the first top-level primitive structure of the
// given type. There must be such a structure.
func (d *Document) FirstChildOfType(t Type) Structure {
	s, ok := d.FindFirstChildOfType(t)
	if !ok {
		panic("openddl: no structure of requested type")
	}
	return s
}

// FindFirstChildOfType returns the first top-level structure of the given
// type, if any.
func (d *Document) FindFirstChildOfType(t Type) (Structure, bool) {
	return d.findOfType(d.structures[0].firstChild, t)
}

// FirstChildOf returns the first top-level custom structure with one of the
// given identifiers. There must be such a structure.
func (d *Document) FirstChildOf(identifiers ...int) Structure {
	s, ok := d.FindFirstChildOf(identifiers...)
	if !ok {
		panic("openddl: no structure of requested identifier")
	}
	return s
}

// FindFirstChildOf returns the first top-level custom structure with one of
// the given identifiers, if any.
func (d *Document) FindFirstChildOf(identifiers ...int) (Structure, bool) {
	return d.findOf(d.structures[0].firstChild, identifiers)
}

// Children returns a lazy sequence over top-level structures in source
// order. The sequence is restartable: each range starts a fresh traversal.
func (d *Document) Children() iter.Seq[Structure] {
	return d.childSeq(d.structures[0].firstChild)
}

// ChildrenOf returns a lazy sequence over top-level custom structures with
// one of the given identifiers, in source order.
func (d *Document) ChildrenOf(identifiers ...int) iter.Seq[Structure] {
	return d.childSeqOf(d.structures[0].firstChild, identifiers)
}

func (d *Document) structureAt(index int) (Structure, bool) {
	if index == 0 {
		return Structure{}, false
	}
	return Structure{doc: d, index: index}, true
}

// findOfType walks a sibling chain starting at index and returns the first
// structure of the given type.
func (d *Document) findOfType(index int, t Type) (Structure, bool) {
	for ; index != 0; index = d.structures[index].next {
		if d.structures[index].typ == t {
			return Structure{doc: d, index: index}, true
		}
	}
	return Structure{}, false
}

// findOf walks a sibling chain starting at index and returns the first
// custom structure matching one of the identifiers.
func (d *Document) findOf(index int, identifiers []int) (Structure, bool) {
	for ; index != 0; index = d.structures[index].next {
		rec := &d.structures[index]
		if rec.typ != TypeCustom {
			continue
		}
		for _, id := range identifiers {
			if rec.identifier == id {
				return Structure{doc: d, index: index}, true
			}
		}
	}
	return Structure{}, false
}

func (d *Document) childSeq(first int) iter.Seq[Structure] {
	return func(yield func(Structure) bool) {
		for index := first; index != 0; index = d.structures[index].next {
			if !yield(Structure{doc: d, index: index}) {
				return
			}
		}
	}
}

func (d *Document) childSeqOf(first int, identifiers []int) iter.Seq[Structure] {
	return func(yield func(Structure) bool) {
		s, ok := d.findOf(first, identifiers)
		for ok {
			if !yield(s) {
				return
			}
			s, ok = d.findOf(d.structures[s.index].next, identifiers)
		}
	}
}

// structureName returns the keyword for a custom structure identifier, for
// use in diagnostics.
func (d *Document) structureName(identifier int) string {
	if identifier >= 0 && identifier < len(d.structureIdentifiers) {
		return d.structureIdentifiers[identifier]
	}
	return "<unknown>"
}

// propertyName returns the keyword for a property identifier, for use in
// diagnostics.
func (d *Document) propertyName(identifier int) string {
	if identifier >= 0 && identifier < len(d.propertyIdentifiers) {
		return d.propertyIdentifiers[identifier]
	}
	return "<unknown>"
}

// resolveName resolves a reference name from the scope of the structure at
// from. Global names resolve document-wide; local names resolve against the
// nearest enclosing sibling scope first, then outward.
func (d *Document) resolveName(name string, from int) int {
	if name == "" {
		return 0
	}
	if name[0] == '$' {
		return d.named[name]
	}
	for scope := d.structures[from].parent; ; scope = d.structures[scope].parent {
		for index := d.structures[scope].firstChild; index != 0; index = d.structures[index].next {
			if rec := &d.structures[index]; rec.name != 0 && d.strings[rec.name] == name {
				return index
			}
		}
		if scope == 0 {
			return 0
		}
	}
}
