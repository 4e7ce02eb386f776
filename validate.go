package openddl

import "github.com/jacoelho/openddl/errors"

// StructureBound limits how many times a custom structure identifier may
// occur at one level. Max 0 means there is no upper limit.
type StructureBound struct {
	Identifier int
	Min        int
	Max        int
}

// PropertyRule declares one allowed property of a custom structure and the
// type a value must be compatible with.
type PropertyRule struct {
	Identifier int
	Type       PropertyType
	Required   bool
}

// StructureRule declares the allowed contents of one custom structure
// identifier: its properties, the primitive types of its data
// sub-structures, the expected count of those sub-structures and of their
// elements (0 = unconstrained), and the bounds for custom child
// structures. Child bounds apply recursively through their own rules.
type StructureRule struct {
	Identifier         int
	Properties         []PropertyRule
	Primitives         []Type
	PrimitiveCount     int
	PrimitiveArraySize int
	Structures         []StructureBound
}

// Validate checks the document against a declarative grammar: roots bounds
// the top-level structure identifiers, rules describes every known custom
// structure. Validation is fail-fast and returns an
// *errors.ValidationError describing the first violation found. Structures
// and properties with unknown identifiers are skipped, including their
// entire subtrees.
func (d *Document) Validate(roots []StructureBound, rules []StructureRule) error {
	v := &validator{doc: d, rules: make(map[int]*StructureRule, len(rules))}
	for i := range rules {
		rule := &rules[i]
		if _, taken := v.rules[rule.Identifier]; !taken {
			v.rules[rule.Identifier] = rule
		}
	}
	return v.level(d.structures[0].firstChild, roots, true)
}

type validator struct {
	doc   *Document
	rules map[int]*StructureRule
}

// level validates one sibling chain against the bounds that apply at this
// nesting level, then descends into each known structure.
func (v *validator) level(first int, bounds []StructureBound, root bool) error {
	doc := v.doc

	counts := make(map[int]int)
	for index := first; index != 0; index = doc.structures[index].next {
		rec := &doc.structures[index]
		if rec.typ != TypeCustom {
			if root {
				return errors.NewValidation("unexpected primitive structure in root")
			}
			continue
		}
		if rec.identifier == UnknownIdentifier {
			continue
		}
		if !boundFor(bounds, rec.identifier) {
			return errors.NewValidation("unexpected structure %s", doc.structureName(rec.identifier))
		}
		counts[rec.identifier]++
	}

	for _, bound := range bounds {
		got := counts[bound.Identifier]
		name := doc.structureName(bound.Identifier)
		if bound.Max > 0 && got > bound.Max {
			return errors.NewValidation("too many %s structures, got %d but expected max %d", name, got, bound.Max)
		}
		if got < bound.Min {
			return errors.NewValidation("too little %s structures, got %d but expected min %d", name, got, bound.Min)
		}
	}

	for index := first; index != 0; index = doc.structures[index].next {
		rec := &doc.structures[index]
		if rec.typ != TypeCustom || rec.identifier == UnknownIdentifier {
			continue
		}
		rule, known := v.rules[rec.identifier]
		if !known {
			continue
		}
		if err := v.structure(index, rule); err != nil {
			return err
		}
	}
	return nil
}

// structure validates the contents of one known custom structure against
// its rule and recurses into its custom children.
func (v *validator) structure(index int, rule *StructureRule) error {
	doc := v.doc
	rec := &doc.structures[index]
	name := doc.structureName(rule.Identifier)

	primitives := 0
	for child := rec.firstChild; child != 0; child = doc.structures[child].next {
		childRec := &doc.structures[child]
		if childRec.typ == TypeCustom {
			continue
		}
		primitives++
		if !typeAllowed(rule.Primitives, childRec.typ) {
			return errors.NewValidation("unexpected sub-structure of type %s in structure %s", childRec.typ, name)
		}
		if rule.PrimitiveArraySize > 0 && childRec.size != rule.PrimitiveArraySize {
			return errors.NewValidation("expected exactly %d values in %s sub-structure", rule.PrimitiveArraySize, name)
		}
	}
	if rule.PrimitiveCount > 0 && primitives != rule.PrimitiveCount {
		return errors.NewValidation("expected exactly %d primitive sub-structures in structure %s", rule.PrimitiveCount, name)
	}

	for _, propertyRule := range rule.Properties {
		if !propertyRule.Required {
			continue
		}
		if !hasProperty(doc, rec, propertyRule.Identifier) {
			return errors.NewValidation("expected property %s in structure %s",
				doc.propertyName(propertyRule.Identifier), name)
		}
	}
	for i := 0; i < rec.propertyCount; i++ {
		property := Property{doc: doc, index: rec.propertyBegin + i}
		identifier := property.Identifier()
		if identifier == UnknownIdentifier {
			continue
		}
		propertyRule, declared := propertyRuleFor(rule.Properties, identifier)
		if !declared {
			return errors.NewValidation("unexpected property %s in structure %s",
				doc.propertyName(identifier), name)
		}
		if !property.IsTypeCompatibleWith(propertyRule.Type) {
			return errors.NewValidation("unexpected type of property %s, expected %s",
				doc.propertyName(identifier), propertyRule.Type)
		}
	}

	return v.level(rec.firstChild, rule.Structures, false)
}

func boundFor(bounds []StructureBound, identifier int) bool {
	for _, bound := range bounds {
		if bound.Identifier == identifier {
			return true
		}
	}
	return false
}

func typeAllowed(types []Type, typ Type) bool {
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}

func hasProperty(doc *Document, rec *structureData, identifier int) bool {
	for i := 0; i < rec.propertyCount; i++ {
		if doc.properties[rec.propertyBegin+i].identifier == identifier {
			return true
		}
	}
	return false
}

func propertyRuleFor(rules []PropertyRule, identifier int) (PropertyRule, bool) {
	for _, rule := range rules {
		if rule.Identifier == identifier {
			return rule, true
		}
	}
	return PropertyRule{}, false
}
