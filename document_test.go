package openddl_test

import (
	"slices"
	"testing"

	"github.com/jacoelho/openddl"
)

func TestDocumentEmpty(t *testing.T) {
	d := mustParse(t, "// nothing but a comment\n")
	if !d.IsEmpty() {
		t.Fatal("IsEmpty() = false, want true")
	}
	if _, ok := d.FindFirstChild(); ok {
		t.Fatal("FindFirstChild() = true, want false")
	}
}

func TestDocumentChildren(t *testing.T) {
	d := mustParse(t, `
Root %root1 {}
Hierarchic %hierarchic1 {
    Root %root2 {}
    Hierarchic %hierarchic2 {}
}
Hierarchic %hierarchic3 {}
Unknown %unknown {}
Root %root3 {}
`)

	var names []string
	for s := range d.Children() {
		names = append(names, s.Name())
	}
	want := []string{"%root1", "%hierarchic1", "%hierarchic3", "%unknown", "%root3"}
	if !slices.Equal(names, want) {
		t.Fatalf("Children() names = %v, want %v", names, want)
	}

	names = nil
	for s := range d.ChildrenOf(hierarchicStructure) {
		names = append(names, s.Name())
	}
	want = []string{"%hierarchic1", "%hierarchic3"}
	if !slices.Equal(names, want) {
		t.Fatalf("ChildrenOf(Hierarchic) names = %v, want %v", names, want)
	}

	names = nil
	for s := range d.ChildrenOf(someStructure) {
		names = append(names, s.Name())
	}
	if len(names) != 0 {
		t.Fatalf("ChildrenOf(Some) names = %v, want none", names)
	}
}

func TestStructureChildren(t *testing.T) {
	d := mustParse(t, `
Root %root1 {}
Hierarchic %hierarchic1 {
    Root %root2 {}
    Unknown %unknown {}
    Hierarchic %hierarchic2 {
        Root %root3 {}
    }
    Root %root4 {}
}
Hierarchic %hierarchic3 {}
`)

	var names []string
	for s := range d.FirstChildOf(hierarchicStructure).Children() {
		names = append(names, s.Name())
	}
	want := []string{"%root2", "%unknown", "%hierarchic2", "%root4"}
	if !slices.Equal(names, want) {
		t.Fatalf("Children() names = %v, want %v", names, want)
	}

	names = nil
	for s := range d.FirstChildOf(hierarchicStructure).ChildrenOf(rootStructure) {
		names = append(names, s.Name())
	}
	want = []string{"%root2", "%root4"}
	if !slices.Equal(names, want) {
		t.Fatalf("ChildrenOf(Root) names = %v, want %v", names, want)
	}

	names = nil
	for s := range d.FirstChildOf(rootStructure).Children() {
		names = append(names, s.Name())
	}
	if len(names) != 0 {
		t.Fatalf("Children() names = %v, want none", names)
	}
}

func TestStructureChildrenEarlyBreak(t *testing.T) {
	d := mustParse(t, "Root %a {} Root %b {} Root %c {}")

	var names []string
	for s := range d.Children() {
		names = append(names, s.Name())
		if len(names) == 2 {
			break
		}
	}
	if want := []string{"%a", "%b"}; !slices.Equal(names, want) {
		t.Fatalf("Children() names = %v, want %v", names, want)
	}
}

func TestStructureProperties(t *testing.T) {
	d := mustParse(t, `
Root (some = "string to ignore", boolean = "hello", unknown = "hey", some = "string") {}
Hierarchic () {}
`)

	var values []string
	for p := range d.FirstChildOf(rootStructure).Properties() {
		values = append(values, openddl.PropertyAs[string](p))
	}
	want := []string{"string to ignore", "hello", "hey", "string"}
	if !slices.Equal(values, want) {
		t.Fatalf("Properties() values = %v, want %v", values, want)
	}

	// With duplicate identifiers the lookup picks the last occurrence.
	p := d.FirstChildOf(rootStructure).PropertyOf(someProperty)
	if got := openddl.PropertyAs[string](p); got != "string" {
		t.Fatalf("PropertyAs() = %q, want %q", got, "string")
	}

	values = nil
	for p := range d.FirstChildOf(hierarchicStructure).Properties() {
		values = append(values, openddl.PropertyAs[string](p))
	}
	if len(values) != 0 {
		t.Fatalf("Properties() values = %v, want none", values)
	}
}

func TestStructureFindNextSame(t *testing.T) {
	d := mustParse(t, "Root {} Hierarchic {} Root {} Some {}")

	first := d.FirstChildOf(rootStructure)
	second, ok := first.FindNextSame()
	if !ok {
		t.Fatal("FindNextSame() = false, want true")
	}
	if got := second.Identifier(); got != rootStructure {
		t.Fatalf("Identifier() = %d, want %d", got, rootStructure)
	}
	if _, ok := second.FindNextSame(); ok {
		t.Fatal("FindNextSame() = true, want false")
	}
}

func TestStructureParent(t *testing.T) {
	d := mustParse(t, "Hierarchic { Some { int32 { 7 } } }")

	some := d.FirstChildOf(hierarchicStructure).FirstChildOf(someStructure)
	parent, ok := some.Parent()
	if !ok {
		t.Fatal("Parent() = false, want true")
	}
	if got := parent.Identifier(); got != hierarchicStructure {
		t.Fatalf("Identifier() = %d, want %d", got, hierarchicStructure)
	}
	if _, ok := parent.Parent(); ok {
		t.Fatal("Parent() = true, want false for top-level structure")
	}
}
