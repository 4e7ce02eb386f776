package openddl_test

import (
	"testing"

	"github.com/jacoelho/openddl"
	ddlerrors "github.com/jacoelho/openddl/errors"
)

func TestReferenceNull(t *testing.T) {
	d := mustParse(t, "ref { null }")

	_, ok, err := d.FirstChild().AsReference()
	if err != nil {
		t.Fatalf("AsReference() error = %v", err)
	}
	if ok {
		t.Fatal("AsReference() ok = true, want false for null")
	}
}

func TestReferenceGlobal(t *testing.T) {
	d := mustParse(t, `
Some $target { int32 { 35 } }
Root { ref { $target } }
`)

	reference := d.FirstChildOf(rootStructure).FirstChildOfType(openddl.TypeReference)
	target, ok, err := reference.AsReference()
	if err != nil {
		t.Fatalf("AsReference() error = %v", err)
	}
	if !ok {
		t.Fatal("AsReference() ok = false, want true")
	}
	if want := d.FirstChildOf(someStructure); target != want {
		t.Fatalf("AsReference() = %v, want %v", target.Name(), want.Name())
	}
}

func TestReferenceLocalNearestScope(t *testing.T) {
	d := mustParse(t, `
Some %dup { int32 { 1 } }
Root {
    Some %dup { int32 { 2 } }
    ref { %dup }
}
`)

	reference := d.FirstChildOf(rootStructure).FirstChildOfType(openddl.TypeReference)
	target, ok, err := reference.AsReference()
	if err != nil {
		t.Fatalf("AsReference() error = %v", err)
	}
	if !ok {
		t.Fatal("AsReference() ok = false, want true")
	}
	data := target.FirstChildOfType(openddl.TypeInt)
	if got := openddl.As[int32](data); got != 2 {
		t.Fatalf("As() = %d, want 2 (nearest scope)", got)
	}
}

func TestReferenceOuterScope(t *testing.T) {
	d := mustParse(t, `
Some %outer { int32 { 1 } }
Root { ref { %outer } }
`)

	reference := d.FirstChildOf(rootStructure).FirstChildOfType(openddl.TypeReference)
	target, ok, err := reference.AsReference()
	if err != nil {
		t.Fatalf("AsReference() error = %v", err)
	}
	if !ok {
		t.Fatal("AsReference() ok = false, want true")
	}
	if want := d.FirstChildOf(someStructure); target != want {
		t.Fatal("AsReference() resolved to the wrong structure")
	}
}

func TestReferenceArray(t *testing.T) {
	d := mustParse(t, `
Some $a { int32 { 1 } }
Some %b { int32 { 2 } }
ref { $a, null, %b }
`)

	reference := d.FirstChildOfType(openddl.TypeReference)
	targets, present, err := reference.AsReferenceArray()
	if err != nil {
		t.Fatalf("AsReferenceArray() error = %v", err)
	}
	if len(targets) != 3 || len(present) != 3 {
		t.Fatalf("AsReferenceArray() lengths = %d, %d, want 3, 3", len(targets), len(present))
	}
	if !present[0] || present[1] || !present[2] {
		t.Fatalf("AsReferenceArray() present = %v, want [true false true]", present)
	}
	if got := targets[0].Name(); got != "$a" {
		t.Fatalf("Name() = %q, want %q", got, "$a")
	}
	if got := targets[2].Name(); got != "%b" {
		t.Fatalf("Name() = %q, want %q", got, "%b")
	}
}

func TestReferenceDangling(t *testing.T) {
	d := mustParse(t, "Root { ref { %nowhere } }")

	reference := d.FirstChildOf(rootStructure).FirstChildOfType(openddl.TypeReference)
	_, _, err := reference.AsReference()
	if err == nil {
		t.Fatal("AsReference() error = nil, want error")
	}
	dangling, ok := ddlerrors.AsDanglingReference(err)
	if !ok {
		t.Fatalf("AsDanglingReference() = false, want true for %v", err)
	}
	if got := dangling.Name; got != "%nowhere" {
		t.Fatalf("Name = %q, want %q", got, "%nowhere")
	}
	if got, want := err.Error(), "unresolved reference %nowhere"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
