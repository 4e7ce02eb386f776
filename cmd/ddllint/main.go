// Command ddllint checks that an OpenDDL document is well formed and
// optionally prints its structure tree.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/jacoelho/openddl"
	"github.com/jacoelho/openddl/internal/scanner"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ddllint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dump := fs.Bool("dump", false, "print the parsed structure tree")
	cpuProfilePath := fs.String("cpuprofile", "", "write CPU profile to file")
	memProfilePath := fs.String("memprofile", "", "write memory profile to file")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [flags] <document.ogex>\n\n", os.Args[0]),
			writeln(stderr, "Checks that an OpenDDL document is well formed."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		if err := writeln(stderr, "error: at least one document argument is required"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}

	if *cpuProfilePath != "" {
		stopCPUProfile, err := startCPUProfile(*cpuProfilePath)
		if err != nil {
			if writeErr := writef(stderr, "error starting CPU profile: %v\n", err); writeErr != nil {
				return 1
			}
			return 1
		}
		defer func() {
			if err := stopCPUProfile(); err != nil {
				_ = writef(stderr, "error stopping CPU profile: %v\n", err)
			}
		}()
	}

	if *memProfilePath != "" {
		defer func() {
			if err := writeMemProfile(*memProfilePath); err != nil {
				_ = writef(stderr, "error writing memory profile: %v\n", err)
			}
		}()
	}

	code := 0
	for _, path := range remaining {
		if err := checkDocument(stdout, stderr, path, *dump); err != nil {
			code = 1
		}
	}
	return code
}

func checkDocument(stdout, stderr io.Writer, path string, dump bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		if writeErr := writef(stderr, "error reading document: %v\n", err); writeErr != nil {
			return writeErr
		}
		return err
	}

	identifiers := harvestIdentifiers(src)
	document, err := openddl.Parse(src, identifiers, identifiers)
	if err != nil {
		if writeErr := writeln(stderr, err.Error()); writeErr != nil {
			return writeErr
		}
		if writeErr := writef(stderr, "%s fails to parse\n", path); writeErr != nil {
			return writeErr
		}
		return err
	}

	if dump {
		for structure := range document.Children() {
			if err := dumpStructure(stdout, identifiers, structure, 0); err != nil {
				return err
			}
		}
		return nil
	}

	return writef(stdout, "%s parses\n", path)
}

// harvestIdentifiers collects every identifier token in the source in
// order of first occurrence, so the whole document parses as known. Type
// keywords and boolean literals end up in the table too, which is
// harmless: the parser resolves them before the table lookup.
func harvestIdentifiers(src []byte) []string {
	s := scanner.New(src)
	seen := make(map[string]struct{})
	var identifiers []string
	for {
		tok, err := s.Next()
		if err != nil || tok.Kind == scanner.EOF {
			return identifiers
		}
		if tok.Kind != scanner.Identifier {
			continue
		}
		if _, dup := seen[tok.Text]; dup {
			continue
		}
		seen[tok.Text] = struct{}{}
		identifiers = append(identifiers, tok.Text)
	}
}

func dumpStructure(w io.Writer, table []string, s openddl.Structure, depth int) error {
	indent := strings.Repeat("  ", depth)
	if !s.IsCustom() {
		size := fmt.Sprintf("[%d]", s.ArraySize())
		if sub := s.SubArraySize(); sub > 0 {
			size = fmt.Sprintf("[%d/%d]", s.ArraySize(), sub)
		}
		name := ""
		if s.HasName() {
			name = " " + s.Name()
		}
		return writef(w, "%s%s%s%s\n", indent, s.Type(), size, name)
	}

	line := identifierText(table, s.Identifier())
	if s.HasName() {
		line += " " + s.Name()
	}
	if s.HasProperties() {
		line += " (" + formatProperties(table, s) + ")"
	}
	if !s.HasChildren() {
		return writef(w, "%s%s {}\n", indent, line)
	}
	if err := writef(w, "%s%s {\n", indent, line); err != nil {
		return err
	}
	for child := range s.Children() {
		if err := dumpStructure(w, table, child, depth+1); err != nil {
			return err
		}
	}
	return writef(w, "%s}\n", indent)
}

func formatProperties(table []string, s openddl.Structure) string {
	var parts []string
	for property := range s.Properties() {
		parts = append(parts, fmt.Sprintf("%s = %s",
			identifierText(table, property.Identifier()), formatPropertyValue(property)))
	}
	return strings.Join(parts, ", ")
}

func formatPropertyValue(p openddl.Property) string {
	switch p.Type() {
	case openddl.TypeBool:
		return fmt.Sprintf("%t", openddl.PropertyAs[bool](p))
	case openddl.TypeLong:
		return fmt.Sprintf("%d", openddl.PropertyAs[int64](p))
	case openddl.TypeFloat:
		return fmt.Sprintf("%g", openddl.PropertyAs[float32](p))
	case openddl.TypeString:
		return fmt.Sprintf("%q", openddl.PropertyAs[string](p))
	default:
		return openddl.PropertyAs[string](p)
	}
}

func identifierText(table []string, identifier int) string {
	if identifier == openddl.UnknownIdentifier {
		return "<unknown>"
	}
	return table[identifier]
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

func startCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("start cpu profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return nil, fmt.Errorf("start cpu profile %s: %w", path, err)
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			return fmt.Errorf("close cpu profile %s: %w", path, err)
		}
		return nil
	}, nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mem profile %s: %w", path, err)
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("write mem profile %s: %w (close failed: %w)", path, err, closeErr)
		}
		return fmt.Errorf("write mem profile %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close mem profile %s: %w", path, err)
	}
	return nil
}
