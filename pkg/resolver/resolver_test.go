package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/lexer"
	"github.com/CBerJun/acacia/pkg/source"
)

func resolveSrc(t *testing.T, src string) (*Module, *diag.Sink) {
	t.Helper()
	reader := source.NewReader()
	sink := diag.NewSink()
	file := reader.AddFakeFile(src, "t")
	r := NewResolver(reader, sink, lexer.Config{}, t.TempDir())
	return r.ResolveFile(file), sink
}

func TestResolver_SimpleDefAndUse(t *testing.T) {
	_, sink := resolveSrc(t, "x := 1\ny := x + 1\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
}

func TestResolver_UndefinedName(t *testing.T) {
	_, sink := resolveSrc(t, "y := x + 1\n")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "undefined-name" {
			found = true
		}
	}
	if !found {
		t.Error("expected undefined-name diagnostic")
	}
}

func TestResolver_UnusedNameInFunctionBody(t *testing.T) {
	_, sink := resolveSrc(t, "def f():\n    x := 1\n    pass\n")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "unused-name" {
			found = true
		}
	}
	if !found {
		t.Error("expected unused-name diagnostic for x")
	}
}

func TestResolver_UnderscorePrefixSkipsUnusedWarning(t *testing.T) {
	_, sink := resolveSrc(t, "def f():\n    _x := 1\n    pass\n")
	for _, d := range sink.Diagnostics() {
		if d.ID == "unused-name" {
			t.Errorf("did not expect unused-name for underscore-prefixed binding, got %+v", d)
		}
	}
}

func TestResolver_NameRedefinitionInSameScope(t *testing.T) {
	_, sink := resolveSrc(t, "x := 1\nx := 2\n")
	// x := ... twice at module scope: AssignWalrus always declares, so the
	// second declaration of x collides with the first.
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "name-redefinition" {
			found = true
		}
	}
	if !found {
		t.Error("expected name-redefinition diagnostic")
	}
}

func TestResolver_DuplicateParamNameViaParser(t *testing.T) {
	// Duplicate parameter names are caught by the parser (duplicate-arg),
	// not the resolver; confirm the resolver still walks the (error-free
	// apart from that) body without panicking.
	_, sink := resolveSrc(t, "def f(x, x):\n    pass\n")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "duplicate-arg" {
			found = true
		}
	}
	if !found {
		t.Error("expected duplicate-arg diagnostic from the parser")
	}
}

func TestResolver_ForLoopVarScopedToBody(t *testing.T) {
	_, sink := resolveSrc(t, "for i in [1, 2]:\n    x := i\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
}

func TestResolver_EntityDuplicateField(t *testing.T) {
	_, sink := resolveSrc(t, "entity Foo:\n    x: int\n    x: int\n")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "duplicate-entity-attr" {
			found = true
		}
	}
	if !found {
		t.Error("expected duplicate-entity-attr diagnostic")
	}
}

func TestResolver_EntityMultipleNewMethods(t *testing.T) {
	_, sink := resolveSrc(t, "entity Foo:\n    new():\n        pass\n    new():\n        pass\n")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "multiple-new-methods" {
			found = true
		}
	}
	if !found {
		t.Error("expected multiple-new-methods diagnostic")
	}
}

func TestResolver_ImportFromModuleOnDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.ac"), []byte("shared := 1\n_hidden := 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reader := source.NewReader()
	sink := diag.NewSink()
	file := reader.AddFakeFile("from lib import shared\nx := shared\n", "main")
	r := NewResolver(reader, sink, lexer.Config{}, dir)
	r.ResolveFile(file)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
}

func TestResolver_ImportHiddenNameFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.ac"), []byte("_hidden := 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reader := source.NewReader()
	sink := diag.NewSink()
	file := reader.AddFakeFile("from lib import _hidden\n", "main")
	r := NewResolver(reader, sink, lexer.Config{}, dir)
	r.ResolveFile(file)
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "cannot-import-name" {
			found = true
		}
	}
	if !found {
		t.Error("expected cannot-import-name diagnostic")
	}
}

func TestResolver_ModuleNotFound(t *testing.T) {
	dir := t.TempDir()
	reader := source.NewReader()
	sink := diag.NewSink()
	file := reader.AddFakeFile("import nonexistent\n", "main")
	r := NewResolver(reader, sink, lexer.Config{}, dir)
	r.ResolveFile(file)
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "module-not-found" {
			found = true
		}
	}
	if !found {
		t.Error("expected module-not-found diagnostic")
	}
}

func TestResolver_ImportCycleWildcardWarns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.ac"), []byte("before := 1\nimport b\nafter := 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.ac"), []byte("from a import *\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reader := source.NewReader()
	sink := diag.NewSink()
	r := NewResolver(reader, sink, lexer.Config{}, dir)
	r.load([]string{"a"}, source.Range{})
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "partial-wildcard-import" {
			found = true
		}
	}
	if !found {
		t.Error("expected partial-wildcard-import diagnostic for the import cycle")
	}
}
