package lexer

import (
	"testing"

	"github.com/CBerJun/acacia/pkg/diag"
	"github.com/CBerJun/acacia/pkg/source"
	"github.com/CBerJun/acacia/pkg/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Sink) {
	t.Helper()
	f := source.NewFile("t.ac", src)
	sink := diag.NewSink()
	return Tokenize(f, sink, Config{}), sink
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func TestLexer_SimpleAssignment(t *testing.T) {
	toks, sink := lex(t, "x := 1 + 2\n")
	if len(sink.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	want := []token.Kind{token.IDENTIFIER, token.WALRUS, token.INTEGER, token.PLUS, token.INTEGER, token.NEWLINE, token.END_MARKER}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexer_IndentDedentBalanced(t *testing.T) {
	src := "if True:\n    pass\n    if True:\n        pass\nelse:\n    pass\n"
	toks, sink := lex(t, src)
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	indents, dedents := 0, 0
	for _, tk := range toks {
		switch tk.Kind {
		case token.INDENT:
			indents++
		case token.DEDENT:
			dedents++
		}
	}
	if indents != dedents {
		t.Errorf("unbalanced indent/dedent: %d indents, %d dedents", indents, dedents)
	}
	if toks[len(toks)-1].Kind != token.END_MARKER {
		t.Errorf("expected stream to end with END_MARKER, got %v", toks[len(toks)-1].Kind)
	}
}

func TestLexer_InvalidDedent(t *testing.T) {
	src := "if True:\n        pass\n    pass\n"
	_, sink := lex(t, src)
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "invalid-dedent" {
			found = true
		}
	}
	if !found {
		t.Error("expected invalid-dedent diagnostic")
	}
}

func TestLexer_StringInterpolation(t *testing.T) {
	toks, sink := lex(t, `"hello ${x + 1} world"` + "\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	want := []token.Kind{
		token.STRING_BEGIN, token.TEXT_BODY, token.DOLLAR_LBRACE,
		token.IDENTIFIER, token.PLUS, token.INTEGER,
		token.TEXT_BODY, token.STRING_END, token.NEWLINE, token.END_MARKER,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v (%d), want %v (%d)", got, len(got), want, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	toks, sink := lex(t, `"a\nb\tc\x41"`+"\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	var text string
	for _, tk := range toks {
		if tk.Kind == token.TEXT_BODY {
			text += tk.Value.(string)
		}
	}
	if want := "a\nb\tcA"; text != want {
		t.Errorf("decoded text = %q, want %q", text, want)
	}
}

func TestLexer_ShortCommand(t *testing.T) {
	toks, sink := lex(t, "/say ${name}\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	if toks[0].Kind != token.COMMAND_BEGIN {
		t.Fatalf("expected COMMAND_BEGIN first, got %v", toks[0].Kind)
	}
	sawEnd := false
	for _, tk := range toks {
		if tk.Kind == token.COMMAND_END {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Error("expected a COMMAND_END token")
	}
}

func TestLexer_LongCommandNewlineBecomesSpace(t *testing.T) {
	toks, sink := lex(t, "/*say hi\nthere*/\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	var text string
	for _, tk := range toks {
		if tk.Kind == token.TEXT_BODY {
			text += tk.Value.(string)
		}
	}
	if want := "say hi there"; text != want {
		t.Errorf("decoded text = %q, want %q", text, want)
	}
}

func TestLexer_NumberBases(t *testing.T) {
	toks, sink := lex(t, "0b101 0o17 0xFF 3.14\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	var ints []int64
	var floats []float64
	for _, tk := range toks {
		switch tk.Kind {
		case token.INTEGER:
			ints = append(ints, tk.Value.(int64))
		case token.FLOAT:
			floats = append(floats, tk.Value.(float64))
		}
	}
	if len(ints) != 3 || ints[0] != 5 || ints[1] != 15 || ints[2] != 255 {
		t.Errorf("ints = %v, want [5 15 255]", ints)
	}
	if len(floats) != 1 || floats[0] != 3.14 {
		t.Errorf("floats = %v, want [3.14]", floats)
	}
}

func TestLexer_IntegerOverflow(t *testing.T) {
	_, sink := lex(t, "99999999999\n")
	found := false
	for _, d := range sink.Diagnostics() {
		if d.ID == "integer-literal-overflow" {
			found = true
		}
	}
	if !found {
		t.Error("expected integer-literal-overflow diagnostic")
	}
}

func TestLexer_LineContinuation(t *testing.T) {
	toks, sink := lex(t, "x := 1 + \\\n    2\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	newlineCount := 0
	for _, tk := range toks {
		if tk.Kind == token.NEWLINE {
			newlineCount++
		}
	}
	if newlineCount != 1 {
		t.Errorf("expected exactly 1 logical NEWLINE, got %d", newlineCount)
	}
}

func TestLexer_BracketSuppressesIndentation(t *testing.T) {
	toks, sink := lex(t, "x := [\n1,\n2,\n]\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	for _, tk := range toks {
		if tk.Kind == token.INDENT || tk.Kind == token.DEDENT {
			t.Errorf("unexpected %v token while inside brackets", tk.Kind)
		}
	}
}

func TestLexer_InterfacePath(t *testing.T) {
	toks, sink := lex(t, "interface foo/bar-baz.qux:\n    pass\n")
	if len(sink.Errors()) != 0 {
		t.Fatalf("unexpected errors: %+v", sink.Errors())
	}
	found := false
	for _, tk := range toks {
		if tk.Kind == token.INTERFACE_PATH {
			found = true
			if tk.Value.(string) != "foo/bar-baz.qux" {
				t.Errorf("interface path = %q, want foo/bar-baz.qux", tk.Value)
			}
		}
	}
	if !found {
		t.Error("expected an INTERFACE_PATH token")
	}
}

func TestLexer_TokenRangesWithinBounds(t *testing.T) {
	src := "x := 1 + 2\nif x:\n    pass\n"
	toks, _ := lex(t, src)
	for _, tk := range toks {
		if tk.Range.Begin > tk.Range.End {
			t.Errorf("token %v has begin > end", tk.Kind)
		}
		if tk.Range.End > len(src) {
			t.Errorf("token %v range end %d exceeds source length %d", tk.Kind, tk.Range.End, len(src))
		}
	}
}
