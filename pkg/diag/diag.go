// Package diag implements the compiler's structured diagnostic system:
// accumulated (id, range, args) records with a kind (error/warning/note)
// determined by the id's registry entry, plus scoped "note context" so that
// a chain of notes (e.g. "imported here") can be attached automatically to
// whatever diagnostic eventually surfaces from within a scope.
package diag

import (
	"fmt"
	"strings"

	"github.com/CBerJun/acacia/pkg/source"
)

// Kind classifies a diagnostic.
type Kind int

// The three diagnostic kinds, in the order spec.md §6.6/§7 describes them.
const (
	Error Kind = iota
	Warning
	Note
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// ID is a stable diagnostic identifier, e.g. "invalid-dedent" or
// "unused-name".  The closed set of IDs is listed in spec.md §6.6.
type ID string

// registry maps each known ID to its kind and message template.  Templates
// use "${name}" and "${name raw}" substitution, matched against Diagnostic's
// Args at render time.
var registry = map[ID]entry{}

type entry struct {
	kind     Kind
	template string
}

// Register installs (or overwrites, for tests) a diagnostic id's kind and
// message template.  Called from an init() in this package for the builtin
// IDs (see catalog.go); binary modules may also register extra ids for
// ArgumentError translation (spec.md §7).
func Register(id ID, kind Kind, template string) {
	registry[id] = entry{kind, template}
}

// KindOf returns the registered kind for an id, defaulting to Error for any
// id that was never registered (fail safe: an unrecognised diagnostic still
// aborts the compile rather than being silently downgraded).
func KindOf(id ID) Kind {
	if e, ok := registry[id]; ok {
		return e.kind
	}
	return Error
}

// Diagnostic is a single structured record: an id, the source range it
// concerns, and named arguments substituted into the id's message template.
type Diagnostic struct {
	ID    ID
	Range source.Range
	Args  map[string]any
	// Notes attached to this diagnostic, most often populated from the
	// enclosing NoteContext stack at the moment the diagnostic was issued.
	Notes []Diagnostic
}

// Kind returns this diagnostic's severity.
func (d Diagnostic) Kind() Kind {
	return KindOf(d.ID)
}

// Message renders this diagnostic's template against its arguments.
func (d Diagnostic) Message() string {
	e, ok := registry[d.ID]
	if !ok {
		return string(d.ID)
	}
	return substitute(e.template, d.Args)
}

// Error implements the error interface so a Diagnostic can be returned
// anywhere a plain error is expected (e.g. from binary-module argument
// conversion before it is re-keyed to a call site, spec.md §7).
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Range, d.Kind(), d.Message())
}

func substitute(template string, args map[string]any) string {
	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] == '$' && i+1 < len(template) && template[i+1] == '{' {
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				b.WriteByte(template[i])
				i++
				continue
			}
			spec := template[i+2 : i+2+end]
			b.WriteString(renderArg(spec, args))
			i = i + 2 + end + 1
			continue
		}
		b.WriteByte(template[i])
		i++
	}
	return b.String()
}

// renderArg resolves one "${name}" or "${name raw}" substitution.  The
// "raw" suffix disables the plural/singular shaping that integer arguments
// otherwise receive.
func renderArg(spec string, args map[string]any) string {
	name := spec
	raw := false
	if strings.HasSuffix(spec, " raw") {
		name = strings.TrimSuffix(spec, " raw")
		raw = true
	}
	val, ok := args[name]
	if !ok {
		return "${" + spec + "}"
	}
	switch v := val.(type) {
	case PluralArg:
		if raw {
			return fmt.Sprintf("%d", v.N)
		}
		return v.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// PluralArg is an integer argument that shapes itself as singular or plural
// depending on its value, per spec.md §6.6 ("integer arguments expose
// plural/singular shaping").
type PluralArg struct {
	N        int
	Singular string
	Plural   string
}

func (p PluralArg) String() string {
	noun := p.Plural
	if p.N == 1 {
		noun = p.Singular
	}
	return fmt.Sprintf("%d %s", p.N, noun)
}
