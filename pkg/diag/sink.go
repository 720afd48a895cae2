package diag

import "github.com/CBerJun/acacia/pkg/source"

// Sink collects diagnostics issued over the course of compiling one or more
// modules.  It supports a scoped "note context": a stack of notes that, when
// non-empty, is automatically attached to every diagnostic issued while the
// stack is non-empty.  This lets e.g. an import chain push an "imported
// here" note before walking an imported module, have it attach to any error
// raised deep inside, and pop it again once the import completes — even
// though by the time the diagnostic is inspected the stack may have already
// unwound (spec.md §7).
type Sink struct {
	diagnostics []Diagnostic
	noteStack   []Diagnostic
}

// NewSink constructs a fresh, empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report issues a diagnostic with the given id, range and arguments.  Any
// notes currently on the note-context stack are copied onto it.
func (s *Sink) Report(id ID, rng source.Range, args map[string]any) Diagnostic {
	d := Diagnostic{ID: id, Range: rng, Args: args}
	if len(s.noteStack) > 0 {
		d.Notes = append(d.Notes, s.noteStack...)
	}
	s.diagnostics = append(s.diagnostics, d)
	return d
}

// ReportWithNote issues a diagnostic and appends one extra, locally-supplied
// note (e.g. a "previous definition here" note pointing at an earlier
// binding site) in addition to whatever is on the note-context stack.
func (s *Sink) ReportWithNote(id ID, rng source.Range, args map[string]any, noteID ID, noteRange source.Range,
	noteArgs map[string]any) Diagnostic {
	//
	d := s.Report(id, rng, args)
	note := Diagnostic{ID: noteID, Range: noteRange, Args: noteArgs}
	d.Notes = append(d.Notes, note)
	s.diagnostics[len(s.diagnostics)-1] = d
	return d
}

// PushNote pushes a note onto the note-context stack.  Every diagnostic
// reported until the matching PopNote will carry this note.
func (s *Sink) PushNote(id ID, rng source.Range, args map[string]any) {
	s.noteStack = append(s.noteStack, Diagnostic{ID: id, Range: rng, Args: args})
}

// PopNote pops the most recently pushed note.
func (s *Sink) PopNote() {
	if len(s.noteStack) > 0 {
		s.noteStack = s.noteStack[:len(s.noteStack)-1]
	}
}

// WithNote runs fn with the given note pushed onto the note-context stack,
// guaranteeing it is popped again even if fn panics (e.g. because a
// diagnostic aborts the current compilation unit via a higher-level
// recovery point).
func (s *Sink) WithNote(id ID, rng source.Range, args map[string]any, fn func()) {
	s.PushNote(id, rng, args)
	defer s.PopNote()
	fn()
}

// Diagnostics returns all diagnostics issued so far, in issue order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// HasErrors reports whether any diagnostic issued so far is of Error kind.
// A compilation as a whole succeeds iff this is false at the end (spec.md §7).
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Kind() == Error {
			return true
		}
	}
	return false
}

// Errors returns just the Error-kind diagnostics issued so far.
func (s *Sink) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range s.diagnostics {
		if d.Kind() == Error {
			out = append(out, d)
		}
	}
	return out
}
