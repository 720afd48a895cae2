// Package source provides the primitives used throughout the compiler for
// addressing positions within, and spans of, a piece of Acacia source text.
package source

import "fmt"

// File is an immutable (name, text) pair together with a lazily computed
// line-offset table.  Entries are produced by a Reader, which deduplicates
// real files by canonical path and assigns fresh synthetic names to
// in-memory buffers.
type File struct {
	// name is the display name for this file (a real path, or a synthetic
	// name such as "<string>" or "<string2>").
	name string
	// text is the full contents of the file.
	text string
	// offsets[i] is the byte offset at which line i+1 (1-indexed) begins.
	// Computed lazily by lineOffsets().
	offsets []int
}

// NewFile constructs a new source file from a name and its contents.
func NewFile(name string, text string) *File {
	return &File{name: name, text: text}
}

// Name returns the display name associated with this file.
func (f *File) Name() string {
	return f.name
}

// Text returns the full contents of this file.
func (f *File) Text() string {
	return f.text
}

// lineOffsets computes (and memoizes) the table mapping 1-indexed line
// numbers to byte offsets.  A sentinel entry for the (possibly empty) line
// following the final newline is always present, so that range queries into
// the position just past EOF remain well-defined.
func (f *File) lineOffsets() []int {
	if f.offsets != nil {
		return f.offsets
	}
	offsets := []int{0}
	for i, r := range f.text {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	f.offsets = offsets
	return f.offsets
}

// Location computes the 1-indexed (line, column) pair for a given byte
// offset into this file's text.
func (f *File) Location(offset int) Location {
	offsets := f.lineOffsets()
	// Binary search for the last offset <= the given one.
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo + 1
	column := offset - offsets[lo] + 1
	return Location{File: f, Line: line, Column: column}
}

// LineCount returns the number of lines in this file (always at least 1).
func (f *File) LineCount() int {
	return len(f.lineOffsets())
}

// Line returns the text of the given 1-indexed line, without its trailing
// newline.
func (f *File) Line(n int) string {
	offsets := f.lineOffsets()
	if n < 1 || n > len(offsets) {
		return ""
	}
	start := offsets[n-1]
	end := len(f.text)
	if n < len(offsets) {
		end = offsets[n] - 1
	}
	if end > start && f.text[end-1] == '\r' {
		end--
	}
	return f.text[start:end]
}

// Location identifies a single (file, line, column) position, 1-indexed.
type Location struct {
	File   *File
	Line   int
	Column int
}

// String renders this location as "name:line:column".
func (l Location) String() string {
	name := "<unknown>"
	if l.File != nil {
		name = l.File.Name()
	}
	return fmt.Sprintf("%s:%d:%d", name, l.Line, l.Column)
}

// Range identifies a contiguous span of text within a single file.  Begin is
// inclusive, End is exclusive.  Invariant: Begin's offset is always <= End's
// offset.
type Range struct {
	File  *File
	Begin int // byte offset, inclusive
	End   int // byte offset, exclusive
}

// NewRange constructs a range within the given file.  Panics if begin > end,
// since that would violate the fundamental range invariant.
func NewRange(file *File, begin, end int) Range {
	if begin > end {
		panic("source.NewRange: begin > end")
	}
	return Range{File: file, Begin: begin, End: end}
}

// Text returns the substring of the underlying file covered by this range.
func (r Range) Text() string {
	return r.File.Text()[r.Begin:r.End]
}

// BeginLocation returns the location of this range's start.
func (r Range) BeginLocation() Location {
	return r.File.Location(r.Begin)
}

// EndLocation returns the location of this range's (exclusive) end.  Since
// End is exclusive, this is the location of the character immediately after
// the range.
func (r Range) EndLocation() Location {
	return r.File.Location(r.End)
}

// Union returns the smallest range which contains both r and other.  Both
// must refer to the same file.
func (r Range) Union(other Range) Range {
	if r.File != other.File {
		panic("source.Range.Union: ranges from different files")
	}
	begin := r.Begin
	if other.Begin < begin {
		begin = other.Begin
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{File: r.File, Begin: begin, End: end}
}

// Lines returns the set of 1-indexed line numbers covered by this range.
// Always returns at least one entry, even for a zero-width range.
func (r Range) Lines() []int {
	begin := r.BeginLocation().Line
	end := r.EndLocation().Line
	lines := make([]int, 0, end-begin+1)
	for i := begin; i <= end; i++ {
		lines = append(lines, i)
	}
	return lines
}

// String renders this range for debugging purposes.
func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.BeginLocation(), r.EndLocation())
}
