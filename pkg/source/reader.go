package source

import (
	"os"
	"path/filepath"
	"sync"
)

// Reader maps file paths (real and synthetic) to immutable source File
// buffers.  Real files are canonicalized and memoized by path, so reading
// the same path twice returns the same *File; in-memory buffers are given
// fresh synthetic names each time.
type Reader struct {
	mu      sync.Mutex
	real    map[string]*File
	fakeNum int
}

// NewReader constructs a fresh, empty Reader.
func NewReader() *Reader {
	return &Reader{real: make(map[string]*File)}
}

// GetRealFile reads and canonicalizes the file at the given path, memoizing
// the result by its canonical form so repeated requests for the same file
// return the identical *File.
func (r *Reader) GetRealFile(path string) (*File, error) {
	canon, err := filepath.Abs(path)
	if err != nil {
		canon = path
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.real[canon]; ok {
		return f, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := NewFile(path, string(bytes))
	r.real[canon] = f

	return f, nil
}

// DeleteRealFileCache purges the memoized entry for the given path, so a
// subsequent GetRealFile call re-reads it from disk.  Intended for tests
// that need to reload a file after mutating it on disk.
func (r *Reader) DeleteRealFileCache(path string) {
	canon, err := filepath.Abs(path)
	if err != nil {
		canon = path
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.real, canon)
}

// AddFakeFile allocates a synthetic source file entry for an in-memory
// buffer (e.g. a REPL snippet, or test fixture).  If displayName is empty, a
// fresh name of the form "<string>", "<string2>", ... is assigned.
func (r *Reader) AddFakeFile(text string, displayName string) *File {
	r.mu.Lock()
	defer r.mu.Unlock()

	if displayName == "" {
		r.fakeNum++
		if r.fakeNum == 1 {
			displayName = "<string>"
		} else {
			displayName = fakeName(r.fakeNum)
		}
	}

	return NewFile(displayName, text)
}

func fakeName(n int) string {
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return "<string" + string(digits) + ">"
}
