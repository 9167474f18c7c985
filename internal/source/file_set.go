package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotLoaded is returned by the cached accessors for units that were
// never loaded into the FileSet.
var ErrNotLoaded = errors.New("unit was never loaded")

// FileSet is the file accessor shared by every stage: it loads units from
// disk or memory and serves cached contents for diagnostics previews.
// Safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
	index map[string]FileID // name -> latest id
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add stores a unit under name and returns its id. A later Add with the same
// name shadows the earlier one for name lookups.
func (fs *FileSet) Add(name string, content []byte, flags FileFlags) FileID {
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	name = normalizePath(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, &File{
		ID:      id,
		Name:    name,
		Content: string(content),
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[name] = id
	return id
}

// AddVirtual adds an in-memory unit.
func (fs *FileSet) AddVirtual(name, content string) FileID {
	return fs.Add(name, []byte(content), FileVirtual)
}

// Load reads a unit from disk. A UTF-8 byte order mark is stripped.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	flags := FileFlags(0)
	if len(decoded) != len(raw) {
		flags |= FileHadBOM
	}
	return fs.Add(path, decoded, flags), nil
}

// Get returns the unit with the given id.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.files[id]
}

// Lookup returns the latest unit loaded under name.
func (fs *FileSet) Lookup(name string) (*File, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[normalizePath(name)]
	if !ok {
		return nil, false
	}
	return fs.files[id], true
}

// Cached returns the contents of a previously loaded unit. Unlike Load it
// never touches the disk; an unknown unit yields ErrNotLoaded.
func (fs *FileSet) Cached(unit string) (string, error) {
	f, ok := fs.Lookup(unit)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotLoaded, unit)
	}
	return f.Content, nil
}

// Line returns the 1-based line of a cached unit, without its newline.
func (fs *FileSet) Line(unit string, line uint32) (string, error) {
	f, ok := fs.Lookup(unit)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotLoaded, unit)
	}
	text, ok := f.GetLine(line)
	if !ok {
		return "", fmt.Errorf("%s has no line %d", unit, line)
	}
	return text, nil
}

// Len returns the number of loaded units, shadowed versions included.
func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// GetLine returns the 1-based line without its trailing newline.
func (f *File) GetLine(line uint32) (string, bool) {
	if line == 0 {
		return "", false
	}
	lines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	var start uint32
	if line > 1 {
		if line-2 >= lines {
			return "", false
		}
		start = f.LineIdx[line-2] + 1
	}
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if line-1 < lines {
		end = f.LineIdx[line-1]
	}
	if start > end {
		return "", false
	}
	return f.Content[start:end], true
}
