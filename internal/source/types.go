package source

type (
	// FileID identifies a loaded unit within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a loaded unit.
	FileFlags uint8
)

const (
	// FileVirtual marks units added from memory (tests, stdin, preprocessor output).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded unit.
type File struct {
	ID      FileID
	Name    string
	Content string
	LineIdx []uint32 // байтовые смещения '\n'
	Hash    [32]byte
	Flags   FileFlags
}
