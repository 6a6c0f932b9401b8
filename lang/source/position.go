// Package source tracks source files and byte-offset spans across them, the
// same way every diagnostic, instruction and declaration in the rest of the
// module pins itself to a place in the original text.
//
// The FileSet/File split mirrors the teacher repository's own (partially
// sketched) token.FileSet references in lang/parser, lang/resolver and
// lang/compiler, generalized into a complete offset-based position scheme in
// the style of go/token's FileSet — the teacher's scanner package already
// wraps go/scanner directly, so completing the FileSet half of that pairing
// the same way is in keeping with its own idiom.
package source

import "fmt"

// FileID identifies a file registered in a FileSet.
type FileID uint32

// Position is a (file, span) triple. It is purely informational: every
// instruction, diagnostic and declaration carries one so that downstream
// tools can point back at source text, but nothing in the resolver,
// compiler or machine branches on its value.
type Position struct {
	File  FileID
	Start uint32 // byte offset, inclusive
	End   uint32 // byte offset, exclusive
}

// IsValid reports whether the position refers to a real file.
func (p Position) IsValid() bool { return p.File != 0 }

// File records a single source file's name and line-start offsets, so that
// a byte offset can be converted to a human 1-based line/column pair for
// diagnostics.
type File struct {
	id          FileID
	name        string
	size        uint32
	lineOffsets []uint32 // lineOffsets[i] = byte offset of the first byte of line i+1
}

// Name returns the file's registered name (typically a path).
func (f *File) Name() string { return f.name }

// Size returns the number of bytes in the file.
func (f *File) Size() uint32 { return f.size }

// LineCol converts a byte offset within the file into a 1-based line and
// column.
func (f *File) LineCol(offset uint32) (line, col int) {
	lo, hi := 0, len(f.lineOffsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if f.lineOffsets[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line = lo
	col = int(offset-f.lineOffsets[lo-1]) + 1
	return line, col
}

// FileSet is an append-only registry of source files. Every Position's
// FileID is an index into the set that produced it.
type FileSet struct {
	files []*File
}

// NewFileSet returns an empty file set. Index 0 is reserved so that the
// zero Position{} is recognizably invalid (see Position.IsValid).
func NewFileSet() *FileSet {
	return &FileSet{files: []*File{nil}}
}

// AddFile registers a new file with the given name and content, returning
// its FileID for use in Position values.
func (fs *FileSet) AddFile(name string, content []byte) FileID {
	id := FileID(len(fs.files))
	f := &File{id: id, name: name, size: uint32(len(content)), lineOffsets: []uint32{0}}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			f.lineOffsets = append(f.lineOffsets, uint32(i+1))
		}
	}
	fs.files = append(fs.files, f)
	return id
}

// File returns the File registered under id, or nil if id is unknown.
func (fs *FileSet) File(id FileID) *File {
	if int(id) <= 0 || int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Format renders a position as "name:line:col-line:col" (or just
// "name:line:col" when the span is empty), falling back to raw offsets if
// the file is unknown.
func (fs *FileSet) Format(p Position) string {
	f := fs.File(p.File)
	if f == nil {
		return fmt.Sprintf("<unknown>:%d-%d", p.Start, p.End)
	}
	sl, sc := f.LineCol(p.Start)
	if p.Start == p.End {
		return fmt.Sprintf("%s:%d:%d", f.name, sl, sc)
	}
	el, ec := f.LineCol(p.End)
	return fmt.Sprintf("%s:%d:%d-%d:%d", f.name, sl, sc, el, ec)
}
