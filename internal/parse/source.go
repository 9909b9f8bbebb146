// Package parse turns AmigaGuide text into an ordered sequence of items.
package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// HeaderMagic is the case-insensitive prefix every AmigaGuide document starts with.
const HeaderMagic = "@database"

// maxLineSize bounds a single physical line read from a source.
const maxLineSize = 1 << 20

// Source is a readable origin of guide text, used for reading and for
// attributing items and diagnostics.
type Source interface {
	// FullName identifies the source uniquely, e.g. an absolute file path.
	FullName() string
	// ShortName is the name shown to users, e.g. the base file name.
	ShortName() string
	// Open returns a reader over the UTF-8 decoded text. Each call starts over.
	Open() (io.ReadCloser, error)
}

// FileSource reads a guide from the local file system, decoding the legacy
// 8-bit Amiga character set.
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FullName returns the file path.
func (s *FileSource) FullName() string { return s.path }

// ShortName returns the base name of the file.
func (s *FileSource) ShortName() string { return filepath.Base(s.path) }

// Open opens the file and decodes it from Windows-1252 to UTF-8.
func (s *FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	return decodingReader{Reader: charmap.Windows1252.NewDecoder().Reader(f), Closer: f}, nil
}

type decodingReader struct {
	io.Reader
	io.Closer
}

// NewLegacyWriter returns a writer that encodes UTF-8 text back to the
// character set FileSource decodes. Runes outside it become the SUB byte.
// Close flushes buffered output but leaves w open.
func NewLegacyWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
}

// StringSource is an in-memory source, used for macro expansions and tests.
type StringSource struct {
	name string
	text string
}

// NewStringSource returns a source named name holding already decoded text.
func NewStringSource(name, text string) *StringSource {
	return &StringSource{name: name, text: text}
}

// FullName returns the name the source was created with.
func (s *StringSource) FullName() string { return s.name }

// ShortName returns the name the source was created with.
func (s *StringSource) ShortName() string { return s.name }

// Open returns a reader over the text.
func (s *StringSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.text)), nil
}

// ReadLines returns the physical lines of src without their line endings.
func ReadLines(src Source) ([]string, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.ShortName(), err)
	}
	return lines, nil
}

// HasGuideHeader reports whether data starts with the AmigaGuide magic,
// compared case-insensitively.
func HasGuideHeader(data []byte) bool {
	if len(data) < len(HeaderMagic) {
		return false
	}
	return bytes.EqualFold(data[:len(HeaderMagic)], []byte(HeaderMagic))
}

// IsGuideFile reports whether the file at path starts with the AmigaGuide magic.
func IsGuideFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(HeaderMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return HasGuideHeader(head[:n]), nil
}
