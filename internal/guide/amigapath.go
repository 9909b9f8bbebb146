package guide

import (
	"os"
	"path/filepath"
	"strings"
)

// PathMapping maps an Amiga device or assign such as "Help:" to a local
// folder. An empty Folder marks the prefix as known but undefined.
type PathMapping struct {
	Prefix string `yaml:"amiga" json:"amiga"`
	Folder string `yaml:"local" json:"local,omitempty"`
}

// AmigaPaths resolves Amiga paths to local paths. It is immutable.
type AmigaPaths struct {
	mappings []PathMapping
}

// NewAmigaPaths returns a resolver for mappings in table order.
func NewAmigaPaths(mappings []PathMapping) *AmigaPaths {
	cp := make([]PathMapping, len(mappings))
	copy(cp, mappings)
	return &AmigaPaths{mappings: cp}
}

// Mappings returns a copy of the table.
func (p *AmigaPaths) Mappings() []PathMapping {
	cp := make([]PathMapping, len(p.mappings))
	copy(cp, p.mappings)
	return cp
}

// match returns the longest mapping whose prefix starts amigaPath, compared
// case-insensitively. Ties go to the earlier entry.
func (p *AmigaPaths) match(amigaPath string) (PathMapping, bool) {
	var best PathMapping
	found := false
	for _, m := range p.mappings {
		if len(m.Prefix) > len(amigaPath) || !strings.EqualFold(amigaPath[:len(m.Prefix)], m.Prefix) {
			continue
		}
		if !found || len(m.Prefix) > len(best.Prefix) {
			best, found = m, true
		}
	}
	return best, found
}

// Resolve converts amigaPath to a local path. Paths without a device are
// relative to baseDir. A leading "/" or an empty segment such as in "a//b"
// refers to the parent folder. Devices without a local folder resolve
// inside the temporary directory and are returned as undefined.
func (p *AmigaPaths) Resolve(amigaPath, baseDir string) (local, undefined string) {
	dir := baseDir
	rest := amigaPath
	if colon := strings.IndexByte(amigaPath, ':'); colon >= 0 {
		m, ok := p.match(amigaPath)
		switch {
		case ok && m.Folder != "":
			dir = m.Folder
			rest = amigaPath[len(m.Prefix):]
		case ok:
			dir = os.TempDir()
			rest = amigaPath[len(m.Prefix):]
			undefined = m.Prefix
		default:
			dir = os.TempDir()
			rest = amigaPath[colon+1:]
			undefined = amigaPath[:colon+1]
		}
	}

	result := dir
	segments := strings.Split(rest, "/")
	for i, seg := range segments {
		if seg == "" {
			if i == len(segments)-1 {
				continue
			}
			result = filepath.Dir(result)
			continue
		}
		result = filepath.Join(result, seg)
	}
	return filepath.Clean(result), undefined
}
