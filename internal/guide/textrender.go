package guide

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TextRenderer renders nodes as plain text. Links show their target in
// brackets after the label.
type TextRenderer struct {
	w         io.Writer
	paragraph strings.Builder
	err       error
}

// NewTextRenderer returns a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// Err returns the first write error.
func (t *TextRenderer) Err() error { return t.err }

func (t *TextRenderer) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

func (t *TextRenderer) Heading(title string) {
	t.write(title + "\n" + strings.Repeat("=", utf8.RuneCountInString(title)) + "\n\n")
}

func (t *TextRenderer) BeginParagraph(Wrap, bool) { t.paragraph.Reset() }

func (t *TextRenderer) EndParagraph() {
	t.write(strings.TrimRight(t.paragraph.String(), " \t\n") + "\n\n")
	t.paragraph.Reset()
}

func (t *TextRenderer) Text(text string) { t.paragraph.WriteString(text) }

func (t *TextRenderer) LineBreak() { t.paragraph.WriteByte('\n') }

func (t *TextRenderer) LinkToNode(label, file, node string) {
	fmt.Fprintf(&t.paragraph, "%s [%s/%s]", label, filepath.Base(file), node)
}

func (t *TextRenderer) LinkToOtherFile(label, file string) {
	fmt.Fprintf(&t.paragraph, "%s [%s]", label, filepath.Base(file))
}

func (t *TextRenderer) LinkUnsupported(label string, state LinkState) {
	fmt.Fprintf(&t.paragraph, "%s [%s]", label, state)
}

func (t *TextRenderer) EmbeddedFile(file string) {
	t.write(fmt.Sprintf("[embedded %s]\n\n", filepath.Base(file)))
}
