package guide

import (
	"github.com/eykd/amigaguide-go/internal/parse"
)

// Renderer receives the content of a node. RenderNode calls Heading once,
// then paragraphs made of text, line breaks and links.
type Renderer interface {
	Heading(title string)
	BeginParagraph(wrap Wrap, proportional bool)
	EndParagraph()
	Text(text string)
	LineBreak()
	// LinkToNode is a link to an existing node, possibly in another guide.
	LinkToNode(label, file, node string)
	// LinkToOtherFile is a link to an existing file that is not a guide.
	LinkToOtherFile(label, file string)
	// LinkUnsupported is a link that cannot be followed, such as a broken
	// link or an ARexx command.
	LinkUnsupported(label string, state LinkState)
	EmbeddedFile(file string)
}

// RenderNode walks the items of node in g and reports them to r. Links are
// resolved through p. Formatting commands are skipped.
//
// Without wrapping every line ends with a line break inside one paragraph.
// With @wordwrap every line is a paragraph. With @smartwrap blank lines
// separate paragraphs and single line ends become spaces.
func RenderNode(p *Pile, g *Guide, node *NodeInfo, r Renderer) {
	w := &nodeWalker{r: r, wrap: node.Wrap(), proportional: node.IsProportional()}
	r.Heading(node.Title)
	for _, it := range g.NodeItems(node) {
		switch v := it.(type) {
		case *parse.NewLineItem:
			w.newLine()
		case *parse.CommandItem:
			switch {
			case v.IsLink():
				w.open()
				renderLink(p, v, r)
			case !v.Inline && v.Name == "embed":
				w.close()
				file, _ := v.Option(0)
				r.EmbeddedFile(g.resolvePath(file))
			}
		case parse.Valued:
			w.text(v.Value())
		case *parse.SpaceItem:
			w.text(v.Space)
		}
	}
	w.close()
}

func renderLink(p *Pile, cmd *parse.CommandItem, r Renderer) {
	label := cmd.LinkLabel()
	link, ok := p.LinkFor(cmd)
	if !ok {
		r.LinkUnsupported(label, StateUnchecked)
		return
	}
	switch link.State() {
	case StateValid:
		r.LinkToNode(label, link.TargetFile(), link.TargetNode())
	case StateValidOtherFile:
		r.LinkToOtherFile(label, link.TargetFile())
	default:
		r.LinkUnsupported(label, link.State())
	}
}

type nodeWalker struct {
	r            Renderer
	wrap         Wrap
	proportional bool
	inParagraph  bool
	newLines     int
}

func (w *nodeWalker) open() {
	if w.inParagraph {
		if w.wrap == WrapSmart && w.newLines == 1 {
			w.r.Text(" ")
		}
		w.newLines = 0
		return
	}
	w.r.BeginParagraph(w.wrap, w.proportional)
	w.inParagraph = true
	w.newLines = 0
}

func (w *nodeWalker) close() {
	if w.inParagraph {
		w.r.EndParagraph()
		w.inParagraph = false
	}
	w.newLines = 0
}

func (w *nodeWalker) text(s string) {
	w.open()
	w.r.Text(s)
}

func (w *nodeWalker) newLine() {
	switch w.wrap {
	case WrapWord:
		if !w.inParagraph {
			// An empty line is an empty paragraph.
			w.open()
		}
		w.close()
	case WrapSmart:
		w.newLines++
		if w.newLines >= 2 {
			w.close()
		}
	default:
		w.open()
		w.r.LineBreak()
	}
}
