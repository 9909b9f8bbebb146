package guide

import (
	"fmt"
	"strings"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// LinkType is the kind of a link.
type LinkType int

const (
	LinkAlink LinkType = iota
	LinkBeep
	LinkClose
	LinkGuide
	LinkLink
	LinkQuit
	LinkRelation
	LinkRx
	LinkRxs
	LinkSystem
)

var linkTypeNames = [...]string{"alink", "beep", "close", "guide", "link", "quit", "relation", "rx", "rxs", "system"}

func (t LinkType) String() string {
	if int(t) < len(linkTypeNames) {
		return linkTypeNames[t]
	}
	return "unknown"
}

// MarshalText encodes t by name.
func (t LinkType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// linkTypeByName resolves the link types usable in markup. "relation" is
// internal and has no markup spelling.
func linkTypeByName(name string) (LinkType, bool) {
	for i, n := range linkTypeNames {
		if n == name && LinkType(i) != LinkRelation {
			return LinkType(i), true
		}
	}
	return 0, false
}

// LinkState is the resolution state of a link.
type LinkState int

const (
	// StateUnchecked is the initial state.
	StateUnchecked LinkState = iota
	// StateValid is a link to an existing document and node.
	StateValid
	// StateValidOtherFile is a link to an existing file that is not a guide.
	StateValidOtherFile
	// StateValidGuideUncheckedNode is a link to an existing guide whose node
	// has not been looked up yet.
	StateValidGuideUncheckedNode
	// StateValidGuideBrokenNode is a link to an existing guide without the node.
	StateValidGuideBrokenNode
	// StateBroken is a link to a file that is missing or unreadable.
	StateBroken
	// StateUnsupported is a link that does not point to data, e.g. rx.
	StateUnsupported
)

var linkStateNames = [...]string{
	"unchecked", "valid", "valid-other-file", "valid-guide-unchecked-node",
	"valid-guide-broken-node", "broken", "unsupported",
}

func (s LinkState) String() string {
	if int(s) < len(linkStateNames) {
		return linkStateNames[s]
	}
	return "unknown"
}

// MarshalText encodes s by name.
func (s LinkState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether s can no longer change.
func (s LinkState) Terminal() bool {
	return s != StateUnchecked && s != StateValidGuideUncheckedNode
}

// canAdvance reports whether a link may move from s to next.
func (s LinkState) canAdvance(next LinkState) bool {
	switch s {
	case StateUnchecked:
		return next != StateUnchecked
	case StateValidGuideUncheckedNode:
		return next == StateValid || next == StateValidGuideBrokenNode
	}
	return false
}

// NoLine marks a link without line number.
const NoLine = -1

// Link is a hyperlink, a relation between nodes, or the implicit link a
// node definition makes to itself.
type Link struct {
	command  *parse.CommandItem
	guide    *Guide
	label    string
	typ      LinkType
	target   string
	line     int
	relation parse.Relation
	state    LinkState
	file     string
	node     string
}

// newLink creates a link from a link command whose type name has already
// been validated.
func newLink(g *Guide, cmd *parse.CommandItem, typ LinkType, line int) *Link {
	target, _ := cmd.Option(1)
	l := &Link{
		command: cmd,
		guide:   g,
		label:   cmd.LinkLabel(),
		typ:     typ,
		target:  target,
		line:    line,
		state:   StateUnchecked,
	}
	l.resolveTarget()
	return l
}

// newRelationLink creates a link from a relation command such as @next.
func newRelationLink(g *Guide, cmd *parse.CommandItem, rel parse.Relation) *Link {
	target, _ := cmd.Option(0)
	l := &Link{
		command:  cmd,
		guide:    g,
		label:    cmd.Name,
		typ:      LinkRelation,
		target:   target,
		line:     NoLine,
		relation: rel,
		state:    StateUnchecked,
	}
	l.resolveTarget()
	return l
}

// newNodeLink creates the already valid link a node definition makes to itself.
func newNodeLink(g *Guide, node *NodeInfo, rel parse.Relation) *Link {
	return &Link{
		command:  node.Start,
		guide:    g,
		label:    "(internal node link)",
		typ:      LinkRelation,
		target:   node.Name,
		line:     NoLine,
		relation: rel,
		state:    StateValid,
		file:     g.Path(),
		node:     node.Name,
	}
}

func (l *Link) resolveTarget() {
	switch l.typ {
	case LinkGuide:
		l.file = l.guide.resolvePath(l.target)
	case LinkLink, LinkAlink, LinkRelation:
		slash := strings.LastIndexByte(l.target, '/')
		if slash >= 0 {
			l.file = l.guide.resolvePath(l.target[:slash])
			l.node = strings.ToLower(l.target[slash+1:])
		} else {
			l.file = l.guide.Path()
			l.node = strings.ToLower(l.target)
		}
	}
}

// Command returns the command the link was created from.
func (l *Link) Command() *parse.CommandItem { return l.command }

// Guide returns the document the link belongs to.
func (l *Link) Guide() *Guide { return l.guide }

// Label returns the text shown for the link.
func (l *Link) Label() string { return l.label }

// Type returns the kind of the link.
func (l *Link) Type() LinkType { return l.typ }

// Target returns the target as written, e.g. "Help:App/manual.guide/main".
func (l *Link) Target() string { return l.target }

// Line returns the target line or NoLine.
func (l *Link) Line() int { return l.line }

// Relation returns the relation of a link with type LinkRelation.
func (l *Link) Relation() parse.Relation { return l.relation }

// State returns the resolution state.
func (l *Link) State() LinkState { return l.state }

// TargetFile returns the local path the target resolves to. It is empty for
// links that do not point to data.
func (l *Link) TargetFile() string { return l.file }

// TargetNode returns the lower-cased target node. It is empty for links to a
// whole document until the link has been validated.
func (l *Link) TargetNode() string { return l.node }

// IsData reports whether the link points to a file.
func (l *Link) IsData() bool {
	switch l.typ {
	case LinkAlink, LinkGuide, LinkLink, LinkRelation:
		return true
	}
	return false
}

func (l *Link) setState(next LinkState) {
	if !l.state.canAdvance(next) {
		panic(fmt.Sprintf("guide: link %s cannot change from %s to %s", l, l.state, next))
	}
	l.state = next
}

func (l *Link) String() string {
	return fmt.Sprintf("%s %s %q", l.command.Pos(), l.typ, l.target)
}
