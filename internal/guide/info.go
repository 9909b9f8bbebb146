package guide

import (
	"regexp"
	"strings"

	"github.com/eykd/amigaguide-go/internal/parse"
)

var (
	// Most specific first: "2001-2008 holder" before "2008 holder".
	copyrightYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d+\s*-\s*\d+\s`),
		regexp.MustCompile(`^\d+\s`),
	}
	whitespace = regexp.MustCompile(`\s+`)
)

// monospacedFonts are the ROM fonts with fixed width.
var monospacedFonts = map[string]bool{"topaz": true, "xen": true}

// Font is a font name such as "topaz.font" with its size.
type Font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// DatabaseInfo holds the document wide settings.
type DatabaseInfo struct {
	Name            string
	Author          string
	Version         string
	Copyright       string
	CopyrightYear   string
	CopyrightHolder string
	font            *Font
	wrap            Wrap
	relations       map[parse.Relation]*Link
}

func newDatabaseInfo(name string) *DatabaseInfo {
	return &DatabaseInfo{
		Name:      strings.TrimSuffix(name, ".guide"),
		wrap:      WrapNone,
		relations: make(map[parse.Relation]*Link),
	}
}

// setCopyright stores text and splits a leading year or year range from
// the holder.
func (d *DatabaseInfo) setCopyright(text string) {
	d.Copyright = text
	d.CopyrightYear = ""
	d.CopyrightHolder = ""
	for _, re := range copyrightYearPatterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		d.CopyrightYear = whitespace.ReplaceAllString(text[:loc[1]], "")
		d.CopyrightHolder = strings.TrimSpace(text[loc[1]:])
		return
	}
}

// Font returns the document font.
func (d *DatabaseInfo) Font() (Font, bool) {
	if d.font == nil {
		return Font{}, false
	}
	return *d.font, true
}

// Wrap returns the document wrap mode.
func (d *DatabaseInfo) Wrap() Wrap { return d.wrap }

// Relation returns the document level default for r.
func (d *DatabaseInfo) Relation(r parse.Relation) (*Link, bool) {
	l, ok := d.relations[r]
	return l, ok
}

// NodeInfo holds the settings of one node. Unset settings fall back to the
// DatabaseInfo of the document.
type NodeInfo struct {
	Name  string // lower-cased
	Title string
	Start *parse.CommandItem
	End   *parse.CommandItem

	db           *DatabaseInfo
	font         *Font
	wrap         Wrap
	proportional bool
	relations    map[parse.Relation]*Link
}

func newNodeInfo(db *DatabaseInfo, start, end *parse.CommandItem) *NodeInfo {
	name, _ := start.Option(0)
	title, ok := start.Option(1)
	if !ok {
		title = name
	}
	return &NodeInfo{
		Name:      strings.ToLower(name),
		Title:     title,
		Start:     start,
		End:       end,
		db:        db,
		relations: make(map[parse.Relation]*Link),
	}
}

// Font returns the node font, or the document font if the node has none.
func (n *NodeInfo) Font() (Font, bool) {
	if n.font != nil {
		return *n.font, true
	}
	return n.db.Font()
}

// Wrap returns the node wrap mode, or the document mode if the node has none.
func (n *NodeInfo) Wrap() Wrap {
	if n.wrap != WrapDefault {
		return n.wrap
	}
	return n.db.wrap
}

// IsProportional reports whether the node text uses a proportional font,
// either by @proportional or because its font is not monospaced.
func (n *NodeInfo) IsProportional() bool {
	if n.proportional {
		return true
	}
	f, ok := n.Font()
	if !ok {
		return false
	}
	base := strings.TrimSuffix(strings.ToLower(f.Name), ".font")
	return !monospacedFonts[base]
}

// Relation returns the link for r.
func (n *NodeInfo) Relation(r parse.Relation) (*Link, bool) {
	l, ok := n.relations[r]
	return l, ok
}

// Relations returns the relations that are set, in canonical order.
func (n *NodeInfo) Relations() []*Link {
	var out []*Link
	for _, r := range parse.Relations {
		if l, ok := n.relations[r]; ok {
			out = append(out, l)
		}
	}
	return out
}

// setEmptyRelation sets r to l unless r is already set or l is nil.
func (n *NodeInfo) setEmptyRelation(r parse.Relation, l *Link) {
	if l == nil {
		return
	}
	if _, ok := n.relations[r]; !ok {
		n.relations[r] = l
	}
}
