package parse

import (
	"strings"
)

// Relation is a navigational relation between nodes or documents.
type Relation int

const (
	RelationHelp Relation = iota
	RelationIndex
	RelationNext
	RelationPrevious
	RelationContents
)

// Relations lists all relations in their canonical order.
var Relations = []Relation{RelationHelp, RelationIndex, RelationNext, RelationPrevious, RelationContents}

var relationNames = [...]string{"help", "index", "next", "previous", "contents"}

func (r Relation) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return "unknown"
}

// relationCommands maps command names to relations. @prev and @toc are the
// markup spellings of previous and contents.
var relationCommands = map[string]Relation{
	"help":     RelationHelp,
	"index":    RelationIndex,
	"next":     RelationNext,
	"prev":     RelationPrevious,
	"previous": RelationPrevious,
	"toc":      RelationContents,
	"contents": RelationContents,
}

// CommandItem is a line command such as "@node main" or an inline command
// such as "@{b}" or "@{"Label" link target}".
type CommandItem struct {
	pos Position
	// Name is the lower-cased command name. For links it is the quoted label.
	Name string
	// OriginalName is the name as written.
	OriginalName string
	Inline       bool
	items        []Item // options interleaved with spaces, without the closing brace
}

// NewCommandItem returns a command named name with the raw option items.
func NewCommandItem(pos Position, name string, inline bool, items []Item) *CommandItem {
	return &CommandItem{
		pos:          pos,
		Name:         strings.ToLower(name),
		OriginalName: name,
		Inline:       inline,
		items:        items,
	}
}

func (c *CommandItem) Kind() ItemKind { return KindCommand }
func (c *CommandItem) Pos() Position  { return c.pos }

// IsLink reports whether c is a link such as @{"Label" link target}.
func (c *CommandItem) IsLink() bool {
	return c.Inline && strings.HasPrefix(c.Name, `"`)
}

// IsLineCommand reports whether c is a command that spans a whole line.
func (c *CommandItem) IsLineCommand() bool { return !c.Inline }

// Relation returns the relation c declares, if any.
func (c *CommandItem) Relation() (Relation, bool) {
	if c.Inline {
		return 0, false
	}
	r, ok := relationCommands[c.Name]
	return r, ok
}

// IsRelation reports whether c declares a relation.
func (c *CommandItem) IsRelation() bool {
	_, ok := c.Relation()
	return ok
}

// LinkLabel returns the label of a link without its quotes.
func (c *CommandItem) LinkLabel() string {
	label := strings.TrimPrefix(c.OriginalName, `"`)
	return strings.TrimSuffix(label, `"`)
}

// Items returns a copy of the raw option items, spaces included.
func (c *CommandItem) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *CommandItem) options() []Valued {
	var opts []Valued
	for _, it := range c.items {
		if v, ok := it.(Valued); ok {
			opts = append(opts, v)
		}
	}
	return opts
}

// OptionCount returns the number of options, spaces not counted.
func (c *CommandItem) OptionCount() int { return len(c.options()) }

// Option returns the value of the option at logical index i.
func (c *CommandItem) Option(i int) (string, bool) {
	opts := c.options()
	if i < 0 || i >= len(opts) {
		return "", false
	}
	return opts[i].Value(), true
}

// OptionItem returns the option item at logical index i or nil.
func (c *CommandItem) OptionItem(i int) Valued {
	opts := c.options()
	if i < 0 || i >= len(opts) {
		return nil
	}
	return opts[i]
}

// AllOptionsText returns the values of all option items joined by their
// original spacing, trimmed.
func (c *CommandItem) AllOptionsText() string { return c.OptionsTextFrom(0) }

// OptionsTextFrom is like AllOptionsText but starts at logical option i.
func (c *CommandItem) OptionsTextFrom(i int) string { return c.optionsText(i, false) }

// OptionsMarkupFrom is like OptionsTextFrom but keeps quoted options in
// quotes, so the result reads back as the same tokens.
func (c *CommandItem) OptionsMarkupFrom(i int) string { return c.optionsText(i, true) }

func (c *CommandItem) optionsText(i int, quoted bool) string {
	var b strings.Builder
	index := 0
	for _, it := range c.items {
		switch v := it.(type) {
		case *SpaceItem:
			if index > i {
				b.WriteString(v.Space)
			}
		case *StringItem:
			if index >= i {
				if quoted {
					b.WriteString(v.Pretty())
				} else {
					b.WriteString(v.Value())
				}
			}
			index++
		case Valued:
			if index >= i {
				b.WriteString(v.Value())
			}
			index++
		}
	}
	return strings.TrimSpace(b.String())
}

func (c *CommandItem) clone(items []Item) *CommandItem {
	cp := *c
	cp.items = items
	return &cp
}

// WithOption returns a copy of c where the option at logical index i has
// value. Missing options before i are filled with empty strings.
func (c *CommandItem) WithOption(i int, value string) *CommandItem {
	items := c.Items()
	index := 0
	for raw, it := range items {
		if _, ok := it.(Valued); !ok {
			continue
		}
		if index == i {
			items[raw] = newOptionItem(it.Pos(), value)
			return c.clone(items)
		}
		index++
	}
	pos := c.endPos(items)
	for ; index <= i; index++ {
		v := ""
		if index == i {
			v = value
		}
		items = append(items, NewSpaceItem(pos, " "), newOptionItem(pos, v))
	}
	return c.clone(items)
}

// WithOptionsCut returns a copy of c that keeps only the options before
// logical index i and drops trailing spaces.
func (c *CommandItem) WithOptionsCut(i int) *CommandItem {
	var items []Item
	index := 0
	for _, it := range c.items {
		if _, ok := it.(Valued); ok {
			if index == i {
				break
			}
			index++
		}
		items = append(items, it)
	}
	for len(items) > 0 && items[len(items)-1].Kind() == KindSpace {
		items = items[:len(items)-1]
	}
	return c.clone(items)
}

func (c *CommandItem) endPos(items []Item) Position {
	if len(items) == 0 {
		pos := c.pos
		pos.Column += len([]rune(c.OriginalName)) + 1
		return pos
	}
	return items[len(items)-1].Pos()
}

// newOptionItem keeps values that need no quotes as text.
func newOptionItem(pos Position, value string) Valued {
	if value == "" || needsQuotes(value, true) {
		return &StringItem{pos: pos, Text: value}
	}
	return &TextItem{pos: pos, Text: value}
}

func needsQuotes(text string, inline bool) bool {
	if text == "" {
		return true
	}
	if inline && strings.Contains(text, "}") {
		return true
	}
	return strings.ContainsAny(text, " \t\"")
}

// Short returns an abbreviated form for messages, e.g. "@node" or
// `@{"Label" link}`.
func (c *CommandItem) Short() string {
	if c.IsLink() {
		kind, _ := c.Option(0)
		return `@{` + c.OriginalName + ` ` + kind + `}`
	}
	if c.Inline {
		return "@{" + c.Name + "}"
	}
	return "@" + c.Name
}

// Pretty returns the command in AmigaGuide markup. Line commands end with a
// newline since they absorb the end of their line.
func (c *CommandItem) Pretty() string {
	var b strings.Builder
	b.WriteByte('@')
	if c.Inline {
		b.WriteByte('{')
	}
	b.WriteString(c.OriginalName)
	for _, it := range c.items {
		switch v := it.(type) {
		case *TextItem:
			if needsQuotes(v.Text, c.Inline) {
				b.WriteString(`"` + v.Text + `"`)
			} else {
				b.WriteString(strings.ReplaceAll(v.Text, `\`, `\\`))
			}
		default:
			b.WriteString(it.Pretty())
		}
	}
	if c.Inline {
		b.WriteByte('}')
	} else {
		b.WriteByte('\n')
	}
	return b.String()
}

// ToTextItem returns the label of a link as plain text, used when the link
// cannot be kept.
func (c *CommandItem) ToTextItem() *TextItem {
	pos := c.pos
	pos.Column += 2
	return NewPlainTextItem(pos, c.LinkLabel())
}
