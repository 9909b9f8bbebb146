package parse

import (
	"fmt"
	"strings"
)

// ItemKind is the closed set of item variants.
type ItemKind int

const (
	KindCommand ItemKind = iota
	KindText
	KindString
	KindSpace
	KindNewLine
)

var itemKindNames = [...]string{"command", "text", "string", "space", "newline"}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "unknown"
}

// Position is the 0-based location of an item within its source.
type Position struct {
	Source Source
	Line   int
	Column int
}

func (p Position) String() string {
	name := "?"
	if p.Source != nil {
		name = p.Source.ShortName()
	}
	return fmt.Sprintf("%s[%d:%d]", name, p.Line+1, p.Column+1)
}

// Item is one element of a parsed document. The concrete types are
// *CommandItem, *TextItem, *StringItem, *SpaceItem and *NewLineItem.
type Item interface {
	Kind() ItemKind
	Pos() Position
	// Pretty returns the item in AmigaGuide markup.
	Pretty() string
}

// Valued is an option item carrying a text value: *TextItem or *StringItem.
type Valued interface {
	Item
	Value() string
}

// SpaceItem is a run of blanks and tabs.
type SpaceItem struct {
	pos   Position
	Space string
}

// NewSpaceItem returns a SpaceItem at pos.
func NewSpaceItem(pos Position, space string) *SpaceItem {
	return &SpaceItem{pos: pos, Space: space}
}

func (i *SpaceItem) Kind() ItemKind { return KindSpace }
func (i *SpaceItem) Pos() Position  { return i.pos }
func (i *SpaceItem) Pretty() string { return i.Space }

// NewLineItem marks the end of a physical line.
type NewLineItem struct {
	pos Position
}

// NewNewLineItem returns a NewLineItem at pos.
func NewNewLineItem(pos Position) *NewLineItem {
	return &NewLineItem{pos: pos}
}

func (i *NewLineItem) Kind() ItemKind { return KindNewLine }
func (i *NewLineItem) Pos() Position  { return i.pos }
func (i *NewLineItem) Pretty() string { return "\n" }

// TextItem is plain text with escapes resolved.
type TextItem struct {
	pos  Position
	Text string
}

// NewTextItem resolves the "\\" and "\@" escapes in raw.
func NewTextItem(pos Position, raw string) *TextItem {
	return &TextItem{pos: pos, Text: unescape(raw)}
}

// NewPlainTextItem returns a TextItem holding text as is.
func NewPlainTextItem(pos Position, text string) *TextItem {
	return &TextItem{pos: pos, Text: text}
}

func (i *TextItem) Kind() ItemKind { return KindText }
func (i *TextItem) Pos() Position  { return i.pos }
func (i *TextItem) Value() string  { return i.Text }

// Pretty escapes backslashes and "@".
func (i *TextItem) Pretty() string { return Escape(i.Text) }

// StringItem is a quoted command option with its quotes removed.
type StringItem struct {
	pos  Position
	Text string
}

// NewStringItem strips the surrounding quotes from quoted.
func NewStringItem(pos Position, quoted string) *StringItem {
	text := strings.TrimPrefix(quoted, `"`)
	text = strings.TrimSuffix(text, `"`)
	return &StringItem{pos: pos, Text: text}
}

func (i *StringItem) Kind() ItemKind { return KindString }
func (i *StringItem) Pos() Position  { return i.pos }
func (i *StringItem) Value() string  { return i.Text }
func (i *StringItem) Pretty() string { return `"` + i.Text + `"` }

var (
	escaper   = strings.NewReplacer(`\`, `\\`, `@`, `\@`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\@`, `@`)
)

// Escape returns text in the form the tokenizer reads back as text.
func Escape(text string) string { return escaper.Replace(text) }

func unescape(raw string) string { return unescaper.Replace(raw) }
