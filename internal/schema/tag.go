package schema

import (
	"fmt"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// Scope is where a command may appear.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeNode
	ScopeInline
	ScopeLink
)

var scopeNames = [...]string{"global", "node", "inline", "link"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Version is the AmigaGuide release that introduced a command.
type Version int

const (
	V34 Version = 34
	V39 Version = 39
	V40 Version = 40
)

// Tag describes one command in one scope.
type Tag struct {
	Name     string
	Version  Version
	Scope    Scope
	Options  []OptionType
	Unique   bool // at most once per document or node
	Obsolete bool
	Unused   bool // accepted but without effect
	Macro    *Macro
}

// Macro is the definition of a user macro.
type Macro struct {
	Body       string
	Definition parse.Position
}

// AcceptsTrailing reports whether the last option of t stands for all
// remaining options.
func (t *Tag) AcceptsTrailing() bool {
	return len(t.Options) > 0 && t.Options[len(t.Options)-1].Trailing()
}

func (t *Tag) String() string {
	return fmt.Sprintf("%s:%s", t.Scope, t.Name)
}

// NewMacro returns an inline tag that expands to body.
func NewMacro(name, body string, definition parse.Position) *Tag {
	return &Tag{
		Name:    name,
		Version: V34,
		Scope:   ScopeInline,
		Options: []OptionType{OptionAny},
		Macro:   &Macro{Body: body, Definition: definition},
	}
}
