package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the table of known commands keyed by name and scope. It is
// immutable after NewRegistry returns and may be shared between builds.
type Registry struct {
	tags  map[tagKey]*Tag
	links []string
}

type tagKey struct {
	scope Scope
	name  string
}

// NewRegistry returns a registry holding every command of AmigaGuide V34,
// V39 and V40. It panics if the table is malformed.
func NewRegistry() *Registry {
	r := &Registry{tags: make(map[tagKey]*Tag)}
	for _, t := range standardTags() {
		r.add(t)
	}
	sort.Strings(r.links)
	return r
}

func (r *Registry) add(t *Tag) {
	for i, o := range t.Options {
		if o.Trailing() && i != len(t.Options)-1 {
			panic(fmt.Sprintf("schema: option %q must be last for @%s", o, t.Name))
		}
	}
	if t.Unique && t.Scope == ScopeInline {
		panic(fmt.Sprintf("schema: inline command @%s cannot be unique", t.Name))
	}
	key := tagKey{scope: t.Scope, name: t.Name}
	if _, dup := r.tags[key]; dup {
		panic(fmt.Sprintf("schema: duplicate command %s", t))
	}
	r.tags[key] = t
	if t.Scope == ScopeLink {
		r.links = append(r.links, t.Name)
	}
}

// Lookup returns the tag for name in scope. Node scope falls back to global.
func (r *Registry) Lookup(name string, scope Scope) (*Tag, bool) {
	if t, ok := r.tags[tagKey{scope: scope, name: name}]; ok {
		return t, true
	}
	if scope == ScopeNode {
		t, ok := r.tags[tagKey{scope: ScopeGlobal, name: name}]
		return t, ok
	}
	return nil, false
}

// LinkTypes returns the sorted names of all link types.
func (r *Registry) LinkTypes() []string {
	out := make([]string, len(r.links))
	copy(out, r.links)
	return out
}

// ValidLinkTypes returns the link types as a quoted, comma separated list
// for messages.
func (r *Registry) ValidLinkTypes() string {
	quoted := make([]string, len(r.links))
	for i, name := range r.links {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}

type flag int

const (
	unique flag = 1 << iota
	obsolete
	unused
)

func tag(v Version, s Scope, name string, f flag, opts ...OptionType) *Tag {
	return &Tag{
		Name:     name,
		Version:  v,
		Scope:    s,
		Options:  opts,
		Unique:   f&unique != 0,
		Obsolete: f&obsolete != 0,
		Unused:   f&unused != 0,
	}
}

func standardTags() []*Tag {
	const (
		many   = OptionAny
		color  = OptionColor
		file   = OptionFile
		fnode  = OptionFileNode
		guide  = OptionGuide
		node   = OptionNode
		number = OptionNumber
		some   = OptionSome
		text   = OptionText
	)
	return []*Tag{
		// V34 global
		tag(V34, ScopeGlobal, "$ver:", unique, some),
		tag(V34, ScopeGlobal, "(c)", unique, some),
		tag(V34, ScopeGlobal, "author", unique, some),
		tag(V34, ScopeGlobal, "database", unique, many),
		tag(V34, ScopeGlobal, "dnode", unique|obsolete, many),
		tag(V34, ScopeGlobal, "endnode", 0),
		tag(V34, ScopeGlobal, "font", unique, text, number),
		tag(V34, ScopeGlobal, "height", unique|unused, number),
		tag(V34, ScopeGlobal, "help", unique, fnode),
		tag(V34, ScopeGlobal, "index", unique, fnode),
		tag(V34, ScopeGlobal, "master", unique|unused, text),
		tag(V34, ScopeGlobal, "node", 0, some),
		tag(V34, ScopeGlobal, "rem", 0, many),
		tag(V34, ScopeGlobal, "remark", 0, many),
		tag(V34, ScopeGlobal, "width", unique|unused, number),

		// V34 node
		tag(V34, ScopeNode, "font", unique, text, number),
		tag(V34, ScopeNode, "help", unique, fnode),
		tag(V34, ScopeNode, "index", unique, fnode),
		tag(V34, ScopeNode, "keywords", unique, many),
		tag(V34, ScopeNode, "next", unique, fnode),
		tag(V34, ScopeNode, "prev", unique, fnode),
		tag(V34, ScopeNode, "rem", 0, many),
		tag(V34, ScopeNode, "remark", 0, many),
		tag(V34, ScopeNode, "title", unique, text),
		tag(V34, ScopeNode, "toc", unique, fnode),

		// V34 inline
		tag(V34, ScopeInline, "bg", 0, color),
		tag(V34, ScopeInline, "fg", 0, color),

		// V34 link
		tag(V34, ScopeLink, "alink", 0, fnode, many),
		tag(V34, ScopeLink, "close", 0),
		tag(V34, ScopeLink, "link", 0, fnode, many),
		tag(V34, ScopeLink, "rx", 0, text),
		tag(V34, ScopeLink, "rxs", 0, file),
		tag(V34, ScopeLink, "system", 0, text),
		tag(V34, ScopeLink, "quit", 0),

		// V39 global
		tag(V39, ScopeGlobal, "wordwrap", unique),
		tag(V39, ScopeGlobal, "xref", unique, guide),

		// V39 node
		tag(V39, ScopeNode, "embed", 0, file),
		tag(V39, ScopeNode, "proportional", unique),
		tag(V39, ScopeNode, "wordwrap", unique),

		// V39 inline
		tag(V39, ScopeInline, "b", 0),
		tag(V39, ScopeInline, "i", 0),
		tag(V39, ScopeInline, "u", 0),
		tag(V39, ScopeInline, "ub", 0),
		tag(V39, ScopeInline, "ui", 0),
		tag(V39, ScopeInline, "uu", 0),

		// V39 link
		tag(V39, ScopeLink, "beep", 0),
		tag(V39, ScopeLink, "guide", 0, guide),

		// V40 global
		tag(V40, ScopeGlobal, "macro", 0, text, some),
		tag(V40, ScopeGlobal, "onclose", unique, file),
		tag(V40, ScopeGlobal, "onopen", unique, file),
		tag(V40, ScopeGlobal, "smartwrap", unique),
		tag(V40, ScopeGlobal, "tab", unique, number),

		// V40 node
		tag(V40, ScopeNode, "onclose", unique, file),
		tag(V40, ScopeNode, "onopen", unique, file),
		tag(V40, ScopeNode, "smartwrap", unique),
		tag(V40, ScopeNode, "tab", unique, number),

		// V40 inline
		tag(V40, ScopeInline, "amigaguide", 0),
		tag(V40, ScopeInline, "apen", 0, number),
		tag(V40, ScopeInline, "body", 0),
		tag(V40, ScopeInline, "bpen", 0, number),
		tag(V40, ScopeInline, "cleartabs", 0),
		tag(V40, ScopeInline, "code", 0),
		tag(V40, ScopeInline, "jcenter", 0),
		tag(V40, ScopeInline, "jleft", 0),
		tag(V40, ScopeInline, "jright", 0),
		tag(V40, ScopeInline, "lindent", 0, number),
		tag(V40, ScopeInline, "line", 0),
		tag(V40, ScopeInline, "par", 0),
		tag(V40, ScopeInline, "pard", 0),
		tag(V40, ScopeInline, "pari", 0, number),
		tag(V40, ScopeInline, "plain", 0),
		tag(V40, ScopeInline, "settabs", 0, some),
		tag(V40, ScopeInline, "tab", 0),
	}
}
