package guide

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eykd/amigaguide-go/internal/parse"
	"github.com/eykd/amigaguide-go/internal/schema"
)

// validator checks commands against the registry while tracking the
// current node.
type validator struct {
	g          *Guide
	ends       map[*parse.CommandItem]*parse.CommandItem
	node       *NodeInfo
	globalSeen map[string]*parse.CommandItem
	nodeSeen   map[string]*parse.CommandItem
}

// validateCommands returns items without unknown or broken commands and
// applies the settings of the remaining ones to the document and its nodes.
func (g *Guide) validateCommands(items []parse.Item, ends map[*parse.CommandItem]*parse.CommandItem) []parse.Item {
	v := &validator{
		g:          g,
		ends:       ends,
		globalSeen: make(map[string]*parse.CommandItem),
		nodeSeen:   make(map[string]*parse.CommandItem),
	}
	out := make([]parse.Item, 0, len(items))
	for _, it := range items {
		cmd, ok := it.(*parse.CommandItem)
		if !ok {
			out = append(out, it)
			continue
		}
		if kept := v.command(cmd); kept != nil {
			out = append(out, kept)
		}
	}
	if len(g.nodes) != len(ends) || len(g.nodes) != len(g.nodeNames) {
		panic(fmt.Sprintf("guide: %s has %d nodes but %d node bounds", g.source.ShortName(), len(g.nodes), len(ends)))
	}
	return out
}

func (v *validator) scope(cmd *parse.CommandItem) schema.Scope {
	switch {
	case cmd.IsLink():
		return schema.ScopeLink
	case cmd.Inline:
		return schema.ScopeInline
	case v.node != nil:
		return schema.ScopeNode
	}
	return schema.ScopeGlobal
}

// command validates cmd and returns the item to keep in its place, or nil.
func (v *validator) command(cmd *parse.CommandItem) parse.Item {
	g := v.g
	diags := g.cfg.Diagnostics

	if !cmd.Inline {
		switch cmd.Name {
		case "node":
			node := newNodeInfo(g.info, cmd, v.ends[cmd])
			g.nodes = append(g.nodes, node)
			g.nodeNames[node.Name] = node
			v.node = node
		case "endnode":
			v.node = nil
			clear(v.nodeSeen)
		}
	}

	scope := v.scope(cmd)
	if scope == schema.ScopeLink {
		return v.link(cmd)
	}

	tag, ok := g.cfg.Registry.Lookup(cmd.Name, scope)
	if !ok {
		diags.At(cmd, parse.SeverityError, CodeUnknownCommand, fmt.Sprintf("removed unknown command %s", cmd.Short()))
		return nil
	}

	if tag.Unique {
		seen, where := v.globalSeen, "document"
		if tag.Scope == schema.ScopeNode {
			seen, where = v.nodeSeen, "node"
		}
		if prev, dup := seen[cmd.Name]; dup {
			diags.AtSeeAlso(cmd, parse.SeverityError, CodeDuplicateUnique,
				fmt.Sprintf("removed duplicate %s because it must be unique within %s", cmd.Short(), where),
				prev, "previous occurrence")
			return nil
		}
		seen[cmd.Name] = cmd
	}

	switch {
	case tag.Obsolete:
		diags.At(cmd, parse.SeverityInfo, CodeObsoleteCommand, fmt.Sprintf("ignored obsolete command %s", cmd.Short()))
	case tag.Unused:
		diags.At(cmd, parse.SeverityInfo, CodeUnusedCommand, fmt.Sprintf("ignored unused command %s", cmd.Short()))
	}

	for i, typ := range tag.Options {
		value, present := cmd.Option(i)
		if err := typ.Validate(value, present); err != nil {
			diags.At(cmd, parse.SeverityError, CodeBrokenOption,
				fmt.Sprintf("removed %s because option #%d is broken: %v", cmd.Short(), i+1, err))
			return nil
		}
		if typ.Trailing() {
			break
		}
	}
	if !tag.AcceptsTrailing() && cmd.OptionCount() > len(tag.Options) {
		extra, _ := cmd.Option(len(tag.Options))
		diags.At(cmd, parse.SeverityInfo, CodeUnexpectedOption,
			fmt.Sprintf("ignored unexpected option #%d (and possible further options) for %s: %q",
				len(tag.Options)+1, cmd.Short(), extra))
	}

	if !v.apply(cmd) {
		return nil
	}
	return cmd
}

// apply stores the settings of cmd in the current node or the document.
// It returns false if cmd has to be removed.
func (v *validator) apply(cmd *parse.CommandItem) bool {
	g := v.g
	if cmd.Inline {
		return true
	}
	if rel, ok := cmd.Relation(); ok {
		link := newRelationLink(g, cmd, rel)
		if v.node != nil {
			v.node.relations[rel] = link
		} else {
			g.info.relations[rel] = link
		}
		return true
	}

	switch cmd.Name {
	case "author":
		g.info.Author = cmd.AllOptionsText()
	case "$ver:":
		g.info.Version = cmd.AllOptionsText()
	case "(c)":
		g.info.setCopyright(cmd.AllOptionsText())
	case "font":
		name, _ := cmd.Option(0)
		sizeText, _ := cmd.Option(1)
		size, err := strconv.Atoi(sizeText)
		if err != nil || size <= 0 {
			g.cfg.Diagnostics.At(cmd, parse.SeverityError, CodeBrokenFontSize,
				fmt.Sprintf("removed @font because font size must be a number greater than 0 but is %q", sizeText))
			return false
		}
		font := &Font{Name: name, Size: size}
		if v.node != nil {
			v.node.font = font
		} else {
			g.info.font = font
		}
	case "title":
		if v.node != nil {
			v.node.Title = cmd.AllOptionsText()
		}
	case "proportional":
		if v.node != nil {
			v.node.proportional = true
		}
	case "smartwrap":
		v.setWrap(WrapSmart)
	case "wordwrap":
		v.setWrap(WrapWord)
	}
	return true
}

func (v *validator) setWrap(w Wrap) {
	if v.node != nil {
		v.node.wrap = w
	} else {
		v.g.info.wrap = w
	}
}

// link validates a link command. Links that cannot be kept are replaced by
// their label.
func (v *validator) link(cmd *parse.CommandItem) parse.Item {
	g := v.g
	diags := g.cfg.Diagnostics

	typeName, ok := cmd.Option(0)
	if !ok {
		return v.replaceLink(cmd, "empty link", "")
	}
	typeName = strings.ToLower(typeName)
	tag, ok := g.cfg.Registry.Lookup(typeName, schema.ScopeLink)
	if !ok {
		return v.replaceLink(cmd, "unknown link", fmt.Sprintf("type is %q but must be one of: %s", typeName, g.cfg.Registry.ValidLinkTypes()))
	}
	for i, typ := range tag.Options {
		value, present := cmd.Option(i + 1)
		if err := typ.Validate(value, present); err != nil {
			return v.replaceLink(cmd, "link with broken option", fmt.Sprintf("option #%d: %v", i+2, err))
		}
	}

	if typeName == "alink" {
		cmd = cmd.WithOption(0, "link")
		diags.At(cmd, parse.SeverityWarning, CodeObsoleteLinkType,
			fmt.Sprintf("replaced obsolete @{%s alink} by @{%s link}", cmd.OriginalName, cmd.OriginalName))
	}
	if limit := len(tag.Options) + 1; cmd.OptionCount() > limit {
		cmd = cmd.WithOptionsCut(limit)
		diags.At(cmd, parse.SeverityWarning, CodeUnexpectedLinkOptions,
			fmt.Sprintf("removed unexpected link options starting with option #%d", limit+1))
	}
	return cmd
}

func (v *validator) replaceLink(cmd *parse.CommandItem, reason, detail string) parse.Item {
	msg := fmt.Sprintf("replaced %s by its label: %s", reason, strings.TrimSuffix(cmd.Pretty(), "\n"))
	if detail != "" {
		msg += ": " + detail
	}
	v.g.cfg.Diagnostics.At(cmd, parse.SeverityError, CodeBrokenLink, msg)
	return cmd.ToTextItem()
}
