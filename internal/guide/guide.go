package guide

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eykd/amigaguide-go/internal/parse"
	"github.com/eykd/amigaguide-go/internal/schema"
)

// Guide is one validated AmigaGuide document.
type Guide struct {
	source    parse.Source
	path      string
	cfg       Config
	items     []parse.Item
	info      *DatabaseInfo
	nodes     []*NodeInfo
	nodeNames map[string]*NodeInfo
	links     []*Link
	macros    map[string]*schema.Tag
	undefined []string
}

// Parse reads src and runs the validation pipeline over it. Problems in the
// document are reported to cfg.Diagnostics; the error is non-nil only if
// src cannot be read.
func Parse(ctx context.Context, src parse.Source, cfg Config) (*Guide, error) {
	if cfg.Logger == nil {
		cfg.Logger = loggerFrom(ctx)
	}
	cfg = cfg.withDefaults()
	cfg.Logger.Debugw("parsing guide", "source", src.FullName())

	items, err := parse.ReadItems(src)
	if err != nil {
		return nil, fmt.Errorf("reading guide %s: %w", src.ShortName(), err)
	}

	path := src.FullName()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	g := &Guide{
		source:    src,
		path:      path,
		cfg:       cfg,
		nodeNames: make(map[string]*NodeInfo),
		macros:    make(map[string]*schema.Tag),
	}

	items = g.readDatabase(items)
	g.defineMacros(items)
	items = g.resolveMacros(items)
	items, ends := g.collectNodes(items)
	items = g.validateCommands(items, ends)
	items = g.collectLinks(items)
	g.items = items

	cfg.Logger.Debugw("parsed guide",
		"source", src.FullName(),
		"items", len(g.items),
		"nodes", len(g.nodes),
		"links", len(g.links),
	)
	return g, nil
}

// readDatabase checks that items start with @database and creates the
// DatabaseInfo. A document without it loses all of its items.
func (g *Guide) readDatabase(items []parse.Item) []parse.Item {
	var first *parse.CommandItem
	if len(items) > 0 {
		first, _ = items[0].(*parse.CommandItem)
	}
	if first == nil || first.Inline || first.Name != "database" {
		diags := g.cfg.Diagnostics
		if len(items) > 0 {
			diags.At(items[0], parse.SeverityError, CodeMissingDatabase, "AmigaGuide must start with @database")
		} else {
			diags.Add(parse.Diagnostic{
				Severity: parse.SeverityError,
				Code:     CodeMissingDatabase,
				Message:  "AmigaGuide must start with @database",
				Location: &parse.Location{Source: g.source.FullName(), Line: 1, Column: 1},
			})
		}
		g.info = newDatabaseInfo(g.source.ShortName())
		return nil
	}

	name, ok := first.Option(0)
	if !ok || name == "" {
		name = g.source.ShortName()
		first = first.WithOption(0, name)
		g.cfg.Diagnostics.At(first, parse.SeverityWarning, CodeMissingDatabaseName,
			fmt.Sprintf("changed missing database name to %q", name))
		out := make([]parse.Item, len(items))
		copy(out, items)
		out[0] = first
		items = out
	}
	g.info = newDatabaseInfo(name)
	return items
}

// resolvePath resolves an Amiga path relative to the folder of the guide and
// remembers undefined devices.
func (g *Guide) resolvePath(amigaPath string) string {
	local, undefined := g.cfg.Paths.Resolve(amigaPath, filepath.Dir(g.path))
	if undefined != "" {
		g.undefined = appendUnique(g.undefined, undefined)
	}
	return local
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

// Source returns the source the guide was read from.
func (g *Guide) Source() parse.Source { return g.source }

// Path returns the absolute path of the guide.
func (g *Guide) Path() string { return g.path }

// Items returns the validated items.
func (g *Guide) Items() []parse.Item { return g.items }

// Info returns the document settings.
func (g *Guide) Info() *DatabaseInfo { return g.info }

// Nodes returns the nodes in source order.
func (g *Guide) Nodes() []*NodeInfo { return g.nodes }

// Node returns the node named name, compared case-insensitively.
func (g *Guide) Node(name string) (*NodeInfo, bool) {
	n, ok := g.nodeNames[strings.ToLower(name)]
	return n, ok
}

// FirstNode returns the first node or nil for documents without nodes.
func (g *Guide) FirstNode() *NodeInfo {
	if len(g.nodes) == 0 {
		return nil
	}
	return g.nodes[0]
}

// Links returns the outbound links: relations first, then link commands.
func (g *Guide) Links() []*Link { return g.links }

// HasMacros reports whether the document defines macros.
func (g *Guide) HasMacros() bool { return len(g.macros) > 0 }

// UndefinedPrefixes returns the Amiga devices the document used without a
// local folder.
func (g *Guide) UndefinedPrefixes() []string { return g.undefined }

// NodeItems returns the items between the start and end command of node,
// both excluded.
func (g *Guide) NodeItems(node *NodeInfo) []parse.Item {
	start, end := -1, -1
	for i, it := range g.items {
		switch it {
		case parse.Item(node.Start):
			start = i
		case parse.Item(node.End):
			end = i
		}
	}
	if start < 0 || end < start {
		panic(fmt.Sprintf("guide: node %q has no consistent bounds in %s", node.Name, g.source.ShortName()))
	}
	return g.items[start+1 : end]
}
