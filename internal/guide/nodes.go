package guide

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// nodeCollector tracks node boundaries while walking the items.
type nodeCollector struct {
	g       *Guide
	starts  []*parse.CommandItem
	names   map[string]*parse.CommandItem
	ends    map[*parse.CommandItem]*parse.CommandItem
	open    *parse.CommandItem
	counter int
}

// collectNodes pairs every @node with an @endnode, repairing missing,
// dangling, duplicate and unnamed ones. It returns the repaired items and the
// end command for every start command.
func (g *Guide) collectNodes(items []parse.Item) ([]parse.Item, map[*parse.CommandItem]*parse.CommandItem) {
	c := &nodeCollector{
		g:     g,
		names: make(map[string]*parse.CommandItem),
		ends:  make(map[*parse.CommandItem]*parse.CommandItem),
	}
	diags := g.cfg.Diagnostics
	out := make([]parse.Item, 0, len(items)+1)
	for _, it := range items {
		cmd, ok := it.(*parse.CommandItem)
		if !ok || cmd.Inline {
			out = append(out, it)
			continue
		}
		switch cmd.Name {
		case "node":
			if c.open != nil {
				end := endnodeAt(cmd.Pos())
				diags.AtSeeAlso(end, parse.SeverityWarning, CodeMissingEndnode,
					"added missing @endnode before @node", c.open, "previous @node")
				out = append(out, end)
				c.close(end)
			}
			cmd = c.start(cmd)
			out = append(out, cmd)
		case "endnode":
			if c.open == nil {
				diags.At(cmd, parse.SeverityWarning, CodeDanglingEndnode, "removed dangling @endnode")
				continue
			}
			c.close(cmd)
			out = append(out, cmd)
		default:
			out = append(out, it)
		}
	}
	if c.open != nil {
		pos := c.open.Pos()
		if len(out) > 0 {
			pos = out[len(out)-1].Pos()
			pos.Column++
		}
		end := endnodeAt(pos)
		diags.AtSeeAlso(end, parse.SeverityWarning, CodeMissingEndnodeAtEnd,
			"added missing @endnode at end", c.open, "matching @node")
		out = append(out, end)
		c.close(end)
	}

	if len(c.starts) != len(c.names) || len(c.starts) != len(c.ends) {
		panic(fmt.Sprintf("guide: inconsistent node bounds in %s: %d starts, %d names, %d ends",
			g.source.ShortName(), len(c.starts), len(c.names), len(c.ends)))
	}
	return out, c.ends
}

func endnodeAt(pos parse.Position) *parse.CommandItem {
	return parse.NewCommandItem(pos, "endnode", false, nil)
}

// start opens a node and returns cmd, renamed if its name is missing or taken.
func (c *nodeCollector) start(cmd *parse.CommandItem) *parse.CommandItem {
	diags := c.g.cfg.Diagnostics
	name, ok := cmd.Option(0)
	name = strings.ToLower(name)
	switch {
	case !ok || name == "":
		name = c.uniqueName()
		cmd = cmd.WithOption(0, name)
		diags.At(cmd, parse.SeverityWarning, CodeUnnamedNode,
			fmt.Sprintf("assigned name %q to unnamed node", name))
	case c.names[name] != nil:
		existing := c.names[name]
		old := name
		name = c.uniqueName()
		cmd = cmd.WithOption(0, name)
		diags.AtSeeAlso(cmd, parse.SeverityWarning, CodeDuplicateNodeName,
			fmt.Sprintf("changed duplicate node name %q to %q", old, name), existing, "existing node with same name")
	}
	c.names[name] = cmd
	c.starts = append(c.starts, cmd)
	c.open = cmd
	return cmd
}

func (c *nodeCollector) close(end *parse.CommandItem) {
	c.ends[c.open] = end
	c.open = nil
}

func (c *nodeCollector) uniqueName() string {
	for {
		c.counter++
		name := "unnamed." + strconv.Itoa(c.counter)
		if c.names[name] == nil {
			return name
		}
	}
}
