package guide

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// collectLinks gathers the relations of the document and its nodes, then
// turns every remaining link command into a Link. Data links without target
// are replaced by their label.
func (g *Guide) collectLinks(items []parse.Item) []parse.Item {
	for _, rel := range parse.Relations {
		if l, ok := g.info.relations[rel]; ok {
			g.links = append(g.links, l)
		}
	}
	for _, node := range g.nodes {
		g.links = append(g.links, node.Relations()...)
	}

	diags := g.cfg.Diagnostics
	out := make([]parse.Item, 0, len(items))
	for _, it := range items {
		cmd, ok := it.(*parse.CommandItem)
		if !ok || !cmd.IsLink() {
			out = append(out, it)
			continue
		}
		typeName, _ := cmd.Option(0)
		typ, ok := linkTypeByName(strings.ToLower(typeName))
		if !ok {
			panic(fmt.Sprintf("guide: unvalidated link type %q at %s", typeName, cmd.Pos()))
		}

		target, _ := cmd.Option(1)
		if (typ == LinkLink || typ == LinkGuide) && strings.TrimSpace(target) == "" {
			diags.At(cmd, parse.SeverityError, CodeBrokenLink,
				fmt.Sprintf("replaced link with empty target by its label: %s", cmd.Pretty()))
			out = append(out, cmd.ToTextItem())
			continue
		}

		line := NoLine
		if lineText, ok := cmd.Option(2); ok && typ == LinkLink {
			n, err := strconv.Atoi(lineText)
			if err != nil || n < 0 {
				diags.At(cmd, parse.SeverityWarning, CodeBrokenLineNumber,
					fmt.Sprintf("ignored broken line number: %q", lineText))
				cmd = cmd.WithOptionsCut(2)
			} else {
				line = n
			}
		}

		g.links = append(g.links, newLink(g, cmd, typ, line))
		out = append(out, cmd)
	}
	return out
}
