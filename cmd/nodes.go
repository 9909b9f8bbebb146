package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/amigaguide-go/internal/guide"
	"github.com/eykd/amigaguide-go/internal/parse"
)

// nodeJSON is the JSON output schema for one node.
type nodeJSON struct {
	Name         string            `json:"name"`
	Title        string            `json:"title"`
	Line         int               `json:"line"`
	Wrap         guide.Wrap        `json:"wrap"`
	Proportional bool              `json:"proportional"`
	Font         *guide.Font       `json:"font,omitempty"`
	Relations    map[string]string `json:"relations,omitempty"`
}

// nodesOutput is the JSON output schema for the nodes command.
type nodesOutput struct {
	Version     string             `json:"version"`
	Database    string             `json:"database"`
	Nodes       []nodeJSON         `json:"nodes"`
	Diagnostics []parse.Diagnostic `json:"diagnostics"`
}

// NewNodesCmd creates the nodes subcommand.
func NewNodesCmd(io GuideIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nodes <guide>",
		Short:        "List the nodes of a guide with their settings as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, io)
			if err != nil {
				return err
			}
			defer s.close()

			p, err := io.BuildPile(s.ctx, args[0], s.cfg)
			if err != nil {
				return fmt.Errorf("reading guide: %w", err)
			}
			g := p.Root()

			out := nodesOutput{
				Version:     "1",
				Database:    g.Info().Name,
				Nodes:       make([]nodeJSON, 0, len(g.Nodes())),
				Diagnostics: s.cfg.Diagnostics.All(),
			}
			for _, n := range g.Nodes() {
				out.Nodes = append(out.Nodes, newNodeJSON(g, n))
			}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func newNodeJSON(g *guide.Guide, n *guide.NodeInfo) nodeJSON {
	out := nodeJSON{
		Name:         n.Name,
		Title:        n.Title,
		Line:         n.Start.Pos().Line + 1,
		Wrap:         n.Wrap(),
		Proportional: n.IsProportional(),
	}
	if f, ok := n.Font(); ok {
		out.Font = &f
	}
	for _, rel := range parse.Relations {
		l, ok := n.Relation(rel)
		if !ok {
			continue
		}
		if out.Relations == nil {
			out.Relations = make(map[string]string)
		}
		out.Relations[rel.String()] = linkDestination(g, l)
	}
	return out
}

// linkDestination names the target of l relative to g: the node alone for
// links inside g, "file/node" for other documents.
func linkDestination(g *guide.Guide, l *guide.Link) string {
	if l.TargetFile() == g.Path() {
		return l.TargetNode()
	}
	file := filepath.Base(l.TargetFile())
	if l.TargetNode() == "" {
		return file
	}
	return file + "/" + l.TargetNode()
}
