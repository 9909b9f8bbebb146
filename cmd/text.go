package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/amigaguide-go/internal/guide"
)

// NewTextCmd creates the text subcommand, which renders nodes as plain text.
func NewTextCmd(io GuideIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "text <guide> [node]",
		Short:        "Render the nodes of a guide as plain text",
		Args:         cobra.RangeArgs(1, 2),
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
			printDiagnostics(cmd.ErrOrStderr(), s.cfg.Diagnostics.All())

			g := p.Root()
			nodes := g.Nodes()
			if len(args) == 2 {
				n, ok := g.Node(args[1])
				if !ok {
					return fmt.Errorf("node %q not found in %s", sanitize(args[1]), sanitize(g.Source().ShortName()))
				}
				nodes = []*guide.NodeInfo{n}
			}

			r := guide.NewTextRenderer(cmd.OutOrStdout())
			for _, n := range nodes {
				guide.RenderNode(p, g, n, r)
			}
			if err := r.Err(); err != nil {
				return fmt.Errorf("writing text: %w", err)
			}
			return nil
		},
	}
	return cmd
}
