package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/amigaguide-go/internal/guide"
)

// linkJSON is the JSON output schema for one link.
type linkJSON struct {
	Source     string          `json:"source"`
	Line       int             `json:"line"`
	Label      string          `json:"label"`
	Type       guide.LinkType  `json:"type"`
	Target     string          `json:"target"`
	State      guide.LinkState `json:"state"`
	File       string          `json:"file,omitempty"`
	Node       string          `json:"node,omitempty"`
	TargetLine *int            `json:"targetLine,omitempty"`
}

// NewLinksCmd creates the links subcommand.
func NewLinksCmd(io GuideIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "links <guide>",
		Short:        "List every link reachable from a guide as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			brokenOnly, _ := cmd.Flags().GetBool("broken")

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

			out := make([]linkJSON, 0, len(p.Links()))
			for _, l := range p.Links() {
				if brokenOnly && !isBroken(l.State()) {
					continue
				}
				out = append(out, newLinkJSON(l))
			}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("broken", false, "list only links that cannot be followed")

	return cmd
}

func isBroken(s guide.LinkState) bool {
	return s == guide.StateBroken || s == guide.StateValidGuideBrokenNode
}

func newLinkJSON(l *guide.Link) linkJSON {
	out := linkJSON{
		Source: l.Guide().Path(),
		Line:   l.Command().Pos().Line + 1,
		Label:  l.Label(),
		Type:   l.Type(),
		Target: l.Target(),
		State:  l.State(),
		File:   l.TargetFile(),
		Node:   l.TargetNode(),
	}
	if line := l.Line(); line != guide.NoLine {
		out.TargetLine = &line
	}
	return out
}
