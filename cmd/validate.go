package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// validateOutput is the JSON output schema for the validate command.
type validateOutput struct {
	Version           string             `json:"version"`
	Guides            []string           `json:"guides"`
	UndefinedPrefixes []string           `json:"undefinedPrefixes"`
	Diagnostics       []parse.Diagnostic `json:"diagnostics"`
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(io GuideIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate <guide>",
		Short:        "Check a guide and every document it links to",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			noFollow, _ := cmd.Flags().GetBool("no-follow")

			s, err := newSession(cmd, io)
			if err != nil {
				return err
			}
			defer s.close()

			var guides, undefined []string
			if noFollow {
				g, err := io.ParseGuide(s.ctx, args[0], s.cfg)
				if err != nil {
					return fmt.Errorf("reading guide: %w", err)
				}
				guides = []string{g.Path()}
				undefined = g.UndefinedPrefixes()
			} else {
				p, err := io.BuildPile(s.ctx, args[0], s.cfg)
				if err != nil {
					return fmt.Errorf("reading guide: %w", err)
				}
				for _, g := range p.Guides() {
					guides = append(guides, g.Path())
				}
				undefined = p.UndefinedPrefixes()
			}

			diags := s.cfg.Diagnostics.All()
			if jsonMode {
				if undefined == nil {
					undefined = []string{}
				}
				out := validateOutput{Version: "1", Guides: guides, UndefinedPrefixes: undefined, Diagnostics: diags}
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
			} else {
				printDiagnostics(cmd.ErrOrStderr(), diags)
				printUndefinedPrefixes(cmd.ErrOrStderr(), undefined)
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d guide(s): %s\n", len(guides), countSeverities(diags))
			}

			if hasDiagnosticError(diags) {
				return fmt.Errorf("guide has errors")
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output result as JSON")
	cmd.Flags().Bool("no-follow", false, "check only the given guide, not the documents it links to")

	return cmd
}

// countSeverities summarizes diags as "2 error(s), 1 warning(s), 0 info".
func countSeverities(diags []parse.Diagnostic) string {
	counts := make(map[parse.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return fmt.Sprintf("%d error(s), %d warning(s), %d info",
		counts[parse.SeverityError], counts[parse.SeverityWarning], counts[parse.SeverityInfo])
}
