package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/amigaguide-go/internal/guide"
	"github.com/eykd/amigaguide-go/internal/parse"
)

// NewPrettyCmd creates the pretty subcommand, which prints the repaired
// markup of a guide in the character set it was read in.
func NewPrettyCmd(io GuideIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pretty <guide>",
		Short:        "Print the repaired markup of a guide",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, io)
			if err != nil {
				return err
			}
			defer s.close()

			g, err := io.ParseGuide(s.ctx, args[0], s.cfg)
			if err != nil {
				return fmt.Errorf("reading guide: %w", err)
			}
			printDiagnostics(cmd.ErrOrStderr(), s.cfg.Diagnostics.All())
			w := parse.NewLegacyWriter(cmd.OutOrStdout())
			if err := guide.WritePretty(w, g); err != nil {
				return fmt.Errorf("writing guide: %w", err)
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("writing guide: %w", err)
			}
			return nil
		},
	}
	return cmd
}
