// Package cmd implements the agt CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root agt command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithIO(newDefaultGuideIO())
}

func newRootCmdWithIO(io GuideIO) *cobra.Command {
	root := &cobra.Command{
		Use:           "agt",
		Short:         "agt - check, repair and render AmigaGuide documents",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	addGlobalFlags(root.PersistentFlags())
	root.AddCommand(NewValidateCmd(io))
	root.AddCommand(NewPrettyCmd(io))
	root.AddCommand(NewNodesCmd(io))
	root.AddCommand(NewLinksCmd(io))
	root.AddCommand(NewTextCmd(io))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
