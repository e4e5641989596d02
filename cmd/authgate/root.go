package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/authgate/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authgate",
		Short: "Stateless JWT authentication gateway",
		Long: `authgate issues and verifies short-lived access tokens and rotating
refresh tokens, and gates every HTTP request on a valid bearer token.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newHashPasswordCmd(), newGenSecretCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
