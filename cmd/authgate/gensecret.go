package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/authgate/auth/jwt"
	"github.com/kbukum/authgate/auth/password"
)

func newGenSecretCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random HMAC secret for token.secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < jwt.MinSecretLength/2 {
				return fmt.Errorf("--bytes must be at least %d", jwt.MinSecretLength/2)
			}
			secret, err := password.RandomHex(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", 32, "random bytes (printed hex-encoded)")
	return cmd
}
