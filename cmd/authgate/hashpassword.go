package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kbukum/authgate/auth/password"
)

func newHashPasswordCmd() *cobra.Command {
	cfg := password.Config{}

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password for seeding the user store",
		Long: `Reads a password from the terminal without echo, or the first line of
stdin when it is not a terminal, and prints its hash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}

			plain, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(plain) < cfg.MinLength {
				return fmt.Errorf("password must be at least %d characters", cfg.MinLength)
			}

			hash, err := cfg.Hasher().Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar((*string)(&cfg.Algorithm), "algorithm", string(password.AlgorithmBcrypt), "bcrypt or argon2id")
	cmd.Flags().IntVar(&cfg.BcryptCost, "cost", password.DefaultBcryptCost, "bcrypt cost")
	return cmd
}

func promptPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
