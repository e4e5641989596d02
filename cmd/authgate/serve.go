package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/authgate/app"
	"github.com/kbukum/authgate/config"
	"github.com/kbukum/authgate/version"
)

func newServeCmd() *cobra.Command {
	var configFile, envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Loads cmd/authgate/config.yml (or --config), then .env, then the
environment (e.g. TOKEN_SECRET, USERSTORE_DRIVER), and serves until
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile, envFile)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: search cmd/authgate/config.yml, config.yml)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "env file (default: search .env.authgate, .env)")
	return cmd
}

func loadConfig(configFile, envFile string) (*app.Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg := &app.Config{}
	if err := config.LoadConfig(app.ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	return cfg, nil
}
