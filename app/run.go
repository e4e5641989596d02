package app

import (
	"context"
	"fmt"

	"github.com/kbukum/authgate/bootstrap"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/observability"
)

// Run wires the service and runs it until SIGINT, SIGTERM or ctx is done.
func Run(ctx context.Context, cfg *Config, opts ...bootstrap.Option) error {
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}

	shutdownTelemetry, err := observability.Init(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.On(bootstrap.BeforeStop, func(ctx context.Context) error { return shutdownTelemetry(ctx) })

	svc, err := New(cfg, a.Logger)
	if err != nil {
		_ = shutdownTelemetry(ctx)
		return err
	}
	for _, c := range svc.Components() {
		if err := a.RegisterComponent(c); err != nil {
			return err
		}
	}

	a.On(bootstrap.Ready, func(context.Context) error {
		a.Logger.Info("authgate listening", logger.Fields(
			"addr", svc.Server.Addr(),
			"user_store", cfg.UserStore.Driver,
			"token_method", string(cfg.Token.Method),
		))
		return nil
	})
	return a.Run(ctx)
}
