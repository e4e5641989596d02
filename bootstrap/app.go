package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/kbukum/authgate/component"
	"github.com/kbukum/authgate/logger"
)

// App owns the lifecycle of one service: its typed config, logger,
// component registry and phase hooks.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Logger     *logger.Logger
	Components *component.Registry
	Summary    *Summary

	set   settings
	mu    sync.Mutex
	hooks map[Phase][]Hook
}

// NewApp defaults and validates cfg, then builds the logger and registry.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	svc := cfg.GetServiceConfig()
	set := newSettings(opts)

	log := set.log
	if log == nil {
		log = logger.Init(svc.Logging, svc.Name)
	}

	return &App[C]{
		Name:       svc.Name,
		Version:    svc.Version,
		Cfg:        cfg,
		Logger:     log,
		Components: component.NewRegistry(log),
		Summary:    NewSummary(svc.Name, svc.Version, set.summary),
		set:        set,
		hooks:      make(map[Phase][]Hook),
	}, nil
}

// RegisterComponent adds c to the registry. Registration order is start
// order; stop order is the reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var errs []error
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		if h.Message != "" {
			errs = append(errs, fmt.Errorf("%s is %s: %s", h.Name, h.Status, h.Message))
		} else {
			errs = append(errs, fmt.Errorf("%s is %s", h.Name, h.Status))
		}
	}
	return errors.Join(errs...)
}

// Run starts the app, blocks until a shutdown signal or ctx is done, and
// then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Wait(ctx)
	return a.Shutdown(context.Background())
}

// Start brings every component up and runs the AfterStart and Ready hooks.
// A failing hook shuts down what already started.
func (a *App[C]) Start(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}
	if err := a.fire(ctx, AfterStart); err != nil {
		return a.abort(err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Not every component is healthy", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := a.fire(ctx, Ready); err != nil {
		return a.abort(err)
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Display(ctx, a.Components)
	return nil
}

func (a *App[C]) abort(cause error) error {
	if err := a.Shutdown(context.Background()); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Wait blocks until one of the configured signals arrives or ctx is done.
// It returns the signal, or nil on cancellation.
func (a *App[C]) Wait(ctx context.Context) os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, a.set.signals...)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		a.Logger.Info("Shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context done, shutting down")
		return nil
	}
}

// Shutdown runs the BeforeStop hooks and stops every component. The whole
// sequence is bounded by the graceful timeout.
func (a *App[C]) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.set.grace)
	defer cancel()
	a.Logger.Info("Shutting down", logger.Fields("grace", a.set.grace.String()))

	hookErr := a.fire(ctx, BeforeStop)
	stopErr := a.Components.StopAll(ctx)
	if err := errors.Join(hookErr, stopErr); err != nil {
		a.Logger.Error("Shutdown finished with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Info("Stopped")
	return nil
}
