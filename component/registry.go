package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/authgate/logger"
)

const stopBudget = 10 * time.Second

// Registry starts components in registration order and stops the started
// ones in reverse, so register dependencies first.
type Registry struct {
	mu      sync.Mutex
	log     *logger.Logger
	all     []Component
	names   map[string]struct{}
	running []Component
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log.WithComponent("lifecycle"), names: map[string]struct{}{}}
}

func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.names[c.Name()]; dup {
		return fmt.Errorf("component %q registered twice", c.Name())
	}
	r.names[c.Name()] = struct{}{}
	r.all = append(r.all, c)
	return nil
}

// StartAll starts every component. When one fails, those already running
// are stopped before the error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	var failed error
	for _, c := range r.all {
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields("component", c.Name(), logger.FieldError, err.Error()))
			failed = fmt.Errorf("start %s: %w", c.Name(), err)
			break
		}
		r.running = append(r.running, c)
		r.log.Debug("Component started", logger.Fields("component", c.Name()))
	}
	count := len(r.running)
	r.mu.Unlock()

	if failed != nil {
		_ = r.StopAll(ctx)
		return failed
	}
	r.log.Info("All components started", logger.Fields("count", count))
	return nil
}

// StopAll stops running components newest first, giving each its own
// timeout, and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	running := r.running
	r.running = nil
	r.mu.Unlock()

	var errs []error
	for i := len(running) - 1; i >= 0; i-- {
		c := running[i]
		stopCtx, cancel := context.WithTimeout(ctx, stopBudget)
		err := c.Stop(stopCtx)
		cancel()
		if err != nil {
			r.log.Error("Component stop failed", logger.Fields("component", c.Name(), logger.FieldError, err.Error()))
			errs = append(errs, fmt.Errorf("stop %s: %w", c.Name(), err))
			continue
		}
		r.log.Info("Component stopped", logger.Fields("component", c.Name()))
	}
	return errors.Join(errs...)
}

func (r *Registry) snapshot() []Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Component(nil), r.all...)
}

// HealthAll asks every registered component, running or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	all := r.snapshot()
	out := make([]Health, len(all))
	for i, c := range all {
		out[i] = c.Health(ctx)
	}
	return out
}

func (r *Registry) Descriptions() []Description {
	var out []Description
	for _, c := range r.snapshot() {
		if d, ok := c.(Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			out = append(out, desc)
		}
	}
	return out
}

func (r *Registry) Routes() []Route {
	var out []Route
	for _, c := range r.snapshot() {
		if p, ok := c.(RouteProvider); ok {
			out = append(out, p.Routes()...)
		}
	}
	return out
}
