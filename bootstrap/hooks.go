package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a callback attached to a lifecycle phase.
type Hook func(ctx context.Context) error

// Phase names a point in the lifecycle where hooks run.
type Phase int

const (
	// AfterStart runs once every component has started, before the ready check.
	AfterStart Phase = iota
	// Ready runs after the ready check.
	Ready
	// BeforeStop runs on shutdown while components are still up.
	BeforeStop
)

func (p Phase) String() string {
	switch p {
	case AfterStart:
		return "after-start"
	case Ready:
		return "ready"
	case BeforeStop:
		return "before-stop"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// On attaches hooks to phase. Hooks of a phase run in the order added and
// the first error ends the phase.
func (a *App[C]) On(phase Phase, hooks ...Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks[phase] = append(a.hooks[phase], hooks...)
}

func (a *App[C]) fire(ctx context.Context, phase Phase) error {
	a.mu.Lock()
	hooks := append([]Hook(nil), a.hooks[phase]...)
	a.mu.Unlock()

	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook #%d: %w", phase, i+1, err)
		}
	}
	return nil
}
