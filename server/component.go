package server

import (
	"context"
	"fmt"

	"github.com/kbukum/authgate/component"
)

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component puts a Server under registry lifecycle management.
type Component struct{ srv *Server }

func NewComponent(s *Server) *Component { return &Component{srv: s} }

func (c *Component) Name() string { return "http-server" }

func (c *Component) Start(ctx context.Context) error { return c.srv.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.srv.Stop(ctx) }

// Health is healthy while the listener is bound.
func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.srv.listening() {
		h.Status, h.Message = component.StatusUnhealthy, "not listening"
	}
	return h
}

func (c *Component) Describe() component.Description {
	scheme := "http"
	if c.srv.cfg.TLS.Enabled() {
		scheme = "https"
	}
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s://%s", scheme, c.srv.cfg.addr()),
		Port:    c.srv.cfg.Port,
	}
}

func (c *Component) Routes() []component.Route {
	return listRoutes(c.srv.engine.Routes())
}
