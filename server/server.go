package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/server/endpoint"
	"github.com/kbukum/authgate/server/middleware"
)

const maxStreams = 250

// Server routes with gin behind a chain of net/http middleware and serves
// HTTP/1.1 and h2c on one port, or TLS when a certificate is configured.
type Server struct {
	cfg    Config
	log    *logger.Logger
	engine *gin.Engine
	chain  []middleware.Middleware
	http   *http.Server

	mu sync.Mutex
	ln net.Listener
}

func New(cfg Config, log *logger.Logger) *Server {
	mode := gin.ReleaseMode
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	log = log.WithComponent("server")
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("Ignoring trusted proxies", logger.Fields(logger.FieldError, err.Error()))
		_ = engine.SetTrustedProxies(nil)
	}

	return &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
		http: &http.Server{
			Addr:              cfg.addr(),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// GinEngine is where routes are registered.
func (s *Server) GinEngine() *gin.Engine { return s.engine }

// Use appends server-level middleware; later entries sit closer to gin.
// Call it before Handler or Start.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.chain = append(s.chain, mws...)
}

// ApplyMiddleware installs the standard outer stack.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.cfg.CORS),
		middleware.BodySizeLimit(s.cfg.MaxBodySize),
		middleware.RequestLogger(s.log),
	)
}

// RegisterDefaultEndpoints mounts GET /health and GET /version.
func (s *Server) RegisterDefaultEndpoints(service string, checker endpoint.HealthChecker) {
	s.engine.GET(healthPath, endpoint.Health(service, checker))
	s.engine.GET(versionPath, endpoint.Version(service))
}

// Handler is the full request path: middleware chain, then gin, with h2c
// upgrade support around both.
func (s *Server) Handler() http.Handler {
	inner := middleware.Chain(s.chain...)(s.engine)
	return h2c.NewHandler(inner, &http2.Server{
		MaxConcurrentStreams: maxStreams,
		IdleTimeout:          s.cfg.IdleTimeout,
	})
}

// Start binds the listener and serves in the background. Bind and TLS
// errors are returned; later serve errors are logged.
func (s *Server) Start(ctx context.Context) error {
	tlsCfg, err := s.cfg.TLS.Build()
	if err != nil {
		return fmt.Errorf("server tls: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return errors.New("server already started")
	}

	s.http.Handler = s.Handler()
	s.http.TLSConfig = tlsCfg
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	s.ln = ln

	go s.serve(ln, tlsCfg != nil)
	s.log.Info("Listening", logger.Fields("addr", ln.Addr().String(), "tls", tlsCfg != nil))
	return nil
}

func (s *Server) serve(ln net.Listener, secure bool) {
	var err error
	if secure {
		err = s.http.ServeTLS(ln, "", "")
	} else {
		err = s.http.Serve(ln)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("Serve failed", logger.Fields(logger.FieldError, err.Error()))
	}
}

// Stop drains in-flight requests for up to ShutdownWait.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownWait)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		s.log.Error("Shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.mu.Lock()
	s.ln = nil
	s.mu.Unlock()
	s.log.Info("Server stopped")
	return nil
}

// Addr is the bound address after Start and the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.http.Addr
}

func (s *Server) listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln != nil
}
