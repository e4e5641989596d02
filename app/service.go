package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/authgate/api"
	"github.com/kbukum/authgate/auth/credential"
	"github.com/kbukum/authgate/auth/issuer"
	"github.com/kbukum/authgate/auth/jwt"
	"github.com/kbukum/authgate/auth/password"
	"github.com/kbukum/authgate/component"
	"github.com/kbukum/authgate/database"
	"github.com/kbukum/authgate/gate"
	"github.com/kbukum/authgate/logger"
	"github.com/kbukum/authgate/observability"
	"github.com/kbukum/authgate/redis"
	"github.com/kbukum/authgate/server"
	"github.com/kbukum/authgate/server/middleware"
	"github.com/kbukum/authgate/userstore"
)

// Service is the wired authgate process: codec, issuer, validator and gate
// behind an HTTP server, plus the infrastructure components they need.
type Service struct {
	Codec       *jwt.Codec
	Issuer      *issuer.Issuer
	Credentials *credential.Validator
	Gate        *gate.Gate
	Server      *server.Server

	components []component.Component
}

// Option configures New.
type Option func(*options)

type options struct {
	codecOpts []jwt.Option
	hasher    password.Hasher
	store     credential.Store
}

// WithCodecOptions passes options to the token codec (e.g. a fixed clock).
func WithCodecOptions(opts ...jwt.Option) Option {
	return func(o *options) { o.codecOpts = append(o.codecOpts, opts...) }
}

// WithHasher overrides the configured password hasher.
func WithHasher(h password.Hasher) Option {
	return func(o *options) { o.hasher = h }
}

// WithStore overrides the configured user store.
func WithStore(s credential.Store) Option {
	return func(o *options) { o.store = s }
}

// New wires the service from cfg. cfg must already carry defaults. Key
// material is loaded here, so a bad key fails before anything starts.
func New(cfg *Config, log *logger.Logger, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	codec, err := jwt.NewCodec(&cfg.Token, o.codecOpts...)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	s := &Service{Codec: codec}

	store := o.store
	if store == nil {
		if store, err = s.newStore(cfg, log); err != nil {
			return nil, err
		}
	}

	hasher := o.hasher
	if hasher == nil {
		hasher = cfg.Password.Hasher()
	}
	s.Credentials, err = credential.NewValidator(store, hasher,
		credential.WithMinLength(cfg.Password.MinLength),
		credential.WithClock(codec.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("credential validator: %w", err)
	}

	metrics, err := observability.NewMetrics(nil)
	if err != nil {
		return nil, err
	}

	s.Issuer = issuer.New(codec, &cfg.Token)
	s.Gate = gate.New(codec, cfg.Gate, gate.WithLogger(log), gate.WithMetrics(metrics))
	log.Info("Request gate configured", logger.Fields(
		"login_path", s.Gate.LoginPath(), "public_paths", s.Gate.PublicPatterns()))

	s.Server = server.New(cfg.Server, log)
	s.Server.ApplyMiddleware()
	s.Server.Use(middleware.Authenticate(s.Gate))

	engine := s.Server.GinEngine()
	engine.Use(middleware.Observe(metrics))
	s.Server.RegisterDefaultEndpoints(cfg.Name, s.Health)

	handler := api.NewHandler(s.Credentials, s.Issuer, codec,
		api.WithLogger(log),
		api.WithMetrics(metrics),
		api.WithServiceName(cfg.Name),
		api.WithLoginPath(s.Gate.LoginPath()),
	)
	handler.Mount(engine, middleware.RateLimit(cfg.Server.RateLimit))

	s.components = append(s.components, server.NewComponent(s.Server))
	return s, nil
}

func (s *Service) newStore(cfg *Config, log *logger.Logger) (credential.Store, error) {
	switch cfg.UserStore.Driver {
	case userstore.DriverSQL:
		db := database.NewComponent(cfg.Database, log).WithAutoMigrate(&userstore.UserModel{})
		s.components = append(s.components, db)
		return userstore.NewSQL(db), nil
	case userstore.DriverRedis:
		rc, err := redis.NewComponent(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.components = append(s.components, rc)
		return userstore.NewRedis(rc.Client()), nil
	default:
		return userstore.NewMemory(), nil
	}
}

// Components returns the lifecycle components in start order: the user
// store backend (if any) before the HTTP server.
func (s *Service) Components() []component.Component {
	return s.components
}

// Health reports every component, for GET /health.
func (s *Service) Health(ctx context.Context) []component.Health {
	out := make([]component.Health, 0, len(s.components))
	for _, c := range s.components {
		out = append(out, c.Health(ctx))
	}
	return out
}

// Handler returns the full HTTP handler without binding a port.
func (s *Service) Handler() http.Handler {
	return s.Server.Handler()
}
