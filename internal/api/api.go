// Package api provides the HTTP JSON API over a workspace shell.
package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/good-yellow-bee/collabhub/internal/api/health"
	"github.com/good-yellow-bee/collabhub/internal/api/middleware"
	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/query"
	"github.com/good-yellow-bee/collabhub/internal/shell"
)

// Config contains HTTP API server configuration.
type Config struct {
	Address         string
	TLSEnabled      bool
	TLSCertFile     string
	TLSKeyFile      string
	RateLimitPerIP  int // requests per minute
	RateLimitBurst  int
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	Verbose         bool
	Now             func() time.Time
}

// SetDefaults applies default values for missing configuration.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.RateLimitPerIP == 0 {
		c.RateLimitPerIP = 600
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = 60
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 32 << 20
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Server is the HTTP API server.
type Server struct {
	config        *Config
	shell         *shell.Shell
	server        *http.Server
	handler       http.Handler
	healthHandler *health.Handler
	limiter       *middleware.RateLimiter
	log           *logrus.Entry

	taskQuery    *query.QueryDSL
	fileQuery    *query.QueryDSL
	projectQuery *query.QueryDSL

	// Uploads outlive the request that started them; they stop when the
	// server shuts down.
	uploadCtx    context.Context
	cancelUpload context.CancelFunc
}

// New creates a new API server over sh.
func New(cfg *Config, sh *shell.Shell) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sh == nil {
		return nil, fmt.Errorf("workspace shell is required")
	}

	cfg.SetDefaults()

	uploadCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:        cfg,
		shell:         sh,
		healthHandler: health.NewHandler(),
		limiter:       middleware.NewRateLimiter(cfg.RateLimitPerIP, cfg.RateLimitBurst),
		log:           logging.Component("api"),
		taskQuery:     query.NewQueryDSL(query.TaskFields).WithClock(cfg.Now),
		fileQuery:     query.NewQueryDSL(query.FileFields).WithClock(cfg.Now),
		projectQuery:  query.NewQueryDSL(query.ProjectFields).WithClock(cfg.Now),
		uploadCtx:     uploadCtx,
		cancelUpload:  cancel,
	}

	s.healthHandler.RegisterChecker(health.NewFuncChecker("workspace", func(context.Context) error {
		if sh.Dashboard.Closed() {
			return fmt.Errorf("workspace closed")
		}
		return nil
	}))

	s.handler = s.setupRouter()

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if cfg.TLSEnabled {
		s.server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
	}

	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.log.WithField("addr", s.config.Address).Info("HTTP API listening")
		var err error
		if s.config.TLSEnabled {
			err = s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down HTTP API server")
		return s.shutdown()
	case err := <-errChan:
		s.Close()
		return err
	}
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close cancels in-flight uploads and stops background work. It does not
// stop a running listener; cancel the Run context for that.
func (s *Server) Close() {
	s.cancelUpload()
	s.limiter.Close()
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address
}

// RegisterHealthChecker adds a health checker to the server.
func (s *Server) RegisterHealthChecker(c health.Checker) {
	if s.healthHandler != nil {
		s.healthHandler.RegisterChecker(c)
	}
}
