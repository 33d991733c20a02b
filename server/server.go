// Package server provides an HTTP REST server that runs commands against a
// cmdblock world and exposes its named points and command history.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/cmdblock/internal/cbw"
	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/server/api"
	"github.com/dekarrin/cmdblock/server/cbs"
	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/go-chi/chi/v5"
)

// server:
//   POST   /tokens          - exchanges the operator secret for a jwt.
//   POST   /dispatch        - runs a command line (auth required)
//   POST   /autocomplete    - suggests what can be typed next in a partial line
//   GET    /commands        - gets the usage of every command
//   GET    /history         - gets recently run command lines (auth required)
//   GET    /points          - gets all named points
//   GET    /points/{name}   - gets one named point
//   PUT    /points/{name}   - saves a named point (auth required)
//   DELETE /points/{name}   - forgets a named point (auth required)
//   GET    /info            - gets version info on the server and engine.

// Server is an HTTP REST server that runs commands against a single world. The
// zero-value of a Server should not be used directly; call New() to get one
// ready for use.
type Server struct {
	router chi.Router
	db     dao.Store
	svc    *cbs.Service
	listen string
	log    logging.Logger
	http   *http.Server
}

// New creates a new Server from cfg, which must be valid. The world is loaded
// from cfg.ScenarioPath. If log is nil, nothing is logged.
func New(cfg Config, log logging.Logger) (*Server, error) {
	if log == nil {
		log = logging.Discard()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var scen cbw.Scenario
	if cfg.ScenarioPath != "" {
		var err error
		scen, err = cbw.LoadResourceBundle(cfg.ScenarioPath)
		if err != nil {
			return nil, err
		}
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	svc, err := cbs.New(db, scen, cfg.OperatorSecret, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := api.API{
		Backend:     svc,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
		Log:         log,
	}

	return &Server{
		router: newRouter(a, cfg.AllowedOrigins),
		db:     db,
		svc:    svc,
		listen: cfg.Listen,
		log:    log,
	}, nil
}

// Handler returns the handler that serves every route of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Service returns the service the server runs commands with.
func (s *Server) Service() *cbs.Service {
	return s.svc
}

// ServeForever begins listening on the configured address for HTTP REST
// client requests. It blocks until the server is closed, in which case it
// returns nil, or fails.
func (s *Server) ServeForever() error {
	s.http = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("Listening", "address", s.listen)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops accepting requests, waits up to ctx for in-flight ones to
// finish, and closes the DB.
func (s *Server) Close(ctx context.Context) error {
	var shutdownErr error
	if s.http != nil {
		shutdownErr = s.http.Shutdown(ctx)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close DB: %w", err)
	}
	return shutdownErr
}
