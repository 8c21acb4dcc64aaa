// Package server exposes the resolver, the rule checks and the chat answers
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nakamasato/cardiag/config"
	"github.com/nakamasato/cardiag/internal/chat"
	"github.com/nakamasato/cardiag/internal/graph"
	"github.com/nakamasato/cardiag/internal/llm"
	"github.com/nakamasato/cardiag/internal/metrics"
	"github.com/nakamasato/cardiag/internal/resolver"
	"github.com/nakamasato/cardiag/internal/rules"
	"go.uber.org/zap"
)

// maxBodySize limits request bodies.
const maxBodySize = 1 << 20

// Server serves the HTTP API.
type Server struct {
	resolver *resolver.Resolver
	rules    *rules.Rules
	answerer *llm.Answerer
	metrics  *metrics.Collector
	cfg      config.ServerConfig
	log      *zap.Logger
}

type Option func(*Server)

// WithAnswerer makes /api/v1/chat answer through the model.
func WithAnswerer(a *llm.Answerer) Option {
	return func(s *Server) { s.answerer = a }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithConfig(cfg config.ServerConfig) Option {
	return func(s *Server) { s.cfg = cfg }
}

// New creates a server. A nil rules value uses the built-in rules.
func New(res *resolver.Resolver, rls *rules.Rules, opts ...Option) *Server {
	if rls == nil {
		rls = rules.Default()
	}
	s := &Server{
		resolver: res,
		rules:    rls,
		cfg:      config.Default().Server,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector()
	}
	s.log = s.log.Named("server")
	return s
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/v1/resolve", s.handleResolveQuery)
	mux.HandleFunc("POST /api/v1/resolve", s.handleResolve)
	mux.HandleFunc("POST /api/v1/chat", s.handleChat)
	mux.HandleFunc("GET /api/v1/nodes", s.handleNodes)
	mux.HandleFunc("GET /api/v1/nodes/{name}", s.handleNode)
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("POST /api/v1/check", s.handleCheck)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return s.middleware(mux)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     zap.NewStdLog(s.log),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// TextRequest is the body of /api/v1/resolve and /api/v1/chat.
type TextRequest struct {
	Text string `json:"text"`
}

// ChatResponse is the body returned by /api/v1/chat.
type ChatResponse struct {
	Reply      string        `json:"reply"`
	Kind       resolver.Kind `json:"kind"`
	Components []string      `json:"components,omitempty"`
	Urgent     bool          `json:"urgent,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolveQuery(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.resolve(r.URL.Query().Get("q")))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.resolve(req.Text))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp := s.resolve(req.Text)

	if s.answerer == nil {
		s.writeJSON(w, http.StatusOK, ChatResponse{Reply: chat.Reply(resp), Kind: resp.Kind})
		return
	}
	answer, err := s.answerer.Answer(r.Context(), resp)
	if err != nil {
		s.log.Error("Failed to answer", zap.String("query", req.Text), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to generate answer")
		return
	}
	s.writeJSON(w, http.StatusOK, ChatResponse{
		Reply:      answer.Reply,
		Kind:       resp.Kind,
		Components: answer.Components,
		Urgent:     answer.Urgent,
	})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.resolver.NodesByType())
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	m, err := s.resolver.Related(name)
	if errors.Is(err, graph.ErrNodeNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("node '%s' not found", name))
		return
	}
	if err != nil {
		s.log.Error("Failed to look up node", zap.String("name", name), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to look up node")
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.resolver.Stats())
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var car rules.Car
	if !s.decode(w, r, &car) {
		return
	}
	if car.Mileage < 0 {
		s.writeError(w, http.StatusBadRequest, "mileage must not be negative")
		return
	}
	s.writeJSON(w, http.StatusOK, s.rules.Check(car))
}

func (s *Server) resolve(text string) resolver.Response {
	start := time.Now()
	resp := s.resolver.Resolve(text)
	s.metrics.ObserveQuery(string(resp.Kind), time.Since(start))
	return resp
}

// decode reads a JSON body into v and writes a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+strings.TrimPrefix(err.Error(), "json: "))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Error: msg})
}
