// Package profiler exposes the net/http/pprof endpoints on a local
// HTTP server for live profiling.
package profiler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

// Server serves the pprof handlers on a dedicated port.
type Server struct {
	port     int
	listener net.Listener
	srv      *http.Server
}

// New creates a profiler server for the given port. Port 0 binds a
// random free port.
func New(port int) *Server {
	return &Server{port: port}
}

// Start binds the listener and begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("bind profiler port: %w", err)
	}
	s.listener = listener

	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		// ErrServerClosed is the normal shutdown path; anything else
		// only matters to callers polling the endpoints.
		_ = s.srv.Serve(listener)
	}()

	return nil
}

// Addr returns the bound listen address, valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
