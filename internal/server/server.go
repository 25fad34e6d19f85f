// Package server runs one service's HTTP API next to its gRPC health endpoint
// and shuts both down together.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	defaultProbeInterval   = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	probeTimeout           = 2 * time.Second
)

// Probe reports whether the service's backing store is reachable.
type Probe func(ctx context.Context) error

type Options struct {
	Name            string
	HTTPAddr        string
	GRPCAddr        string
	Handler         http.Handler
	Probe           Probe
	ProbeInterval   time.Duration
	ShutdownTimeout time.Duration
	// OnShutdown runs after both servers have stopped.
	OnShutdown func()
}

type Server struct {
	opts   Options
	http   *http.Server
	grpc   *grpc.Server
	health *health.Server

	mu      sync.Mutex
	httpLis net.Listener
	grpcLis net.Listener
}

func New(opts Options) *Server {
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = defaultProbeInterval
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(opts.Name, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		opts: opts,
		http: &http.Server{
			Addr:              opts.HTTPAddr,
			Handler:           opts.Handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpc:   gs,
		health: hs,
	}
}

// Listen binds both ports. Run calls it when it has not been called yet.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpLis != nil {
		return nil
	}

	httpLis, err := net.Listen("tcp", s.opts.HTTPAddr)
	if err != nil {
		return fmt.Errorf("server: listen http %s: %w", s.opts.HTTPAddr, err)
	}
	grpcLis, err := net.Listen("tcp", s.opts.GRPCAddr)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("server: listen grpc %s: %w", s.opts.GRPCAddr, err)
	}
	s.httpLis, s.grpcLis = httpLis, grpcLis
	return nil
}

func (s *Server) HTTPAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpLis == nil {
		return s.opts.HTTPAddr
	}
	return s.httpLis.Addr().String()
}

func (s *Server) GRPCAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grpcLis == nil {
		return s.opts.GRPCAddr
	}
	return s.grpcLis.Addr().String()
}

// Run serves until ctx is cancelled or either server fails, then shuts both
// down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("%s: HTTP listening on %s", s.opts.Name, s.HTTPAddr())
		if err := s.http.Serve(s.httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Printf("%s: gRPC health listening on %s", s.opts.Name, s.GRPCAddr())
		if err := s.grpc.Serve(s.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.probeLoop(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	err := g.Wait()
	if s.opts.OnShutdown != nil {
		s.opts.OnShutdown()
	}
	return err
}

func (s *Server) shutdown() error {
	log.Printf("%s: shutting down", s.opts.Name)
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()

	err := s.http.Shutdown(ctx)

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpc.Stop()
	}

	if err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Printf("%s: stopped", s.opts.Name)
	return nil
}

func (s *Server) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.ProbeInterval)
	defer ticker.Stop()

	s.probeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probeOnce(ctx)
		}
	}
}

func (s *Server) probeOnce(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.opts.Probe != nil {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := s.opts.Probe(pctx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("%s: store probe failed: %v", s.opts.Name, err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.opts.Name, status)
}
