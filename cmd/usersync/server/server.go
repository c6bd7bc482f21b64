package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-sync/cmd/usersync/di"
)

// Server struct holds all server dependencies
type Server struct {
	Container *di.Container
	Logger    *zap.Logger
	GRPC      *grpc.Server
	Health    *health.Server
	Gin       *http.Server

	grpcLis net.Listener
	httpLis net.Listener
}

// New creates a new server instance
func New(c *di.Container, l *zap.Logger) *Server {
	grpcServer, healthServer := SetupGRPC(l)
	return &Server{
		Container: c,
		Logger:    l,
		GRPC:      grpcServer,
		Health:    healthServer,
		Gin:       SetupGinServer(c, httpAddress(c), l),
	}
}

// Listen binds the gRPC and HTTP listeners.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{}

	grpcLis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Container))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}

	httpLis, err := lc.Listen(ctx, "tcp", httpAddress(s.Container))
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen for HTTP: %w", err)
	}

	s.grpcLis, s.httpLis = grpcLis, httpLis
	return nil
}

// GRPCAddr returns the bound gRPC address, or nil before Listen.
func (s *Server) GRPCAddr() net.Addr {
	if s.grpcLis == nil {
		return nil
	}
	return s.grpcLis.Addr()
}

// HTTPAddr returns the bound HTTP address, or nil before Listen.
func (s *Server) HTTPAddr() net.Addr {
	if s.httpLis == nil {
		return nil
	}
	return s.httpLis.Addr()
}

// Serve runs the gRPC server, the HTTP facade and the mirror publisher until
// ctx is cancelled or one of them fails, then shuts everything down.
func (s *Server) Serve(ctx context.Context) error {
	if s.grpcLis == nil || s.httpLis == nil {
		if err := s.Listen(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.Stringer("address", s.grpcLis.Addr()))
		if err := s.GRPC.Serve(s.grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("HTTP facade running", zap.Stringer("address", s.httpLis.Addr()))
		if err := s.Gin.Serve(s.httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	if p := s.Container.Publisher; p != nil {
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	s.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown stops accepting work, drains in-flight requests and marks the
// health service NOT_SERVING.
func (s *Server) shutdown() error {
	timeout := s.Container.Config.App.ShutdownTimeout()
	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	s.Health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := s.Gin.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.Logger.Warn("gRPC graceful stop timed out, forcing")
		s.GRPC.Stop()
	}

	return errors.Join(errs...)
}

func grpcAddress(c *di.Container) string {
	return ":" + c.Config.App.GRPCPort
}

func httpAddress(c *di.Container) string {
	return ":" + c.Config.App.HTTPPort
}
