package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfagnish/docai-api/internal/config"
	"github.com/alfagnish/docai-api/internal/events"
	grpcserver "github.com/alfagnish/docai-api/internal/grpc"
	"github.com/alfagnish/docai-api/internal/health"
	"github.com/alfagnish/docai-api/internal/server"
	"github.com/alfagnish/docai-api/internal/users"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// 1. Load configuration from environment variables.
	cfg := config.Load()
	log.Printf("config: listen=%s grpc=%q origins=%v seed=%t",
		cfg.ListenAddr, cfg.GRPCListenAddr, cfg.AllowedOrigins, cfg.SeedUsers)

	// 2. Stop on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("api: %v", err)
	}
	log.Println("api stopped")
}

// run serves HTTP and, unless disabled, gRPC health until ctx is done or
// either server fails, then shuts both down within cfg.ShutdownTimeout.
func run(ctx context.Context, cfg *config.Config) error {
	var seed []users.User
	if cfg.SeedUsers {
		seed = users.DefaultSeed()
	}

	handler := server.New(cfg, server.Deps{
		Reporter: health.NewReporter(),
		Registry: users.NewRegistry(seed...),
		Hub:      events.NewHub(cfg.EventBuffer),
	})

	srv := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     handler,
		ReadTimeout: cfg.ReadTimeout,
		// No write timeout: the change feed holds connections open.
		IdleTimeout: cfg.IdleTimeout,
	}

	httpLis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", cfg.ListenAddr, err)
	}

	var gs *grpcserver.Server
	var grpcLis net.Listener
	if cfg.GRPCListenAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCListenAddr)
		if err != nil {
			httpLis.Close()
			return fmt.Errorf("listen grpc %s: %w", cfg.GRPCListenAddr, err)
		}
		gs = grpcserver.NewServer()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("http listening on %s", httpLis.Addr())
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if gs != nil {
		g.Go(func() error {
			log.Printf("grpc health listening on %s", grpcLis.Addr())
			if err := gs.Serve(grpcLis); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if gs != nil {
			if err := gs.Stop(shutdownCtx); err != nil {
				log.Printf("grpc forced stop: %v", err)
			}
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
