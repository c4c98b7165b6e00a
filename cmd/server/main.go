package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"schedulsy-api/internal/auth"
	"schedulsy-api/internal/config"
	"schedulsy-api/internal/database"
	"schedulsy-api/internal/routes"
	"schedulsy-api/internal/tracker"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

// sweeper drops state that outlived its session.
type sweeper interface {
	Sweep()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DatabasePath, cfg.LogSQL)
	if err != nil {
		log.Fatal(err)
	}

	var factory tracker.BackendFactory = func(string) tracker.Backend { return tracker.NewMemoryBackend() }
	if cfg.TaskStore == config.BackendSQLite {
		factory = database.NewTaskBackendFactory(db)
	}
	stores := tracker.NewManager(factory, cfg.SessionTTL)

	users := database.NewUserRepository(db)
	tokens := auth.NewTokenIssuer(cfg)
	provider := auth.NewProvider(tokens, users)

	ginRoutes := routes.SetupRoutes(routes.Dependencies{
		Users:    users,
		Hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
		Tokens:   tokens,
		Provider: provider,
		Stores:   stores,
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go runJanitor(janitorCtx, cfg.SweepInterval, stores, provider)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	log.Printf("Server starting on %s (task store: %s)", cfg.Addr(), cfg.TaskStore)
	log.Println("API endpoints:")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  POST   /api/logout")
	log.Println("  GET    /api/me")
	log.Println("  GET    /api/session")
	log.Println("  GET    /api/dashboard")
	log.Println("  GET    /api/tasks")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  POST   /api/tasks")
	log.Println("  PATCH  /api/tasks/:id/toggle")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  GET    /api/metrics")
	log.Println("  GET    /health")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				stopJanitor()
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	if err := database.Close(db); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// runJanitor sweeps expired session state every interval until ctx is done.
func runJanitor(ctx context.Context, interval time.Duration, sweepers ...sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range sweepers {
				s.Sweep()
			}
		}
	}
}
