package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/auth"
	"github.com/mrlokans/booktracker/internal/config"
	"github.com/mrlokans/booktracker/internal/database"
	"github.com/mrlokans/booktracker/internal/database/audit"
	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/database/categories"
	"github.com/mrlokans/booktracker/internal/database/goals"
	"github.com/mrlokans/booktracker/internal/database/reviews"
	"github.com/mrlokans/booktracker/internal/database/stats"
	"github.com/mrlokans/booktracker/internal/database/users"
	http_controllers "github.com/mrlokans/booktracker/internal/http"
)

// Serve runs the HTTP server until interrupted, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown signal received, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting BookTracker v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.Database.SeedOnStart {
		if err := database.SeedDemoData(db.DB); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = auth.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate token secret: %v", err)
		}
		log.Printf("Generated token secret (set JWT_SECRET to persist sessions across restarts)")
	}

	tokenManager := auth.NewTokenManager(secret, cfg.Auth.TokenExpiry)

	userRepo := users.NewRepository(db.DB)
	authService := auth.NewService(userRepo, tokenManager, cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokenManager)

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		BookStore:      books.NewRepository(db.DB),
		CategoryStore:  categories.NewRepository(db.DB),
		ReviewStore:    reviews.NewRepository(db.DB),
		GoalStore:      goals.NewRepository(db.DB),
		StatsStore:     stats.NewRepository(db.DB),
		Auditor:        audit.NewRepository(db.DB),
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		TokenExpiry:    cfg.Auth.TokenExpiry,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg)
}
