package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expiring-map-api/internal/auth"
	"expiring-map-api/internal/cache"
	"expiring-map-api/internal/config"
	"expiring-map-api/internal/database"
	"expiring-map-api/internal/realtime"
	"expiring-map-api/internal/routes"

	"gorm.io/gorm/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("EXPIRING_MAP_CONFIG"), "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db, err := database.Open(cfg.Database.Path, logger.Info)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer database.Close(db)
	log.Println("Database connected and migrated successfully")

	entries := cache.NewSimpleCache[string, json.RawMessage](cfg.Cache.TTL, cache.Options{
		ConcurrencySafe: cfg.Cache.ConcurrencySafe,
	})
	hub := realtime.NewHub()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := cache.NewSweeper(entries, cfg.Cache.SweepInterval)
	sweeper.OnSweep = func(removed int) {
		hub.Publish(realtime.Event{Type: realtime.EventSwept, Removed: removed})
	}
	go sweeper.Run(ctx)

	ginRoutes := routes.SetupRoutes(routes.Dependencies{
		DB:     db,
		Tokens: auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL),
		Cache:  entries,
		Hub:    hub,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: ginRoutes,
	}

	log.Printf("Server starting on %s (ttl=%s, sweep every %s)", srv.Addr, cfg.Cache.TTL, cfg.Cache.SweepInterval)
	log.Println("API endpoints:")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/entries/:key")
	log.Println("  PUT    /api/entries/:key")
	log.Println("  PATCH  /api/entries/:key")
	log.Println("  DELETE /api/entries/:key")
	log.Println("  POST   /api/entries/sweep")
	log.Println("  GET    /api/stats")
	log.Println("  GET    /api/users")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("Server shutdown error:", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server: ", err)
	}
	log.Println("Server stopped")
}
