package main

import (
	"Bundespredict/internal/auth"
	"Bundespredict/internal/config"
	"Bundespredict/internal/dataset"
	"Bundespredict/internal/feed"
	"Bundespredict/internal/game"
	"Bundespredict/internal/handlers"
	"Bundespredict/internal/logos"
	"Bundespredict/internal/model"
	"Bundespredict/internal/routes"
	"Bundespredict/internal/scoreboard"
	"Bundespredict/internal/services"
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		log.Fatalf("Failed to load match data: %v", err)
	}
	slog.Info("Loaded match data", "matches", len(ds.Matches), "min_salary", ds.Salaries.Min, "max_salary", ds.Salaries.Max)

	clf, err := model.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	sampler, err := game.NewSampler(ds.Matches)
	if err != nil {
		log.Fatalf("Failed to create match sampler: %v", err)
	}

	store := initScoreboard(cfg.Scoreboard)
	defer store.Close()

	scoreFeed := feed.NewFeed()
	defer scoreFeed.Stop()

	// Drop games nobody has touched since their cookie expired
	sessions := &services.Sessions{TTL: auth.TokenTTL}
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sessions.RunSweeper(sweepCtx, 10*time.Minute)

	r := gin.Default()

	// Load templates
	r.SetFuncMap(handlers.TemplateFuncs)
	r.LoadHTMLGlob(cfg.TemplateGlob)

	// Serve static files
	r.Static("/assets", cfg.AssetsDir)
	r.Static("/logos", cfg.LogoDir)

	handler := &handlers.Handler{
		Sessions:   sessions,
		Sampler:    sampler,
		Model:      clf,
		Scoreboard: store,
		Feed:       scoreFeed,
		Salaries:   ds.Salaries,
		Logos:      logos.Resolver{Dir: cfg.LogoDir, Prefix: "/logos"},
		Secret:     cfg.Secret,
		AdminToken: cfg.AdminToken,
	}

	// Add public routes
	routes.PublicRoutes(r, handler)

	// Add Protected routes
	routes.ProtectedRoutes(r, handler)

	fmt.Printf("Server running at http://localhost%s\n", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func initScoreboard(cfg scoreboard.Config) scoreboard.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := scoreboard.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s scoreboard: %v", cfg.Backend, err)
	}

	// fail fast on credentials or schema problems, and repair drift before the first player arrives
	entries, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read scoreboard: %v", err)
	}
	slog.Info("Scoreboard ready", "backend", cfg.Backend, "entries", len(entries))
	return store
}
