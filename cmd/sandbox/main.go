package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/vignettes/internal/config"
	"github.com/MrJamesThe3rd/vignettes/internal/database"
	"github.com/MrJamesThe3rd/vignettes/internal/fixture"
	vignettesHttp "github.com/MrJamesThe3rd/vignettes/internal/http"
	vignetteHandler "github.com/MrJamesThe3rd/vignettes/internal/http/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette"
	"github.com/MrJamesThe3rd/vignettes/internal/vignette/store"
)

const dbConnectTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	records, err := seedRecords(cfg.Sandbox.SeedCSV)
	if err != nil {
		slog.Error("failed to load seed", "path", cfg.Sandbox.SeedCSV, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var gw vignette.Gateway

	switch strings.ToLower(cfg.Sandbox.Store) {
	case "postgres":
		connectCtx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
		db, err := database.New(connectCtx, cfg.ConnectionString())
		cancel()

		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg, err := postgresStore(ctx, db, records)
		if err != nil {
			slog.Error("failed to prepare store", "error", err)
			os.Exit(1)
		}

		gw = pg
	default:
		gw = fixture.New(records)
	}

	router := vignettesHttp.New(vignetteHandler.NewHandler(gw), cfg.Sandbox.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting sandbox", "port", port, "store", cfg.Sandbox.Store, "records", len(records))

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// seedRecords returns the demo dataset plus the rows of the optional CSV export.
func seedRecords(path string) ([]fixture.Record, error) {
	records := fixture.Demo()

	if path == "" {
		return records, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed: %w", err)
	}
	defer f.Close()

	extra, err := fixture.LoadCSV(f)
	if err != nil {
		return nil, err
	}

	return append(records, extra...), nil
}

func postgresStore(ctx context.Context, db *sql.DB, records []fixture.Record) (*store.Store, error) {
	s := store.New(db)

	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}

	for category, amount := range fixture.DefaultPrices() {
		if err := s.SetPrice(ctx, category, amount, "USD"); err != nil {
			return nil, err
		}
	}

	for _, r := range records {
		if err := s.Add(ctx, r.Owner, r.Asset, r.Transaction); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", r.Asset.Plate, err)
		}
	}

	return s, nil
}
