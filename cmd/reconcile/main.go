// Command reconcile runs one ladder batch from the command line and
// exits. Useful for cron triggers and local inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/morthond/wotr-ladder/internal/cardgame"
	"github.com/morthond/wotr-ladder/internal/config"
	"github.com/morthond/wotr-ladder/internal/rating"
	"github.com/morthond/wotr-ladder/internal/reconcile"
	"github.com/morthond/wotr-ladder/internal/schema"
	"github.com/morthond/wotr-ladder/internal/store"
	"github.com/morthond/wotr-ladder/internal/wotr"
)

func main() {
	gameName := flag.String("game", "wotr", "ladder to reconcile: wotr or cardgame")
	seed := flag.Bool("seed", false, "create empty sheets for the chosen game and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var g reconcile.Game
	switch *gameName {
	case "wotr":
		g = wotr.New()
	case "cardgame":
		g = cardgame.New()
	default:
		log.Fatalf("Unknown game %q (want wotr or cardgame)", *gameName)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if *seed {
		if err := seedSheets(ctx, db, g); err != nil {
			log.Fatalf("Failed to seed sheets: %v", err)
		}
		fmt.Printf("Sheets ready for %s in %s\n", g.Name(), cfg.DBPath)
		return
	}

	engine, err := rating.NewEngine(rating.Default())
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	summary, err := reconcile.New(db, engine, cfg.BatchSize, logrus.New()).Run(ctx, g)
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}
	fmt.Printf("Batch %s: %d reports, %d processed, %d new players (%s)\n",
		summary.BatchID, summary.Reports, summary.Processed, len(summary.NewPlayers), summary.Duration)
}

func seedSheets(ctx context.Context, db *store.SQLiteStore, g reconcile.Game) error {
	for _, sheet := range []reconcile.SheetSpec{g.Pending(), g.History(), g.NoStats(), g.Ladder()} {
		headers := make([]schema.Row, sheet.HeaderRows)
		for i := range headers {
			headers[i] = schema.Row{sheet.Name}
		}
		if err := db.CreateSheet(ctx, sheet.Name, headers); err != nil {
			return err
		}
	}
	return nil
}
