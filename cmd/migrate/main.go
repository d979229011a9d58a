// Package main applies or rolls back the database schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/config"
	"github.com/cory-johannsen/bestiary/internal/observability"
	"github.com/cory-johannsen/bestiary/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("dir", "migrations", "path to the migrations directory")
	directionName := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	direction, err := postgres.ParseDirection(*directionName)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "migrate")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer observability.Sync(logger)

	m, err := postgres.OpenMigrator(*dir, cfg.Database)
	if err != nil {
		logger.Fatal("opening migrations", zap.String("dir", *dir), zap.Error(err))
	}
	defer m.Close()

	res, err := postgres.RunMigrations(m, direction, *steps)
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	logger.Info("migration finished",
		zap.String("direction", string(direction)),
		zap.Bool("changed", res.Changed),
		zap.Uint("version", res.Version),
		zap.Bool("dirty", res.Dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
	if !res.Changed {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v)\n", res.Version, res.Dirty)
		return
	}
	fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v\n", direction, res.Version, res.Dirty)
}
