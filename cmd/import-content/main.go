package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/config"
	"github.com/cory-johannsen/bestiary/internal/importer"
	"github.com/cory-johannsen/bestiary/internal/importer/foundry"
	"github.com/cory-johannsen/bestiary/internal/observability"
)

func main() {
	format := flag.String("format", "foundry", "source format: foundry")
	sourceDir := flag.String("source", "", "path to the exported actors")
	outputDir := flag.String("output", "", "path to the output npc template directory")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	if *sourceDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-content [-format foundry] -source <dir> -output <dir> [-v]")
		os.Exit(1)
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(config.LoggingConfig{Level: level, Format: "console"}, "import-content")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer observability.Sync(logger)

	var src importer.Source
	switch *format {
	case "foundry":
		src = foundry.NewSource(logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: foundry)\n", *format)
		os.Exit(1)
	}

	start := time.Now()
	n, err := importer.New(src, logger).Run(*sourceDir, *outputDir)
	if err != nil {
		logger.Error("import failed", zap.Error(err))
		observability.Sync(logger)
		os.Exit(1)
	}
	fmt.Printf("imported %d npc template(s) in %s\n", n, time.Since(start).Round(time.Millisecond))
}
