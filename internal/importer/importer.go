package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/bestiary/internal/game/npc"
)

// Importer orchestrates content import from a Source to an output directory.
type Importer struct {
	source Source
	logger *zap.Logger
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, logger *zap.Logger) *Importer {
	return &Importer{source: source, logger: logger}
}

// Run loads templates from sourceDir, validates each, and writes them as YAML
// files to outputDir. Each output file is named <template_id>.yaml.
//
// Precondition: sourceDir must satisfy the source's layout requirements;
// outputDir must exist or be creatable.
// Postcondition: one template YAML per template is written to outputDir and
// the count is returned, or an error is returned. Two templates with the
// same ID are an error.
func (imp *Importer) Run(sourceDir, outputDir string) (int, error) {
	overall := time.Now()

	t0 := time.Now()
	templates, err := imp.source.Load(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("loading source: %w", err)
	}
	imp.logger.Info("source loaded",
		zap.Int("templates", len(templates)),
		zap.Duration("elapsed", time.Since(t0)),
	)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	seen := make(map[string]bool, len(templates))
	for _, tmpl := range templates {
		if seen[tmpl.ID] {
			return 0, fmt.Errorf("template %q appears more than once in the source", tmpl.ID)
		}
		seen[tmpl.ID] = true

		t1 := time.Now()
		data, err := yaml.Marshal(tmpl)
		if err != nil {
			return 0, fmt.Errorf("serialising template %q: %w", tmpl.ID, err)
		}

		// Validate output is loadable before writing.
		if _, err := npc.LoadTemplateFromBytes(data); err != nil {
			return 0, fmt.Errorf("template %q failed validation: %w", tmpl.ID, err)
		}

		outPath := filepath.Join(outputDir, tmpl.ID+".yaml")
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return 0, fmt.Errorf("writing template %q to %s: %w", tmpl.ID, outPath, err)
		}

		imp.logger.Info("template written",
			zap.String("path", outPath),
			zap.Int("items", len(tmpl.Items)),
			zap.Duration("elapsed", time.Since(t1)),
		)
	}

	imp.logger.Info("import finished", zap.Duration("elapsed", time.Since(overall)))
	return len(templates), nil
}
