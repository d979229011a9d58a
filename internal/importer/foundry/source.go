package foundry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/game/npc"
)

// Source reads Foundry actor exports: *.json files holding one actor or an
// array of actors, and *.db compendium packs holding one actor per line.
type Source struct {
	logger *zap.Logger
}

// NewSource returns a Source that logs skipped actors and items to logger.
//
// Precondition: logger must be non-nil.
func NewSource(logger *zap.Logger) *Source {
	return &Source{logger: logger}
}

// Load implements importer.Source.
//
// Precondition: sourceDir must be a readable directory.
// Postcondition: returns every NPC actor found, ordered by file name and then
// by position in the file, or an error when a file cannot be read or parsed
// or when no NPC actor is found.
func (s *Source) Load(sourceDir string) ([]*npc.Template, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading source dir %q: %w", sourceDir, err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".json" && ext != ".db") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []*npc.Template
	for _, name := range names {
		path := filepath.Join(sourceDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		actors, err := ParseActors(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, actor := range actors {
			tmpl, warnings := ConvertActor(actor)
			for _, w := range warnings {
				s.logger.Warn("foundry import", zap.String("file", name), zap.String("warning", w))
			}
			if tmpl != nil {
				out = append(out, tmpl)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no npc actors found in %q", sourceDir)
	}
	s.logger.Debug("foundry actors converted", zap.Int("files", len(names)), zap.Int("npcs", len(out)))
	return out, nil
}
