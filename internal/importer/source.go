// Package importer converts NPC stat blocks from external formats into NPC
// template YAML files.
package importer

import "github.com/cory-johannsen/bestiary/internal/game/npc"

// Source loads NPC stat blocks from a format-specific source directory.
//
// Precondition: sourceDir must exist and contain the expected layout for the format.
// Postcondition: returns at least one Template, or a non-nil error.
type Source interface {
	Load(sourceDir string) ([]*npc.Template, error)
}
