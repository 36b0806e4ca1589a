package compiler

import (
	"fmt"
	"sort"

	"github.com/y8/canopy/internal/backend"
	"github.com/y8/canopy/internal/rubybe"
)

// DefaultTarget is used when no --target is given.
const DefaultTarget = "ruby"

var targets = map[string]func() backend.Builder{
	"ruby": func() backend.Builder { return rubybe.New() },
}

// getBackend returns a fresh root builder for the given target
func getBackend(target string) (backend.Builder, error) {
	newBuilder, ok := targets[target]
	if !ok {
		return nil, fmt.Errorf("unknown target: %s (available: %v)", target, Targets())
	}
	return newBuilder(), nil
}

// Targets lists the supported target names.
func Targets() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
