// Package scenes holds the built-in onboarding scenes: the scene
// scripts and the text, code, and config assets they reference, all
// embedded in the binary.
package scenes

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/stimulus-ml/onboard/internal/content"
	"github.com/stimulus-ml/onboard/internal/script"
)

//go:embed scripts assets
var embedded embed.FS

// Load parses the built-in scenes in play order. Script files are
// ordered by their numeric filename prefix.
func Load() ([]*script.Scene, error) {
	assets, err := fs.Sub(embedded, "assets")
	if err != nil {
		return nil, fmt.Errorf("open embedded assets: %w", err)
	}
	resolver := content.NewResolver(assets, nil)

	paths, err := fs.Glob(embedded, "scripts/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list embedded scripts: %w", err)
	}
	sort.Strings(paths)

	loaded := make([]*script.Scene, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(embedded, path)
		if err != nil {
			return nil, fmt.Errorf("read embedded script %s: %w", path, err)
		}
		scene, err := script.Parse(data, resolver)
		if err != nil {
			return nil, fmt.Errorf("parse embedded script %s: %w", path, err)
		}
		loaded = append(loaded, scene)
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("no embedded scenes found")
	}
	return loaded, nil
}

// Names returns the built-in scene names in play order.
func Names() ([]string, error) {
	loaded, err := Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(loaded))
	for i, scene := range loaded {
		names[i] = scene.Name
	}
	return names, nil
}
