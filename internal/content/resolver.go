// Package content resolves step content references into display text.
//
// Resolution happens before the engine ever sees a script: file
// references are read, template placeholders are substituted, and
// structured previews are inlined between sentinel markers that the
// engine uses for its fast-reveal regions.
package content

import (
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Sentinel markers wrapping inlined structured previews. They never
// appear in tutorial prose; the engine strips them before rendering.
const (
	BlockStart = "\x01[block]"
	BlockEnd   = "\x01[/block]"
)

// Resolver loads and processes text assets for scene scripts.
type Resolver struct {
	fsys fs.FS
	vars map[string]string
}

// NewResolver creates a resolver over the given asset filesystem. vars
// are available to templates as {{.name}}.
func NewResolver(fsys fs.FS, vars map[string]string) *Resolver {
	if vars == nil {
		vars = map[string]string{}
	}
	return &Resolver{fsys: fsys, vars: vars}
}

// File reads an asset, trims surrounding whitespace, and expands its
// placeholders.
func (r *Resolver) File(name string) (string, error) {
	raw, err := r.read(name)
	if err != nil {
		return "", err
	}
	return r.expand(name, strings.TrimSpace(raw))
}

// Raw reads an asset without placeholder expansion, for structured
// blocks whose content is displayed verbatim.
func (r *Resolver) Raw(name string) (string, error) {
	raw, err := r.read(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (r *Resolver) read(name string) (string, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return "", fmt.Errorf("read asset %s: %w", name, err)
	}
	return string(data), nil
}

// expand runs the asset through text/template with the yaml preview
// function and the variable map.
func (r *Resolver) expand(name, text string) (string, error) {
	parsed, err := template.New(name).
		Funcs(template.FuncMap{
			"yaml":    r.yamlPreview,
			"default": defaultValue,
		}).
		Option("missingkey=zero").
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, r.vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return out.String(), nil
}

// yamlPreview inlines a YAML asset wrapped in sentinel markers so the
// engine can type it at the fast rate. The file must be valid YAML.
func (r *Resolver) yamlPreview(name string) (string, error) {
	raw, err := r.read(name)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)

	var probe any
	if err := yaml.Unmarshal([]byte(text), &probe); err != nil {
		return "", fmt.Errorf("asset %s is not valid yaml: %w", name, err)
	}

	return BlockStart + "\n" + text + "\n" + BlockEnd, nil
}

func defaultValue(def string, value any) string {
	switch v := value.(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	default:
		text := strings.TrimSpace(fmt.Sprint(v))
		if text == "" {
			return def
		}
		return text
	}
}
