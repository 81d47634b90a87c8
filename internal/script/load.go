package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Resolver turns a content reference (a file name) into display text.
// The loader resolves references up front so the engine only ever sees
// final strings. File expands template placeholders; Raw returns the
// asset verbatim for structured blocks, whose content may itself
// contain placeholder-like text.
type Resolver interface {
	File(name string) (string, error)
	Raw(name string) (string, error)
}

// Scene is a named, fully resolved script.
type Scene struct {
	Name  string
	Title string
	Steps []Step
}

// File is the on-disk YAML form of a scene script.
type File struct {
	Name  string     `yaml:"name"`
	Title string     `yaml:"title"`
	Steps []StepSpec `yaml:"steps"`
}

// StepSpec is the YAML form of a single step. Exactly one of Content
// and File may be set for text-bearing steps.
type StepSpec struct {
	Type     string `yaml:"type"`
	Content  string `yaml:"content,omitempty"`
	File     string `yaml:"file,omitempty"`
	Clear    bool   `yaml:"clear,omitempty"`
	Speed    string `yaml:"speed,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Command  string `yaml:"command,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	Prompt   string `yaml:"prompt,omitempty"`
	Key      string `yaml:"key,omitempty"`
}

// Load reads a scene script from a YAML file and resolves its content
// references.
func Load(path string, res Resolver) (*Scene, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("script path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}

	scene, err := Parse(data, res)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return scene, nil
}

// LoadDir loads every .yaml/.yml scene script in a directory, sorted by
// file name. A missing directory yields an empty list.
func LoadDir(dir string, res Resolver) ([]*Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Scene{}, nil
		}
		return nil, fmt.Errorf("read scripts dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	scenes := make([]*Scene, 0, len(names))
	for _, name := range names {
		scene, err := Load(filepath.Join(dir, name), res)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, nil
}

// Parse decodes a YAML scene script and resolves content references.
func Parse(data []byte, res Resolver) (*Scene, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if strings.TrimSpace(file.Name) == "" {
		return nil, fmt.Errorf("scene name is required")
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("scene %q has no steps", file.Name)
	}

	steps := make([]Step, 0, len(file.Steps))
	for i, spec := range file.Steps {
		step, err := buildStep(spec, res)
		if err != nil {
			return nil, fmt.Errorf("scene %q step %d: %w", file.Name, i+1, err)
		}
		steps = append(steps, step)
	}

	return &Scene{Name: file.Name, Title: file.Title, Steps: steps}, nil
}

func buildStep(spec StepSpec, res Resolver) (Step, error) {
	switch strings.ToLower(strings.TrimSpace(spec.Type)) {
	case "display":
		content, err := resolveContent(spec, res)
		if err != nil {
			return nil, err
		}
		return Display{Content: content, Clear: spec.Clear}, nil

	case "type":
		content, err := resolveContent(spec, res)
		if err != nil {
			return nil, err
		}
		speed := DefaultTypeSpeed
		if spec.Speed != "" {
			parsed, err := time.ParseDuration(spec.Speed)
			if err != nil {
				return nil, fmt.Errorf("invalid speed: %w", err)
			}
			if parsed <= 0 {
				return nil, fmt.Errorf("speed must be positive")
			}
			speed = parsed
		}
		return Type{Content: content, Speed: speed}, nil

	case "gradient":
		if spec.Content == "" {
			return nil, fmt.Errorf("gradient step requires content")
		}
		return Gradient{Content: spec.Content}, nil

	case "structured":
		content, err := resolveRawContent(spec, res)
		if err != nil {
			return nil, err
		}
		kind := StructuredKind(strings.ToLower(spec.Kind))
		switch kind {
		case KindYAML, KindCode:
		case "":
			return nil, fmt.Errorf("structured step requires kind (yaml or code)")
		default:
			return nil, fmt.Errorf("unknown structured kind %q", spec.Kind)
		}
		title := spec.Title
		if title == "" && spec.File != "" {
			title = filepath.Base(spec.File)
		}
		return DisplayStructured{Content: content, Kind: kind, Title: title}, nil

	case "terminal":
		if strings.TrimSpace(spec.Command) == "" {
			return nil, fmt.Errorf("terminal step requires command")
		}
		return Terminal{Command: spec.Command}, nil

	case "wait":
		dur, err := time.ParseDuration(spec.Duration)
		if err != nil {
			return nil, fmt.Errorf("invalid duration: %w", err)
		}
		if dur <= 0 {
			return nil, fmt.Errorf("duration must be positive")
		}
		return Wait{Duration: dur}, nil

	case "wait_for_input":
		prompt := spec.Prompt
		if prompt == "" {
			prompt = DefaultPrompt
		}
		key := spec.Key
		if key == "" {
			key = DefaultKey
		}
		return WaitForInput{Prompt: prompt, Key: key}, nil

	case "":
		return nil, fmt.Errorf("step type is required")
	default:
		return nil, fmt.Errorf("unknown step type %q", spec.Type)
	}
}

func resolveContent(spec StepSpec, res Resolver) (string, error) {
	return resolve(spec, res, func(name string) (string, error) {
		return res.File(name)
	})
}

// resolveRawContent skips placeholder expansion. Structured blocks are
// displayed verbatim, and real code assets can contain literal braces
// that a template pass would reject.
func resolveRawContent(spec StepSpec, res Resolver) (string, error) {
	return resolve(spec, res, func(name string) (string, error) {
		return res.Raw(name)
	})
}

func resolve(spec StepSpec, res Resolver, read func(string) (string, error)) (string, error) {
	if spec.Content != "" && spec.File != "" {
		return "", fmt.Errorf("content and file are mutually exclusive")
	}
	if spec.File != "" {
		if res == nil {
			return "", fmt.Errorf("file reference %q requires a resolver", spec.File)
		}
		text, err := read(spec.File)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", spec.File, err)
		}
		return text, nil
	}
	if spec.Content == "" {
		return "", fmt.Errorf("step requires content or file")
	}
	return spec.Content, nil
}
