package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "bindable.yaml"

// Field kinds.
const (
	KindText   = "text"
	KindToggle = "toggle"
)

// Config represents the optional bindable.yaml configuration.
type Config struct {
	Title  string               `yaml:"title,omitempty"`
	Fields []FieldConfig         `yaml:"fields,omitempty"`
	Keys   map[string]KeyConfig `yaml:"keys,omitempty"`
}

// FieldConfig describes one form field.
type FieldConfig struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Initial string `yaml:"initial,omitempty"`
	Limit   int    `yaml:"limit,omitempty"`
}

// KeyConfig contains per-key settings.
type KeyConfig struct {
	File string `yaml:"file,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root   string
	Title  string
	Fields []Field
	Keys   []Key
}

// Field is a resolved form field.
type Field struct {
	Name  string
	Kind  string
	Key   string
	Limit int
}

// Key is one shared value. Every field with the same key binds the same
// observable.
type Key struct {
	Name       string
	Kind       string
	Initial    string
	HasInitial bool
	File       string
}

// Key returns the resolved key called name.
func (r *Resolved) Key(name string) (Key, bool) {
	for _, k := range r.Keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// LoadOptional reads bindable.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Resolve applies defaults to cfg and validates it. Relative file paths are
// resolved against root.
func Resolve(cfg *Config, root string) (*Resolved, error) {
	title := strings.TrimSpace(cfg.Title)
	if title == "" {
		title = "bindable"
	}

	fields := cfg.Fields
	if len(fields) == 0 {
		fields = defaultFields()
	}

	resolved := &Resolved{Root: root, Title: title}
	keys := make(map[string]int)

	for i, fc := range fields {
		name := strings.TrimSpace(fc.Name)
		if name == "" {
			return nil, fmt.Errorf("fields[%d]: name is required", i)
		}

		kind := strings.ToLower(strings.TrimSpace(fc.Kind))
		if kind == "" {
			kind = KindText
		}
		if kind != KindText && kind != KindToggle {
			return nil, fmt.Errorf("field %q: unknown kind %q (use text or toggle)", name, fc.Kind)
		}

		keyName := strings.TrimSpace(fc.Key)
		if keyName == "" {
			keyName = strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		}

		if fc.Limit < 0 {
			return nil, fmt.Errorf("field %q: limit must not be negative", name)
		}
		if fc.Limit > 0 && kind != KindText {
			return nil, fmt.Errorf("field %q: limit only applies to text fields", name)
		}

		initial := fc.Initial
		if initial != "" && kind == KindToggle {
			if _, err := strconv.ParseBool(initial); err != nil {
				return nil, fmt.Errorf("field %q: initial %q is not a bool", name, initial)
			}
		}

		idx, seen := keys[keyName]
		if !seen {
			keys[keyName] = len(resolved.Keys)
			resolved.Keys = append(resolved.Keys, Key{
				Name:       keyName,
				Kind:       kind,
				Initial:    initial,
				HasInitial: initial != "",
			})
		} else {
			k := &resolved.Keys[idx]
			if k.Kind != kind {
				return nil, fmt.Errorf("field %q: key %q is already used by a %s field", name, keyName, k.Kind)
			}
			if initial != "" {
				if k.HasInitial && k.Initial != initial {
					return nil, fmt.Errorf("field %q: conflicting initial value for key %q", name, keyName)
				}
				k.Initial = initial
				k.HasInitial = true
			}
		}

		resolved.Fields = append(resolved.Fields, Field{
			Name:  name,
			Kind:  kind,
			Key:   keyName,
			Limit: fc.Limit,
		})
	}

	for keyName, kc := range cfg.Keys {
		idx, ok := keys[keyName]
		if !ok {
			return nil, fmt.Errorf("keys.%s: not used by any field", keyName)
		}
		file := strings.TrimSpace(kc.File)
		if file == "" {
			continue
		}
		k := &resolved.Keys[idx]
		if k.Kind != KindText {
			return nil, fmt.Errorf("keys.%s: file binding requires a text key", keyName)
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, file)
		}
		k.File = file
	}

	return resolved, nil
}

func defaultFields() []FieldConfig {
	return []FieldConfig{
		{Name: "Name", Kind: KindText, Key: "name", Initial: "Ada"},
		{Name: "Name (mirror)", Kind: KindText, Key: "name"},
		{Name: "Subscribed", Kind: KindToggle, Key: "subscribed", Initial: "false"},
	}
}
