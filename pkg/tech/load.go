package tech

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a rule deck. The format is chosen from the file
// extension: .yaml and .yml for YAML, .toml for TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading design rules")
	}
	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = FromYAML(data)
	case ".toml":
		cfg, err = FromTOML(data)
	default:
		return nil, errors.Wrapf(ErrMalformedConfig, "unsupported rule deck extension %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	logger().Debug("loaded design rules", slog.String("path", path), slog.String("tech", cfg.Tech),
		slog.Int("layers", len(cfg.Layers)), slog.Int("stacks", len(cfg.Stacks)))
	return cfg, nil
}

// FromYAML decodes and validates a YAML rule deck. Unknown keys are errors.
func FromYAML(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(ErrMalformedConfig, "yaml: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromTOML decodes and validates a TOML rule deck. Unknown keys are errors.
func FromTOML(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedConfig, "toml: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(ErrMalformedConfig, "toml: unknown key %s", undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToYAML encodes the deck as YAML.
func (c *Config) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding design rules")
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
