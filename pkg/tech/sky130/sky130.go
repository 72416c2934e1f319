// Package sky130 embeds the sky130A rule deck.
package sky130

import (
	_ "embed"

	"github.com/chazu/sramlay/pkg/tech"
)

//go:embed sky130.yaml
var deckYAML []byte

//go:embed sky130.toml
var deckTOML []byte

// Config returns a freshly decoded copy of the sky130A rule deck. It
// panics if the embedded deck does not validate, which would be a build
// defect.
func Config() *tech.Config {
	cfg, err := tech.FromYAML(deckYAML)
	if err != nil {
		panic(err)
	}
	return cfg
}

// YAML returns the embedded deck source in YAML form.
func YAML() []byte { return append([]byte(nil), deckYAML...) }

// TOML returns the embedded deck source in TOML form.
func TOML() []byte { return append([]byte(nil), deckTOML...) }
