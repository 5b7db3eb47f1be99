// Package dataset holds the demo scenario catalog: one canned conversation
// per door, with a calm and a power variant each.
package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"callpal-go/internal/types"
)

//go:embed scenarios.yaml
var embeddedScenarios []byte

type Script struct {
	Opening      string `json:"opening" yaml:"opening"`
	ConfirmLine  string `json:"confirm_line" yaml:"confirm_line"`
	Closing      string `json:"closing" yaml:"closing"`
	Pacing       string `json:"pacing" yaml:"pacing"`
	ConfirmTwice bool   `json:"confirm_twice" yaml:"confirm_twice"`
}

// Variant is how a scenario plays out in one mode.
type Variant struct {
	Script     Script   `json:"script" yaml:"script"`
	Transcript []string `json:"transcript" yaml:"transcript"`
	Summary    string   `json:"summary" yaml:"summary"`
}

type Scenario struct {
	ID             string       `json:"id" yaml:"id"`
	Door           types.Door   `json:"door" yaml:"door"`
	Name           string       `json:"name" yaml:"name"`
	Icon           string       `json:"icon" yaml:"icon"`
	Input          string       `json:"input" yaml:"input"`
	ExpectedIntent types.Intent `json:"expected_intent" yaml:"expected_intent"`
	Calm           Variant      `json:"calm" yaml:"calm"`
	Power          Variant      `json:"power" yaml:"power"`
}

// Shaped is a scenario reduced to the variant for a single mode.
type Shaped struct {
	ID             string       `json:"id"`
	Door           types.Door   `json:"door"`
	Name           string       `json:"name"`
	Icon           string       `json:"icon"`
	Input          string       `json:"input"`
	ExpectedIntent types.Intent `json:"expected_intent"`
	Script         Variant      `json:"script"`
}

type Catalog struct {
	scenarios []Scenario
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return LoadYAML(bytes.NewReader(embeddedScenarios))
}

// Open loads the catalog at path, or the embedded one when path is empty.
// .xlsx files go through the spreadsheet loader, everything else is YAML.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open scenarios: %w", err)
		}
		defer f.Close()
		return LoadYAML(f)
	}
}

func LoadYAML(r io.Reader) (*Catalog, error) {
	var s []Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	return &Catalog{scenarios: s}, nil
}

// All returns a copy of every scenario.
func (c *Catalog) All() []Scenario {
	out := make([]Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

func (c *Catalog) Len() int { return len(c.scenarios) }

// Shape filters by door (empty for all) and keeps only mode's variant.
func (c *Catalog) Shape(mode types.Mode, door types.Door) []Shaped {
	out := []Shaped{}
	for _, s := range c.scenarios {
		if door != "" && s.Door != door {
			continue
		}
		v := s.Calm
		if mode == types.ModePower {
			v = s.Power
		}
		out = append(out, Shaped{
			ID:             s.ID,
			Door:           s.Door,
			Name:           s.Name,
			Icon:           s.Icon,
			Input:          s.Input,
			ExpectedIntent: s.ExpectedIntent,
			Script:         v,
		})
	}
	return out
}
