// Package profile serves the single user profile the assistant calls for.
// Updates are returned to the caller and never written back.
package profile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"callpal-go/internal/theme"
	"callpal-go/internal/types"
)

//go:embed profile.yaml
var embeddedProfile []byte

type Store struct {
	profile types.UserProfile
}

// Open loads the profile at path, or the embedded default when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return Load(bytes.NewReader(embeddedProfile))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Store, error) {
	var p types.UserProfile
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.Mode == "" {
		p.Mode = types.ModeCalm
	}
	return &Store{profile: p}, nil
}

// Get returns a copy of the stored profile.
func (s *Store) Get() types.UserProfile {
	p := s.profile
	p.PreferredDays = slices.Clone(s.profile.PreferredDays)
	return p
}

// Merge overlays patch on the profile's JSON fields, shallowly. Keys unknown
// to the profile are kept; the store itself is unchanged.
func (s *Store) Merge(patch map[string]any) (map[string]any, error) {
	b, err := json.Marshal(s.profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	merged := map[string]any{}
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	maps.Copy(merged, patch)
	return merged, nil
}

// Onboarding is the result of a first-run setup.
type Onboarding struct {
	Profile types.UserProfile `json:"profile"`
	Theme   theme.Theme       `json:"theme"`
}

// Onboard applies first-run answers to a copy of the profile and picks the
// theme for the user's favourite thing. Empty answers keep stored values.
func (s *Store) Onboard(name, favourite string, mode types.Mode) Onboarding {
	p := s.Get()
	if name != "" {
		p.Name = name
	}
	if favourite != "" {
		p.FavouriteThing = favourite
	}
	p.Mode = types.ParseMode(string(mode), p.Mode)
	return Onboarding{Profile: p, Theme: theme.Lookup(p.FavouriteThing)}
}
