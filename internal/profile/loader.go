package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads a profile from a YAML file. Omitted fields fall back
// to the embedded default profile.
func LoadFromFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	p, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", path, err)
	}
	return p, nil
}

// LoadBytes loads a profile from YAML bytes.
func LoadBytes(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&p)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// applyDefaults fills zero-valued fields from the built-in defaults.
func applyDefaults(p *Profile) {
	if p.Name == "" {
		p.Name = "smpte-430-2-chain"
	}
	if p.RootValidityDays == 0 {
		p.RootValidityDays = 3650
	}
	if p.KeyBits == 0 {
		p.KeyBits = 2048
	}
}
