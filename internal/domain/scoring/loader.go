package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// profileHeader selects the bundled profile a file builds on.
type profileHeader struct {
	Base string `yaml:"base"`
}

// LoadProfile reads a YAML profile from path. The file starts from the bundled
// profile named by its "base" key (emotional when absent) and overrides it
// field by field. A nested table such as high only replaces the keys it
// names, so `high: {points: 5}` keeps the base keywords and max_matches.
// A list the file sets replaces the base list.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadProfile, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile document; see LoadProfile.
func ParseProfile(data []byte) (*Profile, error) {
	var hdr profileHeader
	if err := yaml.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadProfile, err)
	}
	if hdr.Base == "" {
		hdr.Base = ProfileEmotional
	}
	ctor, ok := builtins[hdr.Base]
	if !ok {
		return nil, fmt.Errorf("%w: base %q", ErrUnknownProfile, hdr.Base)
	}

	p := ctor()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadProfile, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
