package geo

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DeviceClass distinguishes positioning hardware profiles. Tablets get longer
// timeouts and retries because their location stacks are slower and flakier
// than handheld ones.
type DeviceClass string

const (
	Handheld DeviceClass = "handheld"
	Tablet   DeviceClass = "tablet"
)

// Profile is the timeout/retry budget for one device class.
type Profile struct {
	Timeout    time.Duration
	MaximumAge time.Duration
	Attempts   int
	RetryDelay time.Duration
}

// UnmarshalYAML accepts durations in time.ParseDuration notation ("45s",
// "10m"), which yaml.v3 does not decode into time.Duration on its own.
func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Timeout    string `yaml:"timeout"`
		MaximumAge string `yaml:"maximumAge"`
		Attempts   int    `yaml:"attempts"`
		RetryDelay string `yaml:"retryDelay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parse := func(s string, dst *time.Duration) error {
		if s == "" {
			return nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*dst = d
		return nil
	}

	if err := parse(raw.Timeout, &p.Timeout); err != nil {
		return err
	}
	if err := parse(raw.MaximumAge, &p.MaximumAge); err != nil {
		return err
	}
	if err := parse(raw.RetryDelay, &p.RetryDelay); err != nil {
		return err
	}
	p.Attempts = raw.Attempts
	return nil
}

// Profiles maps each device class to its capture budget.
type Profiles map[DeviceClass]Profile

// DefaultProfiles mirrors the observed field behavior: handhelds get one shot
// with a short cache window, tablets get three with a long passive cache.
func DefaultProfiles() Profiles {
	return Profiles{
		Handheld: {
			Timeout:    15 * time.Second,
			MaximumAge: 60 * time.Second,
			Attempts:   1,
		},
		Tablet: {
			Timeout:    30 * time.Second,
			MaximumAge: 300 * time.Second,
			Attempts:   3,
			RetryDelay: 2 * time.Second,
		},
	}
}

// LoadProfiles reads overrides from a YAML file, falling back to defaults for
// classes the file does not mention.
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile config %s: %w", path, err)
	}

	var overrides Profiles
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse profile config %s: %w", path, err)
	}

	profiles := DefaultProfiles()
	for class, p := range overrides {
		profiles[class] = p
	}
	return profiles, nil
}

// For resolves the profile for a device class, treating anything unknown as
// handheld.
func (p Profiles) For(class DeviceClass) Profile {
	if profile, ok := p[class]; ok {
		return profile
	}
	return p[Handheld]
}
