package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultStop is the simulated stop time applied when a manifest leaves the
// bounds unset.
const DefaultStop = 30.0

// Manifest declaratively describes one batch of simulation runs.
type Manifest struct {
	// Model is the path to the model file.
	Model string `yaml:"model"`

	// OutputVariables are the signal names harvested after each run.
	OutputVariables []string `yaml:"output_variables"`

	// Start and Stop bound the simulated timeline.
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`

	// Parameters are base workspace assignments applied before any run.
	Parameters map[string]any `yaml:"parameters"`

	// Sweep optionally varies one parameter across runs.
	Sweep *Sweep `yaml:"sweep"`
}

// Sweep varies a single parameter over a list of values, one run per value.
type Sweep struct {
	Parameter string `yaml:"parameter"`
	Values    []any  `yaml:"values"`
}

// LoadManifest reads and validates a YAML manifest, applying defaults.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Stop == 0 {
		m.Stop = DefaultStop
	}
}

// Validate reports manifest-level configuration errors.
func (m *Manifest) Validate() error {
	if m.Model == "" {
		return fmt.Errorf("manifest: model path is required")
	}
	if m.Stop <= m.Start {
		return fmt.Errorf("manifest: stop (%g) must be greater than start (%g)", m.Stop, m.Start)
	}
	if m.Sweep != nil {
		if m.Sweep.Parameter == "" {
			return fmt.Errorf("manifest: sweep parameter name is required")
		}
		if len(m.Sweep.Values) == 0 {
			return fmt.Errorf("manifest: sweep needs at least one value")
		}
	}
	return nil
}
