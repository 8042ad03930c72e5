package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/costplan/costplan/internal/project"
)

// loadProject reads a project definition from a YAML file (JSON is a valid
// subset) and validates its scalar fields. Dependency validation happens in
// the engine so cycle details can be rendered.
func loadProject(path string) (*project.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	var p project.Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	// Accept any casing for the risk level in files.
	if p.RiskLevel != "" {
		level, err := project.ParseRiskLevel(string(p.RiskLevel))
		if err != nil {
			return nil, err
		}
		p.RiskLevel = level
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
