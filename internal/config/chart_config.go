package config

import (
	"fmt"
	"os"

	"github.com/locvowork/orgmaker/internal/classifier"
	"github.com/locvowork/orgmaker/internal/domain"
	"gopkg.in/yaml.v3"
)

// ChartConfig holds the chart defaults that can be overridden from YAML.
type ChartConfig struct {
	Levels      []domain.Level    `yaml:"levels"`
	LeaderRoles []classifier.Rule `yaml:"leader_roles"`
}

// DefaultChartConfig returns the built-in levels and role rules.
func DefaultChartConfig() *ChartConfig {
	return &ChartConfig{
		Levels:      domain.DefaultLevels(),
		LeaderRoles: classifier.DefaultRules(),
	}
}

// LoadChartConfig reads the YAML chart config at path. An empty path gives
// the defaults; sections missing from the file keep their defaults.
func LoadChartConfig(path string) (*ChartConfig, error) {
	cfg := DefaultChartConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart config: %w", err)
	}
	return ParseChartConfig(data)
}

// ParseChartConfig decodes YAML over the defaults.
func ParseChartConfig(data []byte) (*ChartConfig, error) {
	var file ChartConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode chart config: %w", err)
	}

	cfg := DefaultChartConfig()
	if len(file.Levels) > 0 {
		for i, l := range file.Levels {
			if l.Name == "" {
				return nil, fmt.Errorf("level %d: empty name", i)
			}
			if l.ID == 0 {
				file.Levels[i].ID = i + 1
			}
		}
		cfg.Levels = file.Levels
	}
	if len(file.LeaderRoles) > 0 {
		cfg.LeaderRoles = file.LeaderRoles
	}
	return cfg, nil
}
