// Package config provides configuration management for the erdmark CLI.
//
// Configuration is layered: built-in defaults, then erdmark.yaml, then
// ERDMARK_* environment variables, then explicitly set flags.
package config

import (
	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/leapstack-labs/erdmark/pkg/diagram"
	"github.com/leapstack-labs/erdmark/pkg/reference"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect       string         `koanf:"dialect"`
	OutputFormat  string         `koanf:"output"`
	Verbose       bool           `koanf:"verbose"`
	FeedbackLines int            `koanf:"feedback_lines"`
	Jobs          int            `koanf:"jobs"`
	Labels        []LabelConfig  `koanf:"labels"`
	Marking       map[string]any `koanf:"marking"`
}

// LabelConfig is one relationship label override.
type LabelConfig struct {
	Parent string `koanf:"parent"`
	Child  string `koanf:"child"`
	Label  string `koanf:"label"`
}

// Default configuration values.
const (
	DefaultDialect       = "auto"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultFeedbackLines = 3
	DefaultJobs          = 4
)

// Config file names, in lookup order.
var configFileNames = []string{"erdmark.yaml", "erdmark.yml"}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Dialect:       DefaultDialect,
		OutputFormat:  DefaultOutput,
		FeedbackLines: DefaultFeedbackLines,
		Jobs:          DefaultJobs,
	}
}

// Criteria folds the marking overrides over the default rubric.
func (c *Config) Criteria() (core.MarkingCriteria, error) {
	base := core.DefaultMarkingCriteria()
	if len(c.Marking) == 0 {
		return base, nil
	}
	return reference.DecodeCriteria(base, c.Marking)
}

// LabelTable returns the default label table with configured labels layered
// on top.
func (c *Config) LabelTable() diagram.LabelTable {
	overrides := make(diagram.LabelTable, len(c.Labels))
	for _, l := range c.Labels {
		if l.Parent == "" || l.Child == "" || l.Label == "" {
			continue
		}
		overrides.Set(l.Parent, l.Child, l.Label)
	}
	return diagram.DefaultLabels().Merge(overrides)
}
