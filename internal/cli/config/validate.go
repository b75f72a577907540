package config

import (
	"fmt"

	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/pkg/notation"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := notation.ParseDialect(c.Dialect); err != nil {
		return fmt.Errorf("invalid dialect: %w", err)
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.FeedbackLines < 1 {
		return fmt.Errorf("feedback_lines must be at least 1, got %d", c.FeedbackLines)
	}
	for i, l := range c.Labels {
		if l.Parent == "" || l.Child == "" {
			return fmt.Errorf("labels[%d]: parent and child are required", i)
		}
	}
	if _, err := c.Criteria(); err != nil {
		return fmt.Errorf("invalid marking: %w", err)
	}
	return nil
}
