// Package core defines the shared language of the erdmark system.
//
// This package contains:
//   - Diagram entities (Entity, Attribute, Method, Relationship)
//   - Schema, shared by the annotation parser and the diagram normalizer
//   - Rubric configuration (MarkingCriteria)
//   - Grading output (DimensionResult, GradingResult, FeedbackLine)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
