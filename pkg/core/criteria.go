package core

import "sort"

// =============================================================================
// Marking criteria
// =============================================================================

// Rubric dimension names as they appear in marking blocks and config files.
const (
	CriterionEntityName               = "entity-name"
	CriterionEntityAttributes         = "entity-attributes"
	CriterionEntityKey                = "entity-key"
	CriterionExtraEntityPenalty       = "extra-entity-penalty"
	CriterionWeakEntity               = "weak-entity"
	CriterionRelationship             = "relationship"
	CriterionCardinality              = "cardinality"
	CriterionExtraRelationshipPenalty = "extra-relationship-penalty"
	CriterionMethod                   = "method"
	CriterionMaxGrade                 = "max-grade"
)

// MarkingCriteria holds rubric weights for grading.
//
// It is a plain value: grading code receives it as a parameter and never
// mutates shared state. Use DefaultMarkingCriteria for a fresh copy.
type MarkingCriteria struct {
	EntityName               float64 `json:"entity-name" mapstructure:"entity-name"`
	EntityAttributes         float64 `json:"entity-attributes" mapstructure:"entity-attributes"`
	EntityKey                float64 `json:"entity-key" mapstructure:"entity-key"`
	ExtraEntityPenalty       float64 `json:"extra-entity-penalty" mapstructure:"extra-entity-penalty"`
	WeakEntity               float64 `json:"weak-entity" mapstructure:"weak-entity"`
	Relationship             float64 `json:"relationship" mapstructure:"relationship"`
	Cardinality              float64 `json:"cardinality" mapstructure:"cardinality"`
	ExtraRelationshipPenalty float64 `json:"extra-relationship-penalty" mapstructure:"extra-relationship-penalty"`
	Method                   float64 `json:"method" mapstructure:"method"`
	MaxGrade                 float64 `json:"max-grade" mapstructure:"max-grade"`

	// Options carries non-numeric marking attributes through untouched.
	Options map[string]any `json:"options,omitempty" mapstructure:",remain"`
}

// DefaultMarkingCriteria returns the built-in rubric.
func DefaultMarkingCriteria() MarkingCriteria {
	return MarkingCriteria{
		EntityName:               0.2,
		EntityAttributes:         0.1,
		EntityKey:                0.2,
		ExtraEntityPenalty:       0.25,
		WeakEntity:               0.5,
		Relationship:             0.5,
		Cardinality:              0.25,
		ExtraRelationshipPenalty: 0.25,
		Method:                   1.0,
		MaxGrade:                 10,
	}
}

// Clone returns a deep copy.
func (c MarkingCriteria) Clone() MarkingCriteria {
	out := c
	if c.Options != nil {
		out.Options = make(map[string]any, len(c.Options))
		for k, v := range c.Options {
			out.Options[k] = v
		}
	}
	return out
}

// Weights returns the numeric weights keyed by rubric name.
func (c MarkingCriteria) Weights() map[string]float64 {
	return map[string]float64{
		CriterionEntityName:               c.EntityName,
		CriterionEntityAttributes:         c.EntityAttributes,
		CriterionEntityKey:                c.EntityKey,
		CriterionExtraEntityPenalty:       c.ExtraEntityPenalty,
		CriterionWeakEntity:               c.WeakEntity,
		CriterionRelationship:             c.Relationship,
		CriterionCardinality:              c.Cardinality,
		CriterionExtraRelationshipPenalty: c.ExtraRelationshipPenalty,
		CriterionMethod:                   c.Method,
		CriterionMaxGrade:                 c.MaxGrade,
	}
}

// Weight returns the weight for a rubric name.
func (c MarkingCriteria) Weight(name string) (float64, bool) {
	w, ok := c.Weights()[name]
	return w, ok
}

// CriterionNames returns all rubric names in sorted order.
func CriterionNames() []string {
	names := make([]string, 0, 10)
	for name := range DefaultMarkingCriteria().Weights() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
