package grade

import (
	"fmt"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// =============================================================================
// Entities
// =============================================================================

func gradeEntities(submitted, reference *core.Schema, c core.MarkingCriteria) core.DimensionResult {
	d := core.DimensionResult{Name: core.DimensionEntities}

	for _, ref := range reference.Entities {
		d.MaxScore += c.EntityName
		sub, found := submitted.Entity(ref.Name)
		if found {
			d.Score += c.EntityName
			d.Add(core.FeedbackFound, "Found required entity: "+ref.Name)
		} else {
			d.Add(core.FeedbackMissing, "Missing required entity: "+ref.Name)
		}

		for _, attr := range ref.Attributes {
			d.MaxScore += c.EntityAttributes
			var subAttr core.Attribute
			attrFound := false
			if found {
				subAttr, attrFound = sub.Attribute(attr.Name)
			}
			if attrFound {
				d.Score += c.EntityAttributes
			} else if found {
				d.Add(core.FeedbackMissing, fmt.Sprintf("Missing attribute %s in entity %s", attr.Name, ref.Name))
			}

			if !attr.Key.IsKey() {
				continue
			}
			weight := c.EntityKey
			if attr.Key == core.KeyPartial {
				weight = c.WeakEntity
			}
			d.MaxScore += weight
			if attrFound && subAttr.Key.IsKey() {
				d.Score += weight
			} else if found {
				d.Add(core.FeedbackMissing, fmt.Sprintf("Key attribute %s in entity %s is not marked as a key", attr.Name, ref.Name))
			}
		}
	}

	extra := 0
	for _, sub := range submitted.Entities {
		if _, ok := reference.Entity(sub.Name); !ok {
			extra++
			d.Add(core.FeedbackExtra, "Unexpected entity: "+sub.Name)
		}
	}
	applyPenalty(&d, extra, c.ExtraEntityPenalty)

	return d
}

// =============================================================================
// Relationships
// =============================================================================

func gradeRelationships(submitted, reference *core.Schema, c core.MarkingCriteria) core.DimensionResult {
	d := core.DimensionResult{Name: core.DimensionRelationships}
	perRelationship := c.Relationship + c.Cardinality

	if len(submitted.Relationships) == 0 {
		for _, ref := range reference.Relationships {
			d.MaxScore += perRelationship
			d.Add(core.FeedbackMissing, "Missing relationship: "+ref.String())
		}
		return d
	}

	used := make([]bool, len(submitted.Relationships))
	for _, ref := range reference.Relationships {
		d.MaxScore += perRelationship

		match := -1
		for i, sub := range submitted.Relationships {
			if !used[i] && ref.Matches(sub) {
				match = i
				break
			}
		}

		if match < 0 {
			d.Add(core.FeedbackMissing, "Missing relationship: "+ref.String())
			for _, name := range []string{ref.Source, ref.Target} {
				if _, ok := submitted.Entity(name); !ok {
					d.Add(core.FeedbackMissing, fmt.Sprintf("Relationship %s needs missing entity %s", ref.String(), name))
				}
			}
			continue
		}

		used[match] = true
		sub := submitted.Relationships[match]
		d.Score += c.Relationship
		d.Add(core.FeedbackFound, "Found relationship: "+ref.String())
		if ref.CardinalityMatches(sub) {
			d.Score += c.Cardinality
		} else {
			d.Add(core.FeedbackMissing, fmt.Sprintf("Incorrect cardinality for %s - %s: expected %s",
				ref.Source, ref.Target, ref.Cardinality.String()))
		}
	}

	extra := 0
	for _, sub := range submitted.Relationships {
		if !hasMatch(reference.Relationships, sub) {
			extra++
			d.Add(core.FeedbackExtra, "Unexpected relationship: "+sub.String())
		}
	}
	applyPenalty(&d, extra, c.ExtraRelationshipPenalty)

	return d
}

func hasMatch(rels []core.Relationship, r core.Relationship) bool {
	for _, candidate := range rels {
		if candidate.Matches(r) {
			return true
		}
	}
	return false
}

// =============================================================================
// Methods
// =============================================================================

func gradeMethods(submitted, reference *core.Schema, c core.MarkingCriteria) core.DimensionResult {
	d := core.DimensionResult{Name: core.DimensionMethods}

	for _, ref := range reference.Entities {
		if len(ref.Methods) == 0 {
			continue
		}
		sub, found := submitted.Entity(ref.Name)
		for _, m := range ref.Methods {
			d.MaxScore += c.Method
			if found && sub.HasMethod(m.Name) {
				d.Score += c.Method
				d.Add(core.FeedbackFound, fmt.Sprintf("Found method: %s.%s", ref.Name, m.Name))
			} else {
				d.Add(core.FeedbackMissing, fmt.Sprintf("Missing method: %s.%s", ref.Name, m.Name))
			}
		}
	}

	return d
}
