package core

import "strings"

// =============================================================================
// Relation kinds
// =============================================================================

// RelationKind is the type tag of a relationship edge.
type RelationKind string

// Relation kinds understood by the parser, renderer and grader.
const (
	RelationAssociation    RelationKind = "association"
	RelationAggregation    RelationKind = "aggregation"
	RelationComposition    RelationKind = "composition"
	RelationImplementation RelationKind = "implementation"
	RelationInheritance    RelationKind = "inheritance"
)

// ParseRelationKind converts a string to a RelationKind.
// Returns RelationAssociation and false if the name is unknown.
func ParseRelationKind(s string) (RelationKind, bool) {
	switch RelationKind(strings.ToLower(strings.TrimSpace(s))) {
	case RelationAssociation:
		return RelationAssociation, true
	case RelationAggregation:
		return RelationAggregation, true
	case RelationComposition:
		return RelationComposition, true
	case RelationImplementation:
		return RelationImplementation, true
	case RelationInheritance:
		return RelationInheritance, true
	default:
		return RelationAssociation, false
	}
}

// =============================================================================
// Cardinality
// =============================================================================

// Cardinality vocabulary. Free-form numeric strings are also accepted.
const (
	ZeroOrOne  = "0..1"
	ExactlyOne = "1..1"
	ZeroOrMany = "0..*"
	OneOrMany  = "1..*"
)

// Cardinality is the (parent-side, child-side) multiplicity pair of a
// relationship. Either side may be empty when the notation omits it.
type Cardinality struct {
	Parent string `json:"parent,omitempty"`
	Child  string `json:"child,omitempty"`
}

// IsZero reports whether neither side is set.
func (c Cardinality) IsZero() bool {
	return c.Parent == "" && c.Child == ""
}

// Swap returns the cardinality with sides exchanged.
func (c Cardinality) Swap() Cardinality {
	return Cardinality{Parent: c.Child, Child: c.Parent}
}

// String renders the pair as "parent - child".
func (c Cardinality) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Parent + " - " + c.Child
}

// =============================================================================
// Relationship
// =============================================================================

// Relationship is a typed edge between two entities.
// Source is the parent side, Target the child side.
type Relationship struct {
	Kind        RelationKind `json:"kind"`
	Source      string       `json:"source"`
	Target      string       `json:"target"`
	Cardinality Cardinality  `json:"cardinality"`
	Label       string       `json:"label,omitempty"`
}

// Connects reports whether the relationship joins a and b in either
// direction. Names compare case-insensitively.
func (r Relationship) Connects(a, b string) bool {
	src, dst := EntityKey(r.Source), EntityKey(r.Target)
	a, b = EntityKey(a), EntityKey(b)
	return (src == a && dst == b) || (src == b && dst == a)
}

// Matches reports whether other has the same kind and joins the same pair
// of entities, regardless of direction.
func (r Relationship) Matches(other Relationship) bool {
	return r.Kind == other.Kind && r.Connects(other.Source, other.Target)
}

// CardinalityMatches reports whether other carries the same cardinality as
// r, taking a reversed direction into account.
func (r Relationship) CardinalityMatches(other Relationship) bool {
	if EntityKey(r.Source) == EntityKey(other.Source) {
		return r.Cardinality == other.Cardinality
	}
	return r.Cardinality == other.Cardinality.Swap()
}

// String renders the relationship for feedback messages.
func (r Relationship) String() string {
	var sb strings.Builder
	sb.WriteString(r.Source)
	sb.WriteString(" -> ")
	sb.WriteString(r.Target)
	sb.WriteString(" (")
	sb.WriteString(string(r.Kind))
	if !r.Cardinality.IsZero() {
		sb.WriteString(", ")
		sb.WriteString(r.Cardinality.String())
	}
	sb.WriteString(")")
	return sb.String()
}
