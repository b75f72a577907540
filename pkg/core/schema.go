package core

// Schema is an entity/relationship model.
//
// The annotation parser produces it from question notation and the
// normalizer produces it from diagram text; the grader compares two of
// them. Entities keep declaration order and are indexed by lower-cased name.
type Schema struct {
	Entities      []*Entity      `json:"entities"`
	Relationships []Relationship `json:"relationships"`

	index map[string]*Entity
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{
		Entities:      []*Entity{},
		Relationships: []Relationship{},
		index:         make(map[string]*Entity),
	}
}

// Entity looks up an entity by case-insensitive name.
func (s *Schema) Entity(name string) (*Entity, bool) {
	if s == nil {
		return nil, false
	}
	s.reindex()
	e, ok := s.index[EntityKey(name)]
	return e, ok
}

// Ensure returns the entity with the given name, creating it if needed.
// An existing entity keeps its original spelling.
func (s *Schema) Ensure(name string) *Entity {
	if e, ok := s.Entity(name); ok {
		return e
	}
	e := &Entity{Name: name, Attributes: []Attribute{}}
	s.Entities = append(s.Entities, e)
	s.index[EntityKey(name)] = e
	return e
}

// Put stores an entity, merging its attributes and methods into an
// existing entity of the same name.
func (s *Schema) Put(e *Entity) *Entity {
	existing := s.Ensure(e.Name)
	for _, a := range e.Attributes {
		existing.AddAttribute(a)
	}
	for _, m := range e.Methods {
		existing.AddMethod(m)
	}
	if e.Interface {
		existing.Interface = true
	}
	return existing
}

// AddRelationship appends a relationship.
func (s *Schema) AddRelationship(r Relationship) {
	s.Relationships = append(s.Relationships, r)
}

// Len returns the number of entities.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entities)
}

// IsEmpty reports whether the schema has neither entities nor relationships.
func (s *Schema) IsEmpty() bool {
	return s == nil || (len(s.Entities) == 0 && len(s.Relationships) == 0)
}

// EntityNames returns entity names in declaration order.
func (s *Schema) EntityNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Entities))
	for i, e := range s.Entities {
		names[i] = e.Name
	}
	return names
}

// reindex rebuilds the lookup index when the schema was assembled by hand
// or decoded from JSON.
func (s *Schema) reindex() {
	if s.index != nil && len(s.index) == len(s.Entities) {
		return
	}
	s.index = make(map[string]*Entity, len(s.Entities))
	for _, e := range s.Entities {
		if _, dup := s.index[e.Key()]; !dup {
			s.index[e.Key()] = e
		}
	}
}
