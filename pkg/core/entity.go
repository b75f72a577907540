package core

import "strings"

// =============================================================================
// Keys
// =============================================================================

// KeyKind marks an attribute as part of an entity key.
type KeyKind int

// Key kinds recognized in notation.
const (
	// KeyNone is a plain attribute.
	KeyNone KeyKind = iota
	// KeyPrimary is a primary key attribute, written {PK}.
	KeyPrimary
	// KeyPartial is a partial (weak entity) primary key, written {PPK}.
	KeyPartial
)

// Key annotation tokens as they appear in notation.
const (
	PrimaryKeyToken = "{PK}"
	PartialKeyToken = "{PPK}"
)

// String returns the notation token for the key kind.
func (k KeyKind) String() string {
	switch k {
	case KeyPrimary:
		return "PK"
	case KeyPartial:
		return "PPK"
	default:
		return ""
	}
}

// IsKey reports whether the attribute participates in a key.
func (k KeyKind) IsKey() bool {
	return k != KeyNone
}

// =============================================================================
// Attribute
// =============================================================================

// Attribute is a named entity attribute with an optional key annotation.
type Attribute struct {
	Name string  `json:"name"`
	Key  KeyKind `json:"key,omitempty"`
}

// ParseAttribute splits a raw attribute declaration such as "id{PK}" into
// its name and key annotation. Surrounding whitespace is trimmed.
func ParseAttribute(raw string) Attribute {
	s := strings.TrimSpace(raw)
	switch {
	case strings.Contains(s, PartialKeyToken):
		return Attribute{Name: strings.TrimSpace(strings.ReplaceAll(s, PartialKeyToken, "")), Key: KeyPartial}
	case strings.Contains(s, PrimaryKeyToken):
		return Attribute{Name: strings.TrimSpace(strings.ReplaceAll(s, PrimaryKeyToken, "")), Key: KeyPrimary}
	default:
		return Attribute{Name: s}
	}
}

// Notation returns the attribute as written in notation, e.g. "id{PK}".
func (a Attribute) Notation() string {
	switch a.Key {
	case KeyPrimary:
		return a.Name + PrimaryKeyToken
	case KeyPartial:
		return a.Name + PartialKeyToken
	default:
		return a.Name
	}
}

// =============================================================================
// Method
// =============================================================================

// Method is an operation declared on an entity (class diagrams).
type Method struct {
	Name       string   `json:"name"`
	ReturnType string   `json:"return_type,omitempty"`
	Parameters []string `json:"parameters,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
}

// =============================================================================
// Entity
// =============================================================================

// Entity is a named record type with ordered attributes and optional methods.
type Entity struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	Methods    []Method    `json:"methods,omitempty"`
	Interface  bool        `json:"interface,omitempty"`
}

// EntityKey returns the case-insensitive lookup key for an entity name.
func EntityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key returns the lookup key of the entity.
func (e *Entity) Key() string {
	return EntityKey(e.Name)
}

// AddAttribute appends an attribute unless one with the same name already
// exists. Returns false when the attribute was a duplicate.
func (e *Entity) AddAttribute(a Attribute) bool {
	if a.Name == "" {
		return false
	}
	for _, existing := range e.Attributes {
		if existing.Name == a.Name {
			return false
		}
	}
	e.Attributes = append(e.Attributes, a)
	return true
}

// AddMethod appends a method unless one with the same name and parameter
// list already exists.
func (e *Entity) AddMethod(m Method) bool {
	if m.Name == "" {
		return false
	}
	for _, existing := range e.Methods {
		if existing.Name == m.Name && strings.Join(existing.Parameters, ",") == strings.Join(m.Parameters, ",") {
			return false
		}
	}
	e.Methods = append(e.Methods, m)
	return true
}

// Attribute finds an attribute by case-insensitive name.
func (e *Entity) Attribute(name string) (Attribute, bool) {
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// HasMethod reports whether the entity declares a method with exactly this name.
func (e *Entity) HasMethod(name string) bool {
	for _, m := range e.Methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// AttributeNames returns the attribute names in declaration order.
func (e *Entity) AttributeNames() []string {
	names := make([]string, len(e.Attributes))
	for i, a := range e.Attributes {
		names[i] = a.Name
	}
	return names
}
