package diagram

import "strings"

// DefaultLabel is used for relationships with no specific label.
const DefaultLabel = "relates"

// Pair identifies a (parent, child) entity pair, upper-cased.
type Pair struct {
	Parent string
	Child  string
}

// LabelTable maps entity pairs to relationship labels.
type LabelTable map[Pair]string

// NewPair builds a normalized pair key.
func NewPair(parent, child string) Pair {
	return Pair{
		Parent: strings.ToUpper(strings.TrimSpace(parent)),
		Child:  strings.ToUpper(strings.TrimSpace(child)),
	}
}

// Lookup returns the label for the pair, if any.
func (t LabelTable) Lookup(parent, child string) (string, bool) {
	if t == nil {
		return "", false
	}
	label, ok := t[NewPair(parent, child)]
	return label, ok
}

// Set adds or replaces a label.
func (t LabelTable) Set(parent, child, label string) {
	t[NewPair(parent, child)] = label
}

// Merge returns a new table with other's entries layered over t's.
func (t LabelTable) Merge(other LabelTable) LabelTable {
	out := make(LabelTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// DefaultLabels returns the sample label table shipped with the tool.
// Deployments supply their own through configuration.
func DefaultLabels() LabelTable {
	return LabelTable{
		NewPair("Region", "State"):            "includes",
		NewPair("State", "Congressperson"):    "has",
		NewPair("Congressperson", "Bill"):     "sponsors",
		NewPair("Congressperson", "Votes_On"): "casts",
		NewPair("Bill", "Votes_On"):           "receives",
	}
}
