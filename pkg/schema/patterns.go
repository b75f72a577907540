package schema

import (
	"regexp"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// edgePattern recognizes one relationship marker.
//
// Capture groups: 1 left entity, 2 left quoted cardinality, 3 right quoted
// cardinality, 4 right entity, 5 label. reversed means the decorated end is
// on the right, so the right entity becomes the relationship source.
type edgePattern struct {
	kind     core.RelationKind
	re       *regexp.Regexp
	reversed bool
}

// Separators around a marker. A bare o on the marker side could belong to the
// entity name (Cargo--Ship), so that side needs a space or a quoted
// cardinality between name and marker.
const (
	leftLoose  = `\s*(?:"([^"]*)"\s*)?`
	leftTight  = `(?:\s*"([^"]*)"\s*|\s+)`
	rightLoose = `\s*(?:"([^"]*)"\s*)?`
	rightTight = `(?:\s*"([^"]*)"\s*|\s+)`
)

// edge builds the class-diagram pattern for a literal marker.
func edge(marker string) *regexp.Regexp {
	return edgeWith(leftLoose, marker, rightLoose)
}

func edgeWith(left, marker, right string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*(\w+)` + left + marker + right + `(\w+)\s*(?::\s*(.*?))?\s*$`)
}

// Edge markers in match order. The first pattern that matches a line wins,
// which keeps the markers mutually exclusive.
var edgePatterns = []edgePattern{
	{kind: core.RelationImplementation, re: edge(`<\|\.\.`)},
	{kind: core.RelationImplementation, re: edge(`\.\.\|>`), reversed: true},
	{kind: core.RelationInheritance, re: edge(`<\|--`)},
	{kind: core.RelationInheritance, re: edge(`--\|>`), reversed: true},
	{kind: core.RelationAggregation, re: edgeWith(leftTight, `o--`, rightLoose)},
	{kind: core.RelationAggregation, re: edgeWith(leftLoose, `--o`, rightTight), reversed: true},
	{kind: core.RelationComposition, re: edge(`\*--`)},
	{kind: core.RelationComposition, re: edge(`--\*`), reversed: true},
	{kind: core.RelationAssociation, re: edge(`(?:-->|--|\.\.>|\.\.)`)},
}

// erEdgePattern matches crow's-foot relationships:
// PARENT ||--o{ CHILD : "label"
var erEdgePattern = regexp.MustCompile(
	`^\s*([\w-]+)\s+([|}o][|o])(?:--|\.\.)([|o][|{o])\s+([\w-]+)\s*(?::\s*(.*?))?\s*$`)

// erCardinality maps crow's-foot end symbols back to the cardinality vocabulary.
var erCardinality = map[string]string{
	"||": core.ExactlyOne,
	"|o": core.ZeroOrOne,
	"o|": core.ZeroOrOne,
	"}o": core.ZeroOrMany,
	"o{": core.ZeroOrMany,
	"}|": core.OneOrMany,
	"|{": core.OneOrMany,
}

// Entity box patterns.
var (
	// erDiagram / classDiagram headers, %% comments, direction statements
	headerPattern = regexp.MustCompile(`^\s*(?:erDiagram|classDiagram(?:-v2)?|direction\s+\w+|%%.*)\s*$`)
	// [Name|attrs|methods] on a single line
	bracketBoxPattern = regexp.MustCompile(`^\s*\[\s*(\w+)\s*(?:\|(.*))?\]\s*$`)
	// [Name|attrs... without the closing bracket
	bracketOpenPattern = regexp.MustCompile(`^\s*\[\s*(\w+)\s*\|([^\]]*)$`)
	// class Name {   (members may follow on the same line)
	classOpenPattern = regexp.MustCompile(`^\s*class\s+(\w+)(?:~[^~]*~)?\s*(?:<<(\w+)>>)?\s*\{(.*)$`)
	// class Name
	classDeclPattern = regexp.MustCompile(`^\s*class\s+(\w+)(?:~[^~]*~)?\s*(?:<<(\w+)>>)?\s*$`)
	// NAME {
	erOpenPattern = regexp.MustCompile(`^\s*([\w-]+)\s*\{\s*$`)
	// Name : +member
	memberPattern = regexp.MustCompile(`^\s*(\w+)\s*:\s*(.+?)\s*$`)
	// <<interface>> Name
	annotationPattern = regexp.MustCompile(`^\s*<<(\w+)>>\s*(\w+)?\s*$`)
	// "comment" suffix on ER attribute lines
	commentPattern = regexp.MustCompile(`\s*"[^"]*"\s*$`)
)
