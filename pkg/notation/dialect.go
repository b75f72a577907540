// Package notation extracts entities, attributes and relationships from the
// annotated notations used in diagram questions.
//
// Three dialects are understood:
//
//   - prose: entities declared with [label](Entity) markers scattered through
//     sentences, relationships inferred from fixed sentence templates such as
//     "Each [region](Region) includes a number of [state](State)".
//   - block: one entity per line as [Name|attr1;attr2] and one relationship
//     per line as [Parent] 1..1 - 0..* [Child].
//   - yaml: a document with entities and relationships sequences.
//
// Parsing is best effort. Malformed lines are skipped and never fail the
// whole block; only a structurally broken YAML document reports an error,
// and even then the returned schema is empty rather than nil.
package notation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// Dialect selects the notation grammar.
type Dialect string

// Supported dialects.
const (
	DialectAuto  Dialect = "auto"
	DialectProse Dialect = "prose"
	DialectBlock Dialect = "block"
	DialectYAML  Dialect = "yaml"
)

// Dialects lists the accepted dialect names.
func Dialects() []Dialect {
	return []Dialect{DialectAuto, DialectProse, DialectBlock, DialectYAML}
}

// ParseDialect converts a name to a Dialect. The empty string means auto.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DialectAuto, nil
	case "prose", "inline":
		return DialectProse, nil
	case "block", "bracket":
		return DialectBlock, nil
	case "yaml", "yml":
		return DialectYAML, nil
	default:
		return DialectAuto, fmt.Errorf("unknown dialect %q, must be one of: auto, prose, block, yaml", s)
	}
}

var (
	// entities: at the start of a line
	yamlRootPattern = regexp.MustCompile(`(?m)^\s*entities\s*:`)
	// [Name|
	blockMarkerPattern = regexp.MustCompile(`\[\s*\w+\s*\|`)
)

// Detect guesses the dialect of text.
func Detect(text string) Dialect {
	switch {
	case yamlRootPattern.MatchString(text):
		return DialectYAML
	case blockMarkerPattern.MatchString(text):
		return DialectBlock
	default:
		return DialectProse
	}
}

// Parser extracts schemas from notation text.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger discards output.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{logger: logger}
}

// Parse extracts entities and relationships from text using the given
// dialect. The returned schema is never nil.
func (p *Parser) Parse(text string, d Dialect) (*core.Schema, error) {
	if d == DialectAuto || d == "" {
		d = Detect(text)
		p.logger.Debug("detected notation dialect", slog.String("dialect", string(d)))
	}

	switch d {
	case DialectProse:
		return p.parseProse(text), nil
	case DialectBlock:
		return p.parseBlock(text), nil
	case DialectYAML:
		return p.parseYAML(text)
	default:
		return core.NewSchema(), fmt.Errorf("unsupported dialect %q", d)
	}
}

// Parse is a convenience wrapper around a parser without logging.
func Parse(text string, d Dialect) (*core.Schema, error) {
	return NewParser(nil).Parse(text, d)
}
