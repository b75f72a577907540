package notation

import (
	"bufio"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

var (
	// [label](Entity)
	markerPattern = regexp.MustCompile(`\[([^\[\]]+)\]\((\w+)\)`)

	// Each [x](Parent) <verb> <quantifier> [y](Child)
	sentencePattern = regexp.MustCompile(
		`(?i)\beach\s+\[[^\[\]]+\]\((\w+)\)\s+([\w\s-]+?)\s+(a number of|one or more|at least one|exactly one|at most one|zero or one|one)\s+\[[^\[\]]+\]\((\w+)\)`)
)

// quantifierCardinality maps a relationship sentence quantifier to the
// child-side cardinality. The parent side is always 1..1.
var quantifierCardinality = map[string]string{
	"a number of":  core.ZeroOrMany,
	"one or more":  core.OneOrMany,
	"at least one": core.OneOrMany,
	"exactly one":  core.ExactlyOne,
	"one":          core.ExactlyOne,
	"at most one":  core.ZeroOrOne,
	"zero or one":  core.ZeroOrOne,
}

// parseProse handles the inline prose dialect.
//
// Every [label](Entity) marker declares Entity and, unless the label just
// repeats the entity name, adds label as one of its attributes.
func (p *Parser) parseProse(text string) *core.Schema {
	schema := core.NewSchema()

	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		label, entity := strings.TrimSpace(m[1]), m[2]
		e := schema.Ensure(entity)
		if strings.EqualFold(label, entity) {
			continue
		}
		e.AddAttribute(core.ParseAttribute(label))
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		for _, m := range sentencePattern.FindAllStringSubmatch(scanner.Text(), -1) {
			quantifier := strings.ToLower(strings.Join(strings.Fields(m[3]), " "))
			rel := core.Relationship{
				Kind:   core.RelationAssociation,
				Source: m[1],
				Target: m[4],
				Cardinality: core.Cardinality{
					Parent: core.ExactlyOne,
					Child:  quantifierCardinality[quantifier],
				},
				Label: strings.TrimSpace(m[2]),
			}
			schema.AddRelationship(rel)
			p.logger.Debug("prose relationship",
				slog.Int("line", lineNo),
				slog.String("parent", rel.Source),
				slog.String("child", rel.Target))
		}
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("prose scan stopped early", slog.String("error", err.Error()))
	}

	return schema
}

// CleanQuestion replaces every [label](Entity) marker with the emphasized
// entity identifier, producing display text.
func CleanQuestion(text string) string {
	return markerPattern.ReplaceAllString(text, "<strong>$2</strong>")
}
