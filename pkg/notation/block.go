package notation

import (
	"bufio"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// Block dialect patterns.
var (
	// [Name|attr1;attr2;...]
	blockEntityPattern = regexp.MustCompile(`\[\s*(\w+)\s*\|([^\]]*)\]`)
	// [Parent] 1..1 - 0..* [Child]
	blockRelationshipPattern = regexp.MustCompile(
		`\[\s*(\w+)\s*\]\s*([0-9*]+(?:\.\.[0-9*]+)?)\s*-\s*([0-9*]+(?:\.\.[0-9*]+)?)\s*\[\s*(\w+)\s*\]`)
)

// parseBlock handles the block dialect line by line. Lines matching neither
// pattern are skipped.
func (p *Parser) parseBlock(text string) *core.Schema {
	schema := core.NewSchema()

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		matched := false
		for _, m := range blockEntityPattern.FindAllStringSubmatch(line, -1) {
			matched = true
			e := schema.Ensure(m[1])
			for _, raw := range strings.Split(m[2], ";") {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				e.AddAttribute(core.ParseAttribute(raw))
			}
		}

		for _, m := range blockRelationshipPattern.FindAllStringSubmatch(line, -1) {
			matched = true
			schema.AddRelationship(core.Relationship{
				Kind:        core.RelationAssociation,
				Source:      m[1],
				Target:      m[4],
				Cardinality: core.Cardinality{Parent: m[2], Child: m[3]},
			})
		}

		if !matched {
			p.logger.Debug("skipping unrecognized block line",
				slog.Int("line", lineNo),
				slog.String("text", line))
		}
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("block scan stopped early", slog.String("error", err.Error()))
	}

	return schema
}
