// Package schema normalizes diagram text back into a structured schema.
//
// The normalizer reads the diagram notations students submit: Mermaid
// erDiagram and classDiagram text and nomnoml-style bracket boxes. It is a
// line scanner with two states. NONE waits for a box to start. OPEN collects
// member lines until the box closes, then flushes the entity into the
// schema. Relationship lines are recognized in either state.
package schema

import (
	"bufio"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// State is the scanner state.
type State int

// Scanner states.
const (
	// StateNone is outside any entity box.
	StateNone State = iota
	// StateOpen is inside an entity box, accumulating members.
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "OPEN"
	}
	return "NONE"
}

// Normalizer converts diagram text to a schema.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger discards output.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{logger: logger}
}

// Normalize converts diagram text to a schema with a discarding logger.
func Normalize(text string) *core.Schema {
	return NewNormalizer(nil).Normalize(text)
}

// Normalize scans text line by line. Malformed lines are skipped; the
// result holds whatever could be recognized.
func (n *Normalizer) Normalize(text string) *core.Schema {
	sc := &scanner{
		schema: core.NewSchema(),
		logger: n.logger,
	}

	lines := bufio.NewScanner(strings.NewReader(text))
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for lines.Scan() {
		lineNum++
		sc.line(lineNum, lines.Text())
	}
	if err := lines.Err(); err != nil {
		n.logger.Debug("diagram scan stopped early", slog.String("error", err.Error()))
	}
	sc.eof()

	return sc.schema
}

// scanner holds the state machine for one Normalize call.
type scanner struct {
	state   State
	current *core.Entity
	// closer is the character that ends the open box: ']' or '}'.
	closer byte
	schema *core.Schema
	logger *slog.Logger
}

// line feeds one input line through the state machine.
func (s *scanner) line(num int, raw string) {
	text := strings.TrimSpace(raw)
	if text == "" || headerPattern.MatchString(text) {
		return
	}

	if s.relationship(text) {
		return
	}

	switch s.state {
	case StateNone:
		if !s.start(text) {
			s.logger.Debug("skipping unrecognized diagram line",
				slog.Int("line", num),
				slog.String("text", text))
		}
	case StateOpen:
		s.accumulate(num, text)
	}
}

// start handles box starts and standalone declarations in the NONE state.
// It reports whether the line was recognized.
func (s *scanner) start(text string) bool {
	if m := bracketBoxPattern.FindStringSubmatch(text); m != nil {
		s.open(m[1], ']')
		s.members(m[2], true)
		s.flush()
		return true
	}
	if m := bracketOpenPattern.FindStringSubmatch(text); m != nil {
		s.open(m[1], ']')
		s.members(m[2], true)
		return true
	}
	if m := classOpenPattern.FindStringSubmatch(text); m != nil {
		s.open(m[1], '}')
		if isInterface(m[2]) {
			s.current.Interface = true
		}
		rest := strings.TrimSpace(m[3])
		if i := strings.IndexByte(rest, '}'); i >= 0 {
			s.members(rest[:i], false)
			s.flush()
		} else {
			s.members(rest, false)
		}
		return true
	}
	if m := classDeclPattern.FindStringSubmatch(text); m != nil {
		e := s.schema.Ensure(m[1])
		if isInterface(m[2]) {
			e.Interface = true
		}
		return true
	}
	if m := erOpenPattern.FindStringSubmatch(text); m != nil {
		s.open(m[1], '}')
		return true
	}
	if m := annotationPattern.FindStringSubmatch(text); m != nil && m[2] != "" {
		if isInterface(m[1]) {
			s.schema.Ensure(m[2]).Interface = true
		}
		return true
	}
	if m := memberPattern.FindStringSubmatch(text); m != nil {
		// Mermaid shorthand: Name : +member
		e := &core.Entity{Name: m[1]}
		addMember(e, m[2])
		s.schema.Put(e)
		return true
	}
	return false
}

// accumulate handles a line inside an open box.
func (s *scanner) accumulate(num int, text string) {
	probe := text
	if s.closer == ']' {
		// array types such as Item[] do not close the box
		probe = strings.ReplaceAll(text, "[]", "__")
	}
	if i := strings.IndexByte(probe, s.closer); i >= 0 {
		s.members(text[:i], s.closer == ']')
		s.flush()
		return
	}

	// A new box start means the previous box was never closed.
	if bracketBoxPattern.MatchString(text) || bracketOpenPattern.MatchString(text) ||
		classOpenPattern.MatchString(text) || erOpenPattern.MatchString(text) {
		s.logger.Debug("box not closed before next box",
			slog.Int("line", num),
			slog.String("entity", s.current.Name))
		s.flush()
		s.start(text)
		return
	}

	if m := annotationPattern.FindStringSubmatch(text); m != nil {
		if isInterface(m[1]) {
			s.current.Interface = true
		}
		return
	}

	s.members(text, s.closer == ']')
}

// open transitions NONE -> OPEN.
func (s *scanner) open(name string, closer byte) {
	s.current = &core.Entity{Name: name, Attributes: []core.Attribute{}}
	s.closer = closer
	s.state = StateOpen
}

// flush transitions OPEN -> NONE, storing the entity.
func (s *scanner) flush() {
	if s.current != nil {
		s.schema.Put(s.current)
	}
	s.current = nil
	s.closer = 0
	s.state = StateNone
}

// eof flushes a box left open at end of input.
func (s *scanner) eof() {
	if s.state == StateOpen {
		s.logger.Debug("flushing unclosed box at end of input", slog.String("entity", s.current.Name))
		s.flush()
	}
}

// members adds every member in text to the current entity. Bracket boxes
// separate members with ';' and sections with '|'.
func (s *scanner) members(text string, bracket bool) {
	if s.current == nil {
		return
	}
	if !bracket {
		addMember(s.current, text)
		return
	}
	for _, section := range strings.Split(text, "|") {
		for _, member := range strings.Split(section, ";") {
			addMember(s.current, member)
		}
	}
}

// relationship recognizes an edge line and records it.
func (s *scanner) relationship(text string) bool {
	if m := erEdgePattern.FindStringSubmatch(text); m != nil {
		s.schema.AddRelationship(core.Relationship{
			Kind:   core.RelationAssociation,
			Source: m[1],
			Target: m[4],
			Cardinality: core.Cardinality{
				Parent: erCardinality[m[2]],
				Child:  erCardinality[m[3]],
			},
			Label: unquote(m[5]),
		})
		return true
	}

	for _, p := range edgePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rel := core.Relationship{
			Kind:        p.kind,
			Source:      m[1],
			Target:      m[4],
			Cardinality: core.Cardinality{Parent: strings.TrimSpace(m[2]), Child: strings.TrimSpace(m[3])},
			Label:       unquote(m[5]),
		}
		if p.reversed {
			rel.Source, rel.Target = rel.Target, rel.Source
			rel.Cardinality = rel.Cardinality.Swap()
		}
		s.schema.AddRelationship(rel)
		return true
	}
	return false
}

func isInterface(stereotype string) bool {
	return strings.EqualFold(stereotype, "interface")
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
