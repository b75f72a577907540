// Package diagram renders entity/relationship schemas as Mermaid erDiagram text.
package diagram

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const indentSize = 4

// DefaultAttributeType is the type written in front of every attribute.
const DefaultAttributeType = "string"

// Edge-end symbols, written from the perspective of each side.
const (
	leftExactlyOne  = "||"
	leftZeroOrMany  = "}o"
	leftZeroOrOne   = "|o"
	rightExactlyOne = "||"
	rightZeroOrMany = "o{"
	rightZeroOrOne  = "o|"
)

// Renderer converts schemas to diagram text.
type Renderer struct {
	// Labels supplies relationship labels by entity pair.
	Labels LabelTable
	// DefaultLabel is used when neither the relationship nor the table
	// provides one.
	DefaultLabel string
	// AttributeType is written in front of each attribute.
	AttributeType string
}

// NewRenderer creates a renderer with the given label table.
func NewRenderer(labels LabelTable) *Renderer {
	return &Renderer{
		Labels:        labels,
		DefaultLabel:  DefaultLabel,
		AttributeType: DefaultAttributeType,
	}
}

// Render converts a schema using the default label table.
func Render(s *core.Schema) string {
	return NewRenderer(DefaultLabels()).Render(s)
}

// Render converts s to erDiagram text. Output order follows the schema's
// entity and relationship order.
func (r *Renderer) Render(s *core.Schema) string {
	p := newPrinter()
	upper := cases.Upper(language.Und)

	p.line("erDiagram")
	p.indent()

	if s != nil {
		for i, e := range s.Entities {
			if i > 0 {
				p.blank()
			}
			p.line(identifier(upper.String(e.Name)) + " {")
			p.indent()
			for _, a := range e.Attributes {
				p.line(r.attributeLine(a))
			}
			p.dedent()
			p.line("}")
		}

		if len(s.Entities) > 0 && len(s.Relationships) > 0 {
			p.blank()
		}

		for _, rel := range s.Relationships {
			p.line(r.relationshipLine(upper, rel))
		}
	}

	return p.String()
}

func (r *Renderer) attributeLine(a core.Attribute) string {
	typ := r.AttributeType
	if typ == "" {
		typ = DefaultAttributeType
	}
	line := typ + " " + identifier(a.Name)
	if a.Key.IsKey() {
		line += " PK"
	}
	return line
}

func (r *Renderer) relationshipLine(upper cases.Caser, rel core.Relationship) string {
	var sb strings.Builder
	sb.WriteString(identifier(upper.String(rel.Source)))
	sb.WriteString(" ")
	sb.WriteString(LeftSymbol(rel.Cardinality.Parent))
	sb.WriteString("--")
	sb.WriteString(RightSymbol(rel.Cardinality.Child))
	sb.WriteString(" ")
	sb.WriteString(identifier(upper.String(rel.Target)))
	sb.WriteString(` : "`)
	sb.WriteString(r.label(rel))
	sb.WriteString(`"`)
	return sb.String()
}

func (r *Renderer) label(rel core.Relationship) string {
	if rel.Label != "" {
		return rel.Label
	}
	if label, ok := r.Labels.Lookup(rel.Source, rel.Target); ok {
		return label
	}
	if r.DefaultLabel != "" {
		return r.DefaultLabel
	}
	return DefaultLabel
}

// LeftSymbol returns the parent-side edge symbol for a cardinality.
func LeftSymbol(card string) string {
	switch card {
	case core.ExactlyOne:
		return leftExactlyOne
	case core.ZeroOrMany:
		return leftZeroOrMany
	default:
		return leftZeroOrOne
	}
}

// RightSymbol returns the child-side edge symbol for a cardinality.
func RightSymbol(card string) string {
	switch card {
	case core.ExactlyOne:
		return rightExactlyOne
	case core.ZeroOrMany:
		return rightZeroOrMany
	default:
		return rightZeroOrOne
	}
}

// identifier makes a name safe for diagram syntax by joining words with
// underscores.
func identifier(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

// printer accumulates indented lines.
type printer struct {
	output *bytes.Buffer
	depth  int
}

func newPrinter() *printer {
	return &printer{output: &bytes.Buffer{}}
}

func (p *printer) line(s string) {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.output.WriteString(s)
	p.output.WriteByte('\n')
}

func (p *printer) blank() {
	p.output.WriteByte('\n')
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// String returns the rendered text with a single trailing newline.
func (p *printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}
