package notation

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
	"gopkg.in/yaml.v3"
)

// yamlEntity is one item of the entities sequence.
type yamlEntity struct {
	Name       string   `yaml:"name"`
	Attributes []string `yaml:"attributes"`
}

// yamlRelationship is one item of the relationships sequence.
type yamlRelationship struct {
	Parent            string `yaml:"parent"`
	ParentCardinality string `yaml:"parent_cardinality"`
	ChildCardinality  string `yaml:"child_cardinality"`
	Child             string `yaml:"child"`
	Type              string `yaml:"type"`
	Label             string `yaml:"label"`
}

// parseYAML handles the structured dialect. Any decoding failure yields an
// empty schema and a *ParseError; a partially decoded model is never returned.
func (p *Parser) parseYAML(text string) (*core.Schema, error) {
	schema, err := p.decodeYAML(text)
	if err != nil {
		p.logger.Error("failed to parse structured notation", slog.String("error", err.Error()))
		return core.NewSchema(), err
	}
	return schema, nil
}

func (p *Parser) decodeYAML(text string) (*core.Schema, error) {
	schema := core.NewSchema()

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, &ParseError{Dialect: DialectYAML, Message: "invalid YAML", Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// Empty document: nothing declared.
		return schema, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return schema, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, &ParseError{Dialect: DialectYAML, Line: doc.Line, Message: "expected a mapping at the document root"}
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "entities":
			if err := p.decodeEntities(value, schema); err != nil {
				return nil, err
			}
		case "relationships":
			if err := p.decodeRelationships(value, schema); err != nil {
				return nil, err
			}
		default:
			p.logger.Debug("ignoring unknown structured key",
				slog.String("key", key.Value),
				slog.Int("line", key.Line))
		}
	}

	return schema, nil
}

// decodeEntities accepts either a sequence of {name, attributes} items or a
// mapping from entity name to attribute list.
func (p *Parser) decodeEntities(node *yaml.Node, schema *core.Schema) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []yamlEntity
		if err := node.Decode(&items); err != nil {
			return &ParseError{Dialect: DialectYAML, Line: node.Line, Message: "invalid entities", Err: err}
		}
		for _, item := range items {
			addYAMLEntity(schema, item.Name, item.Attributes)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			var attrs []string
			if err := node.Content[i+1].Decode(&attrs); err != nil {
				return &ParseError{Dialect: DialectYAML, Line: node.Content[i+1].Line, Message: "invalid attributes", Err: err}
			}
			addYAMLEntity(schema, node.Content[i].Value, attrs)
		}
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return &ParseError{Dialect: DialectYAML, Line: node.Line, Message: "entities must be a sequence or mapping"}
		}
	default:
		return &ParseError{Dialect: DialectYAML, Line: node.Line, Message: "entities must be a sequence or mapping"}
	}
	return nil
}

func addYAMLEntity(schema *core.Schema, name string, attrs []string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	e := schema.Ensure(name)
	for _, raw := range attrs {
		e.AddAttribute(core.ParseAttribute(raw))
	}
}

func (p *Parser) decodeRelationships(node *yaml.Node, schema *core.Schema) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return &ParseError{Dialect: DialectYAML, Line: node.Line, Message: "relationships must be a sequence"}
	}

	var items []yamlRelationship
	if err := node.Decode(&items); err != nil {
		return &ParseError{Dialect: DialectYAML, Line: node.Line, Message: "invalid relationships", Err: err}
	}

	for i, item := range items {
		parent, child := strings.TrimSpace(item.Parent), strings.TrimSpace(item.Child)
		if parent == "" || child == "" {
			p.logger.Debug("skipping relationship without endpoints", slog.Int("index", i))
			continue
		}
		kind := core.RelationAssociation
		if item.Type != "" {
			var ok bool
			if kind, ok = core.ParseRelationKind(item.Type); !ok {
				p.logger.Debug("unknown relationship type, using association", slog.String("type", item.Type))
			}
		}
		schema.AddRelationship(core.Relationship{
			Kind:   kind,
			Source: parent,
			Target: child,
			Cardinality: core.Cardinality{
				Parent: strings.TrimSpace(item.ParentCardinality),
				Child:  strings.TrimSpace(item.ChildCardinality),
			},
			Label: strings.TrimSpace(item.Label),
		})
	}
	return nil
}
