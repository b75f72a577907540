// Package translate turns a question document into an entity/relationship
// diagram.
package translate

import (
	"log/slog"

	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/leapstack-labs/erdmark/pkg/diagram"
	"github.com/leapstack-labs/erdmark/pkg/notation"
)

// Options control a translation.
type Options struct {
	// Dialect overrides the dialect implied by the document's tags.
	// DialectAuto (the zero value) keeps the implied dialect.
	Dialect notation.Dialect
	// Labels is the relationship label table. Nil uses diagram.DefaultLabels.
	Labels diagram.LabelTable
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Result is a translated question.
type Result struct {
	Question *notation.Question
	Dialect  notation.Dialect
	Schema   *core.Schema
	Diagram  string
	// ParseErr holds a structured-notation failure. The schema and diagram
	// are empty in that case.
	ParseErr error
}

// Translate extracts the question and answer blocks of doc, parses the
// notation and renders the diagram.
//
// A document without the required blocks returns an error wrapping
// notation.ErrInvalidFormat. Notation that fails to parse does not fail the
// translation: the result carries an empty diagram and the parse error.
func Translate(doc string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	q, err := notation.ExtractQuestion(doc)
	if err != nil {
		return nil, err
	}

	dialect := q.Dialect
	if opts.Dialect != "" && opts.Dialect != notation.DialectAuto {
		dialect = opts.Dialect
	}

	schema, parseErr := notation.NewParser(logger).Parse(q.Notation(), dialect)
	if parseErr != nil {
		logger.Warn("notation could not be parsed, rendering an empty diagram",
			slog.String("dialect", string(dialect)),
			slog.String("error", parseErr.Error()))
	}

	labels := opts.Labels
	if labels == nil {
		labels = diagram.DefaultLabels()
	}

	logger.Debug("translated question",
		slog.String("family", string(q.Family)),
		slog.Int("entities", schema.Len()),
		slog.Int("relationships", len(schema.Relationships)))

	return &Result{
		Question: q,
		Dialect:  dialect,
		Schema:   schema,
		Diagram:  diagram.NewRenderer(labels).Render(schema),
		ParseErr: parseErr,
	}, nil
}
