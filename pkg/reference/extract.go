// Package reference pulls the reference schema and marking criteria out of
// question documents.
//
// Documents are HTML-ish markup. The reference diagram sits in a
// <uml-answer> (or <uml_answer>, <uml-reference>) element and the rubric in
// the attributes of a <uml-marking> element:
//
//	<uml-marking entity-name="0.3" relationship="1" max-grade="20"></uml-marking>
//
// The document is first queried as an HTML tree; when that finds nothing a
// plain text search over the raw markup is used instead.
package reference

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/erdmark/pkg/core"
	"golang.org/x/net/html"
)

// ErrNoReference is returned by Reference.Err when the document carries no
// reference schema.
var ErrNoReference = errors.New("reference solution not found")

// Element names, in lookup order.
var (
	answerTags  = []string{"uml-answer", "uml_answer", "uml-reference"}
	markingTags = []string{"uml-marking", "uml_marking"}
)

var (
	// <tag ...>body</tag> per answer element
	bodyPatterns = tagPatterns(answerTags, `(?is)<%s(?:\s[^>]*)?>(.*?)</%[1]s\s*>`)
	// <tag attrs> per marking element
	openPatterns = tagPatterns(markingTags, `(?is)<%s\b([^>]*)>`)

	attrPattern     = regexp.MustCompile(`([\w-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+))`)
	maxGradePattern = regexp.MustCompile(`(?is)<[\w-]+\s[^>]*?\bmax-grade\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>/]+))`)
)

// Reference is what the extractor found in a document.
type Reference struct {
	// Schema is the raw reference diagram text, empty when not found.
	Schema string
	// Found reports whether a reference element was present.
	Found bool
	// Criteria is the base rubric overlaid with the marking attributes.
	Criteria core.MarkingCriteria
	// Structured reports whether the HTML query located the elements, as
	// opposed to the text search fallback.
	Structured bool
}

// Err returns ErrNoReference when no reference schema was found.
func (r *Reference) Err() error {
	if r.Found {
		return nil
	}
	return ErrNoReference
}

// Extractor reads references from documents.
type Extractor struct {
	logger *slog.Logger
	base   *core.MarkingCriteria
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{logger: logger}
}

// WithCriteria sets the rubric that marking attributes are layered over.
// Without it the built-in defaults are used.
func (x *Extractor) WithCriteria(base core.MarkingCriteria) *Extractor {
	c := base.Clone()
	x.base = &c
	return x
}

// Extract reads a document with a discarding logger.
func Extract(doc string) *Reference {
	return NewExtractor(nil).Extract(doc)
}

// Extract locates the reference schema and marking criteria in doc. It
// never fails: a missing reference leaves Found false and a missing or
// malformed marking element leaves the default criteria in place.
func (x *Extractor) Extract(doc string) *Reference {
	ref := &Reference{Criteria: core.DefaultMarkingCriteria()}
	if x.base != nil {
		ref.Criteria = x.base.Clone()
	}

	attrs, ok := x.queryTree(doc, ref)
	if !ok {
		attrs = x.searchText(doc, ref)
	}

	if len(attrs) > 0 {
		ref.Criteria = x.overlay(ref.Criteria, attrs)
	}

	if !ref.Found {
		x.logger.Debug("no reference schema in document")
	}
	return ref
}

// queryTree runs the structured lookup. It reports false when neither a
// reference nor a marking element could be found in the parsed tree.
func (x *Extractor) queryTree(doc string, ref *Reference) (map[string]any, bool) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		x.logger.Debug("document is not parseable markup", slog.String("error", err.Error()))
		return nil, false
	}

	answer, answerTag := findFirst(root, answerTags)
	marking, _ := findFirst(root, markingTags)
	if answer == nil && marking == nil {
		return nil, false
	}
	ref.Structured = true

	if answer != nil {
		// The tree tokenizes diagram syntax such as <<interface>> as markup,
		// so the body is taken from the raw text of the located element.
		body, ok := rawBody(doc, answerTag)
		if !ok {
			body = getTextContent(answer)
		}
		ref.Schema = strings.TrimSpace(body)
		ref.Found = ref.Schema != ""
	}

	attrs := make(map[string]any)
	if n := findAttr(root, core.CriterionMaxGrade); n != nil {
		attrs[core.CriterionMaxGrade] = attrValue(getAttr(n, core.CriterionMaxGrade))
	}
	if marking != nil {
		for _, a := range marking.Attr {
			attrs[strings.ToLower(a.Key)] = attrValue(a.Val)
		}
	}
	return attrs, true
}

// searchText is the fallback text search.
func (x *Extractor) searchText(doc string, ref *Reference) map[string]any {
	for _, tag := range answerTags {
		if body, ok := rawBody(doc, tag); ok {
			ref.Schema = strings.TrimSpace(body)
			ref.Found = ref.Schema != ""
			break
		}
	}

	attrs := make(map[string]any)
	if m := maxGradePattern.FindStringSubmatch(doc); m != nil {
		attrs[core.CriterionMaxGrade] = attrValue(firstNonEmpty(m[1:]...))
	}
	for _, tag := range markingTags {
		m := openPatterns[tag].FindStringSubmatch(doc)
		if m == nil {
			continue
		}
		for _, kv := range attrPattern.FindAllStringSubmatch(m[1], -1) {
			attrs[strings.ToLower(kv[1])] = attrValue(firstNonEmpty(kv[2:]...))
		}
		break
	}
	if len(attrs) > 0 || ref.Found {
		x.logger.Debug("reference located by text search", slog.Bool("found", ref.Found))
	}
	return attrs
}

// overlay applies marking attributes one at a time, so an unusable value is
// dropped without losing its siblings.
func (x *Extractor) overlay(base core.MarkingCriteria, attrs map[string]any) core.MarkingCriteria {
	out := base
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		next, err := DecodeCriteria(out, map[string]any{name: attrs[name]})
		if err != nil {
			x.logger.Warn("ignoring malformed marking attribute",
				slog.String("name", name),
				slog.String("error", err.Error()))
			continue
		}
		out = next
	}
	return out
}

// DecodeCriteria overlays attribute values onto base. Numeric values set
// weights; anything else lands in Options.
func DecodeCriteria(base core.MarkingCriteria, attrs map[string]any) (core.MarkingCriteria, error) {
	out := base.Clone()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return base, fmt.Errorf("failed to create criteria decoder: %w", err)
	}
	if err := decoder.Decode(attrs); err != nil {
		return base, fmt.Errorf("failed to decode marking criteria: %w", err)
	}
	return out, nil
}

// attrValue converts an attribute string to float64 when it is numeric.
func attrValue(s string) any {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// rawBody returns the text between <tag ...> and </tag>.
func rawBody(doc, tag string) (string, bool) {
	re, ok := bodyPatterns[tag]
	if !ok {
		return "", false
	}
	m := re.FindStringSubmatch(doc)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// tagPatterns compiles format once per tag name.
func tagPatterns(tags []string, format string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(tags))
	for _, tag := range tags {
		out[tag] = regexp.MustCompile(fmt.Sprintf(format, regexp.QuoteMeta(tag)))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
