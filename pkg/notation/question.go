package notation

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// TagFamily identifies which pair of question/answer tags a document uses.
type TagFamily string

// Tag families.
const (
	FamilyUML  TagFamily = "uml"
	FamilyYAML TagFamily = "yaml"
)

// blockPattern matches <prefix-name>...</prefix-name>, accepting "-" or "_".
func blockPattern(prefix, name string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?is)<%[1]s[-_]%[2]s(?:\s[^>]*)?>(.*?)</%[1]s[-_]%[2]s\s*>`, prefix, name))
}

var (
	umlQuestionPattern  = blockPattern("uml", "question")
	umlAnswerPattern    = blockPattern("uml", "answer")
	yamlQuestionPattern = blockPattern("yaml", "question")
	yamlAnswerPattern   = blockPattern("yaml", "answer")
)

// Question is the content of a question document.
type Question struct {
	Family TagFamily
	// Text is the raw question block.
	Text string
	// Markdown is the question with annotation markers emphasized,
	// converted for display.
	Markdown string
	// Answer is the raw answer block, empty when the document only has
	// a prose question.
	Answer string
	// Dialect is the notation to parse Notation() with.
	Dialect Dialect
}

// Notation returns the text that carries the diagram notation: the answer
// block when present, else the question itself.
func (q *Question) Notation() string {
	if q.Answer != "" {
		return q.Answer
	}
	return q.Text
}

// ExtractQuestion locates the question and answer blocks in doc.
//
// A uml document needs a <uml-question> block; its <uml-answer> block is
// optional, and without it the question prose is parsed. A yaml document
// needs both <yaml-question> and <yaml-answer>. Anything else returns
// ErrInvalidFormat.
func ExtractQuestion(doc string) (*Question, error) {
	if m := umlQuestionPattern.FindStringSubmatch(doc); m != nil {
		q := &Question{
			Family:  FamilyUML,
			Text:    strings.TrimSpace(m[1]),
			Dialect: DialectProse,
		}
		if a := umlAnswerPattern.FindStringSubmatch(doc); a != nil {
			q.Answer = strings.TrimSpace(a[1])
			q.Dialect = DialectAuto
		}
		q.Markdown = QuestionMarkdown(q.Text)
		return q, nil
	}

	if m := yamlQuestionPattern.FindStringSubmatch(doc); m != nil {
		a := yamlAnswerPattern.FindStringSubmatch(doc)
		if a == nil {
			return nil, fmt.Errorf("%w: no <yaml-answer> block", ErrInvalidFormat)
		}
		q := &Question{
			Family:  FamilyYAML,
			Text:    strings.TrimSpace(m[1]),
			Answer:  dedent(a[1]),
			Dialect: DialectYAML,
		}
		q.Markdown = QuestionMarkdown(q.Text)
		return q, nil
	}

	return nil, fmt.Errorf("%w: no question block", ErrInvalidFormat)
}

// QuestionMarkdown cleans annotation markers out of question text and
// converts any embedded HTML to Markdown. When conversion fails the
// cleaned text is returned as is.
func QuestionMarkdown(text string) string {
	cleaned := CleanQuestion(text)
	md, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return strings.TrimSpace(cleaned)
	}
	return strings.TrimSpace(md)
}

// dedent removes the common leading indentation of a block so that
// indented YAML inside markup stays well formed.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	if prefix <= 0 {
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}
	for i, line := range lines {
		if len(line) >= prefix {
			lines[i] = line[prefix:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}
