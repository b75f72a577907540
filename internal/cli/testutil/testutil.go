// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// QuestionDoc is a question document with a prose question, a reference
// solution and marking overrides.
const QuestionDoc = `<question max-grade="20">
<uml-question>
Each [Customer](Customer) has a [customer id](Customer) and a [name](Customer).
Each [Order](Order) has an [order number](Order) and a [date](Order).
Each [Customer](Customer) places a number of [Order](Order).
</uml-question>
<uml-answer>
erDiagram
    CUSTOMER {
        string customer_id PK
        string name
    }
    ORDER {
        string order_number PK
        string date
    }
    CUSTOMER ||--o{ ORDER : "places"
</uml-answer>
<uml-marking entity-name="0.3" relationship="1"></uml-marking>
</question>
`

// ProseQuestion is a question without a reference solution; its diagram
// comes from the prose markers.
const ProseQuestion = `<uml-question>
Each [Customer](Customer) has a [customer id{PK}](Customer) and a [name](Customer).
Each [Order](Order) has an [order number{PK}](Order) and a [date](Order).
Each [Customer](Customer) places a number of [Order](Order).
</uml-question>
`

// PerfectSubmission matches the reference of QuestionDoc.
const PerfectSubmission = `erDiagram
    CUSTOMER {
        string customer_id PK
        string name
    }
    ORDER {
        string order_number PK
        string date
    }
    CUSTOMER ||--o{ ORDER : "places"
`

// PartialSubmission has one of the two entities and no relationships.
const PartialSubmission = `erDiagram
    CUSTOMER {
        string customer_id PK
        string name
    }
`

// SetupTestWorkspace writes a question and two submissions into a
// temporary directory and returns its path.
//
// Layout:
//
//	question.html
//	prose.html
//	submissions/perfect.mmd
//	submissions/partial.mmd
func SetupTestWorkspace(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "submissions"), 0750); err != nil {
		t.Fatalf("failed to create submissions directory: %v", err)
	}

	files := map[string]string{
		"question.html":           QuestionDoc,
		"prose.html":              ProseQuestion,
		"submissions/perfect.mmd": PerfectSubmission,
		"submissions/partial.mmd": PartialSubmission,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	return tmpDir
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
