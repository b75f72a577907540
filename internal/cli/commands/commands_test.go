package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/erdmark/internal/cli/config"
	"github.com/leapstack-labs/erdmark/internal/cli/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes cmd with args against the default configuration.
// Output goes to buffers, so the auto mode resolves to Markdown.
func runCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewTranslateCommand(), use: "translate <question-file>", flags: []string{"watch"}},
		{cmd: NewNormalizeCommand(), use: "normalize <diagram-file>"},
		{cmd: NewExtractCommand(), use: "extract <question-file>"},
		{cmd: NewGradeCommand(), use: "grade <submission-file>...", flags: []string{"question", "reference"}},
		{cmd: NewCriteriaCommand(), use: "criteria"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestTranslateCommand(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)

	out, _, err := runCommand(t, NewTranslateCommand(), "", filepath.Join(dir, "prose.html"))
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# Question")
	assert.Contains(t, out, "**Customer**")
	assert.Contains(t, out, "```mermaid\nerDiagram\n")
	assert.Contains(t, out, "        string customer_id PK\n")
	assert.Contains(t, out, `CUSTOMER ||--o{ ORDER : "places"`)
}

func TestTranslateCommand_Stdin(t *testing.T) {
	doc := "<uml-question>Each [region](Region) includes a number of [state](State).</uml-question>"

	out, _, err := runCommand(t, NewTranslateCommand(), doc, "-")
	require.NoError(t, err)
	assert.Contains(t, out, `REGION ||--o{ STATE : "includes"`)
}

func TestTranslateCommand_Errors(t *testing.T) {
	t.Run("invalid document", func(t *testing.T) {
		_, _, err := runCommand(t, NewTranslateCommand(), "<p>no markup</p>", "-")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid input format")
	})

	t.Run("watch stdin", func(t *testing.T) {
		_, _, err := runCommand(t, NewTranslateCommand(), "", "-", "--watch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--watch needs a file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runCommand(t, NewTranslateCommand(), "", filepath.Join(t.TempDir(), "nope.html"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestNormalizeCommand(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)

	out, _, err := runCommand(t, NewNormalizeCommand(), "", filepath.Join(dir, "submissions", "perfect.mmd"))
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Entities (2)")
	assert.Contains(t, out, "- **CUSTOMER**")
	assert.Contains(t, out, "  - customer_id{PK}")
	assert.Contains(t, out, "## Relationships (1)")
	assert.Contains(t, out, "- CUSTOMER -> ORDER (association, 1..1 - 0..*)")
}

func TestExtractCommand(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)

	out, _, err := runCommand(t, NewExtractCommand(), "", filepath.Join(dir, "question.html"))
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Reference")
	assert.Contains(t, out, "```mermaid\nerDiagram")
	assert.Contains(t, out, "## Marking Criteria")
	assert.Contains(t, out, "entity-name")
	assert.Contains(t, out, "0.3 *", "overridden weight is flagged")
}

func TestExtractCommand_NoReference(t *testing.T) {
	out, _, err := runCommand(t, NewExtractCommand(), "<uml-question>text</uml-question>", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "reference solution not found")
}

func TestCriteriaCommand(t *testing.T) {
	out, _, err := runCommand(t, NewCriteriaCommand(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "# Marking Criteria")
	assert.Contains(t, out, "extra-relationship-penalty")
	assert.NotContains(t, out, " *", "defaults are not flagged")
}

func TestGradeCommand_Batch(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)
	perfect := filepath.Join(dir, "submissions", "perfect.mmd")
	partial := filepath.Join(dir, "submissions", "partial.mmd")

	out, _, err := runCommand(t, NewGradeCommand(), "",
		perfect, partial, "--question", filepath.Join(dir, "question.html"))
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Grading Summary")
	assert.Contains(t, out, "**Run:**")
	assert.Contains(t, out, "## "+perfect)
	assert.Contains(t, out, "## "+partial)
	assert.Contains(t, out, "### Overall Score:")
	assert.Contains(t, out, "(100.0%)")
	assert.Contains(t, out, "Missing required entity: ORDER")
}

func TestGradeCommand_Reference(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)
	perfect := filepath.Join(dir, "submissions", "perfect.mmd")

	out, _, err := runCommand(t, NewGradeCommand(), testutil.PerfectSubmission, "-", "--reference", perfect)
	require.NoError(t, err)
	assert.Contains(t, out, "## -")
	assert.Contains(t, out, "Excellent work!")
}

func TestGradeCommand_NoReference(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)

	out, errOut, err := runCommand(t, NewGradeCommand(), "<uml-question>Draw it.</uml-question>",
		filepath.Join(dir, "submissions", "partial.mmd"), "--question", "-")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Reference solution not found")
	assert.Contains(t, out, "Reference solution not found")
}

func TestGradeCommand_UnreadableSubmission(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)

	out, _, err := runCommand(t, NewGradeCommand(), "",
		filepath.Join(dir, "submissions", "perfect.mmd"),
		filepath.Join(dir, "submissions", "missing.mmd"),
		"-q", filepath.Join(dir, "question.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 submissions could not be graded")
	assert.Contains(t, out, "**Error:**")
}

func TestGradeCommand_RequiresReferenceSource(t *testing.T) {
	_, _, err := runCommand(t, NewGradeCommand(), "", "a.mmd")
	require.Error(t, err)

	_, _, err = runCommand(t, NewGradeCommand(), "", "a.mmd", "-q", "x.html", "-r", "y.mmd")
	require.Error(t, err)
}
