package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/erdmark/internal/cli/config"
	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	cfgFile = ""

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"version", "translate", "normalize", "extract", "grade", "criteria", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "dialect", "verbose", "output", "feedback-lines", "jobs"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_GradeJSON(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)
	t.Chdir(dir)

	out, _, err := executeRoot(t, "grade",
		"submissions/perfect.mmd", "submissions/partial.mmd",
		"--question", "question.html", "-o", "json", "--jobs", "2")
	require.NoError(t, err)

	var run output.GradeRun
	require.NoError(t, json.Unmarshal([]byte(out), &run))

	assert.NotEmpty(t, run.RunID)
	assert.True(t, run.HasRef)
	require.Len(t, run.Submissions, 2)
	assert.Equal(t, "submissions/perfect.mmd", run.Submissions[0].File, "results keep argument order")
	assert.Equal(t, 100, run.Submissions[0].Result.Score)
	assert.InDelta(t, 20.0, run.Submissions[0].Result.Points, 1e-9, "max-grade comes from the question")
	assert.Less(t, run.Submissions[1].Result.Score, 100)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "erdmark.yaml"), []byte(`output: json
marking:
  method: 4
`), 0600))
	t.Chdir(dir)

	out, _, err := executeRoot(t, "criteria")
	require.NoError(t, err)

	var rows []output.CriterionRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	for _, row := range rows {
		if row.Name == "method" {
			assert.InDelta(t, 4.0, row.Weight, 1e-9)
			assert.InDelta(t, 1.0, row.Default, 1e-9)
			return
		}
	}
	t.Fatal("method row missing")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := executeRoot(t, "criteria", "--jobs", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootCmd_TranslateTextOutput(t *testing.T) {
	dir := testutil.SetupTestWorkspace(t)
	t.Chdir(dir)

	out, _, err := executeRoot(t, "translate", "prose.html", "-o", "text")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	assert.True(t, strings.HasPrefix(out, "erDiagram\n"), out)
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := executeRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "erdmark")

	_, _, err = executeRoot(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestGetConfig_Fallback(t *testing.T) {
	cfg := GetConfig(t.Context())
	assert.Equal(t, config.DefaultJobs, cfg.Jobs)
	assert.NotNil(t, GetRenderer(t.Context()))
}
