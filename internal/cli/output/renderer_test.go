package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeAuto},
		{input: "auto", want: ModeAuto},
		{input: "text", want: ModeText},
		{input: "md", want: ModeMarkdown},
		{input: "json", want: ModeJSON},
		{input: "html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		tty  bool
		want Mode
	}{
		{name: "auto on terminal", mode: ModeAuto, tty: true, want: ModeText},
		{name: "auto piped", mode: ModeAuto, tty: false, want: ModeMarkdown},
		{name: "empty piped", mode: "", tty: false, want: ModeMarkdown},
		{name: "explicit json on terminal", mode: ModeJSON, tty: true, want: ModeJSON},
		{name: "explicit text piped", mode: ModeText, tty: false, want: ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.tty, r.IsTTY())
		})
	}
}

func TestRenderer_Header(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Relationships")
	assert.Equal(t, "## Relationships\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	r.Header(1, "Entities")
	assert.Equal(t, "Entities\n", out.String(), "no styling without a terminal")
}

func TestRenderer_DiagnosticsGoToErrOut(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)
	r.Warning("careful")
	r.Error("broken")
	r.Success("done")

	assert.Equal(t, "✓ done\n", out.String())
	assert.Equal(t, "! careful\n✗ broken\n", errOut.String())
}

func TestRenderer_StatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	r.StatusLine("alice.mmd", "success", "(92)")
	r.StatusLine("bob.mmd", "skipped", "")
	assert.Equal(t, "✓ alice.mmd (92)\n- bob.mmd\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(CriterionRow{Name: "method", Weight: 1, Default: 1}))
	assert.JSONEq(t, `{"name":"method","weight":1,"default":1}`, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "**Run:** 42", FormatKeyValue("Run", "42"))
	assert.Equal(t, "```mermaid\nerDiagram\n```", FormatCodeBlock("mermaid", "erDiagram\n\n"))
}
