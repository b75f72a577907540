package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/spf13/cobra"
)

// NewCriteriaCommand creates the criteria command.
func NewCriteriaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "Show the effective marking criteria",
		Long: `Show the rubric weights used when a question carries no <uml-marking>
element: the built-in defaults with the "marking" section of erdmark.yaml
applied on top.`,
		Example: `  # Show effective weights
  erdmark criteria

  # As JSON
  erdmark criteria -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCriteria(cmd)
		},
	}

	return cmd
}

func runCriteria(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	criteria, err := cmdCtx.Cfg.Criteria()
	if err != nil {
		return fmt.Errorf("invalid marking configuration: %w", err)
	}
	rows := criteriaRows(criteria)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rows)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Marking Criteria"))
		r.Println("")
		renderCriteriaTable(r.Writer(), rows, true)
	default:
		r.Header(1, "Marking Criteria")
		renderCriteriaTable(r.Writer(), rows, false)
	}
	return nil
}

func criteriaRows(c core.MarkingCriteria) []output.CriterionRow {
	defaults := core.DefaultMarkingCriteria()
	names := core.CriterionNames()
	rows := make([]output.CriterionRow, 0, len(names))
	for _, name := range names {
		w, _ := c.Weight(name)
		d, _ := defaults.Weight(name)
		rows = append(rows, output.CriterionRow{Name: name, Weight: w, Default: d})
	}
	return rows
}

func renderCriteriaTable(w io.Writer, rows []output.CriterionRow, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Criterion", "Weight", "Default"})
	for _, row := range rows {
		marker := ""
		if row.Weight != row.Default {
			marker = " *"
		}
		t.AppendRow(table.Row{row.Name, fmt.Sprintf("%g%s", row.Weight, marker), fmt.Sprintf("%g", row.Default)})
	}
	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
