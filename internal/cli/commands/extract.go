package commands

import (
	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/pkg/reference"
	"github.com/spf13/cobra"
)

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <question-file>",
		Short: "Show the reference solution and rubric of a question",
		Long: `Read a question document and print its reference diagram
(<uml-answer>) and the marking criteria from its <uml-marking> element,
merged over the default rubric.`,
		Example: `  # Show the reference of a question
  erdmark extract questions/congress.html

  # As JSON
  erdmark extract questions/congress.html -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0])
		},
	}

	return cmd
}

func runExtract(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	doc, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	ref := reference.NewExtractor(cmdCtx.Logger).Extract(doc)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.ExtractOutput{
			File:       path,
			Found:      ref.Found,
			Structured: ref.Structured,
			Reference:  ref.Schema,
			Criteria:   ref.Criteria,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Reference"))
		r.Println("")
		if ref.Found {
			r.Println(output.FormatCodeBlock("mermaid", ref.Schema))
		} else {
			r.Println(reference.ErrNoReference.Error())
		}
		r.Println("")
		r.Println(output.FormatHeader(2, "Marking Criteria"))
		r.Println("")
		renderCriteriaTable(r.Writer(), criteriaRows(ref.Criteria), true)
	default:
		r.Header(1, "Reference")
		if ref.Found {
			r.Println(ref.Schema)
		} else {
			r.Warning(reference.ErrNoReference.Error())
		}
		r.Println("")
		r.Header(2, "Marking Criteria")
		renderCriteriaTable(r.Writer(), criteriaRows(ref.Criteria), false)
	}
	return nil
}
