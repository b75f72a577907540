package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/leapstack-labs/erdmark/pkg/schema"
	"github.com/spf13/cobra"
)

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <diagram-file>",
		Short: "Show the entities and relationships recognized in a diagram",
		Long: `Read diagram text (Mermaid erDiagram or classDiagram, or bracket boxes)
and print the structured schema the grader will see.

Useful for checking why a submission scored the way it did.`,
		Example: `  # Normalize a submission
  erdmark normalize submissions/alice.mmd

  # As JSON
  erdmark normalize submissions/alice.mmd --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args[0])
		},
	}

	return cmd
}

func runNormalize(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	text, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	s := schema.NewNormalizer(cmdCtx.Logger).Normalize(text)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.NormalizeOutput{File: path, Schema: s})
	case output.ModeMarkdown:
		normalizeMarkdown(r, s)
	default:
		normalizeText(r, s)
	}
	return nil
}

func normalizeText(r *output.Renderer, s *core.Schema) {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Entities (%d)", s.Len()))
	for _, e := range s.Entities {
		name := e.Name
		if e.Interface {
			name += " <<interface>>"
		}
		r.Printf("  %s\n", styles.Entity.Render(name))
		for _, a := range e.Attributes {
			r.Printf("    %s %s\n", a.Name, styles.Muted.Render(a.Key.String()))
		}
		for _, m := range e.Methods {
			r.Printf("    %s%s(%s)\n", m.Visibility, m.Name, strings.Join(m.Parameters, ", "))
		}
	}
	r.Println("")

	r.Header(2, fmt.Sprintf("Relationships (%d)", len(s.Relationships)))
	for _, rel := range s.Relationships {
		r.Printf("  %s\n", rel.String())
	}
}

func normalizeMarkdown(r *output.Renderer, s *core.Schema) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Entities (%d)", s.Len())))
	r.Println("")
	for _, e := range s.Entities {
		r.Printf("- **%s**", e.Name)
		if e.Interface {
			r.Printf(" (interface)")
		}
		r.Println("")
		for _, a := range e.Attributes {
			r.Printf("  - %s\n", a.Notation())
		}
		for _, m := range e.Methods {
			r.Printf("  - %s(%s)\n", m.Name, strings.Join(m.Parameters, ", "))
		}
	}
	r.Println("")
	r.Println(output.FormatHeader(2, fmt.Sprintf("Relationships (%d)", len(s.Relationships))))
	r.Println("")
	for _, rel := range s.Relationships {
		r.Printf("- %s\n", rel.String())
	}
}
