package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/leapstack-labs/erdmark/pkg/grade"
	"github.com/leapstack-labs/erdmark/pkg/reference"
	"github.com/leapstack-labs/erdmark/pkg/schema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type gradeOptions struct {
	question  string
	reference string
}

// gradeTarget is the resolved reference of a grading run.
type gradeTarget struct {
	source   string
	found    bool
	schema   *core.Schema
	criteria core.MarkingCriteria
}

// NewGradeCommand creates the grade command.
func NewGradeCommand() *cobra.Command {
	opts := &gradeOptions{}

	cmd := &cobra.Command{
		Use:   "grade <submission-file>...",
		Short: "Grade diagram submissions against a reference",
		Long: `Grade one or more submitted diagrams against a reference solution.

The reference comes either from a question document (--question), which also
supplies the marking criteria in its <uml-marking> element, or from a plain
diagram file (--reference) graded with the configured criteria.

Submissions are graded concurrently (see --jobs). A question without a
reference solution gives every submission the neutral score of 50.`,
		Example: `  # Grade one submission
  erdmark grade alice.mmd --question questions/congress.html

  # Grade a whole directory with 8 workers
  erdmark grade submissions/*.mmd -q questions/congress.html --jobs 8

  # Grade against a diagram file, as JSON
  erdmark grade alice.mmd --reference solution.mmd -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.question, "question", "q", "", "Question document with the reference solution")
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference diagram file")
	cmd.MarkFlagsMutuallyExclusive("question", "reference")
	cmd.MarkFlagsOneRequired("question", "reference")

	return cmd
}

func runGrade(cmd *cobra.Command, files []string, opts *gradeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	target, err := resolveTarget(cmd, cmdCtx, opts)
	if err != nil {
		return err
	}
	if !target.found {
		r.Warning(fmt.Sprintf("%s: %s, using the neutral score", target.source, grade.NoReferenceMessage))
	}

	runID := uuid.NewString()
	logger.Info("grading submissions",
		slog.String("run_id", runID),
		slog.Int("count", len(files)),
		slog.Int("jobs", cmdCtx.Cfg.Jobs))

	results, err := gradeAll(cmd.Context(), cmd.InOrStdin(), cmdCtx, target, files)
	if err != nil {
		return err
	}

	run := output.GradeRun{
		RunID:       runID,
		Question:    target.source,
		HasRef:      target.found,
		Submissions: results,
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(run); err != nil {
			return err
		}
	case output.ModeMarkdown:
		gradeMarkdown(r, run)
	default:
		gradeText(r, run)
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions could not be graded", failed, len(results))
	}
	return nil
}

// resolveTarget loads the reference schema and criteria.
func resolveTarget(cmd *cobra.Command, cmdCtx *CommandContext, opts *gradeOptions) (*gradeTarget, error) {
	base, err := cmdCtx.Cfg.Criteria()
	if err != nil {
		return nil, fmt.Errorf("invalid marking configuration: %w", err)
	}
	normalizer := schema.NewNormalizer(cmdCtx.Logger)

	if opts.reference != "" {
		text, err := readInput(cmd.InOrStdin(), opts.reference)
		if err != nil {
			return nil, err
		}
		return &gradeTarget{
			source:   opts.reference,
			found:    true,
			schema:   normalizer.Normalize(text),
			criteria: base,
		}, nil
	}

	doc, err := readInput(cmd.InOrStdin(), opts.question)
	if err != nil {
		return nil, err
	}
	ref := reference.NewExtractor(cmdCtx.Logger).WithCriteria(base).Extract(doc)
	target := &gradeTarget{
		source:   opts.question,
		found:    ref.Found,
		criteria: ref.Criteria,
	}
	if ref.Found {
		target.schema = normalizer.Normalize(ref.Schema)
	}
	return target, nil
}

// gradeAll grades files concurrently, bounded by the configured job count.
// Per-file failures are recorded on the result; only cancellation aborts.
func gradeAll(ctx context.Context, stdin io.Reader, cmdCtx *CommandContext, target *gradeTarget, files []string) ([]output.GradeOutput, error) {
	results := make([]output.GradeOutput, len(files))
	grader := grade.NewGrader(cmdCtx.Logger)
	normalizer := schema.NewNormalizer(cmdCtx.Logger)
	lines := cmdCtx.Cfg.FeedbackLines

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cmdCtx.Cfg.Jobs))

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = output.GradeOutput{File: file}

			var result *core.GradingResult
			if !target.found {
				result = grade.NoReferenceResult()
			} else {
				text, err := readInput(stdin, file)
				if err != nil {
					cmdCtx.Logger.Warn("skipping submission", slog.String("file", file), slog.String("error", err.Error()))
					results[i].Error = err.Error()
					return nil
				}
				result = grader.Grade(normalizer.Normalize(text), target.schema, target.criteria)
				result.Feedback = grade.ReportWithLimit(result, lines)
			}
			results[i].Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("grading cancelled: %w", err)
		}
		return nil, err
	}
	return results, nil
}

func gradeText(r *output.Renderer, run output.GradeRun) {
	styles := r.Styles()

	if len(run.Submissions) == 1 {
		res := run.Submissions[0]
		if res.Error != "" {
			r.Error(res.Error)
			return
		}
		r.Println(styles.ScoreStyle(res.Result.Percentage).Render(
			fmt.Sprintf("%s: %d/100 (%.1f points)", filepath.Base(res.File), res.Result.Score, res.Result.Points)))
		r.Println("")
		r.Println(res.Result.Feedback)
		return
	}

	r.Header(1, fmt.Sprintf("Graded %d submissions against %s", len(run.Submissions), run.Question))
	renderGradeTable(r.Writer(), run.Submissions, false)
	r.Muted("run " + run.RunID)
}

func gradeMarkdown(r *output.Renderer, run output.GradeRun) {
	if len(run.Submissions) > 1 {
		r.Println(output.FormatHeader(1, "Grading Summary"))
		r.Println("")
		r.Println(output.FormatKeyValue("Run", run.RunID))
		r.Println(output.FormatKeyValue("Question", run.Question))
		r.Println("")
		renderGradeTable(r.Writer(), run.Submissions, true)
		r.Println("")
	}

	for _, res := range run.Submissions {
		r.Println(output.FormatHeader(2, res.File))
		r.Println("")
		if res.Error != "" {
			r.Println(output.FormatKeyValue("Error", res.Error))
		} else {
			r.Println(res.Result.Feedback)
		}
	}
}

func renderGradeTable(w io.Writer, results []output.GradeOutput, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Submission", "Score", "Points", "Entities", "Relationships", "Methods"})

	for _, res := range results {
		if res.Error != "" {
			t.AppendRow(table.Row{res.File, "error", "-", "-", "-", "-"})
			continue
		}
		g := res.Result
		t.AppendRow(table.Row{
			res.File,
			g.Score,
			fmt.Sprintf("%.1f", g.Points),
			dimensionCell(g.Entities),
			dimensionCell(g.Relationships),
			dimensionCell(g.Methods),
		})
	}

	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

func dimensionCell(d core.DimensionResult) string {
	if d.MaxScore == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", d.Percentage())
}
