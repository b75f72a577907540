package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/erdmark/internal/cli/output"
	"github.com/leapstack-labs/erdmark/pkg/notation"
	"github.com/leapstack-labs/erdmark/pkg/translate"
	"github.com/spf13/cobra"
)

// watchDebounce collapses bursts of editor writes into one rebuild.
const watchDebounce = 100 * time.Millisecond

type translateOptions struct {
	watch bool
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate <question-file>",
		Short: "Render the diagram for an annotated question",
		Long: `Read a question document, parse its annotated notation and print the
entity/relationship diagram.

The document carries <uml-question> (and optionally <uml-answer>) blocks, or
<yaml-question> and <yaml-answer> blocks. The notation dialect is detected
unless --dialect is given.

Output adapts to environment:
  - Terminal: Diagram text
  - Piped/Scripted: Markdown with the question and a mermaid code block`,
		Example: `  # Translate a question
  erdmark translate questions/congress.html

  # Read from stdin and force the block dialect
  cat question.html | erdmark translate - --dialect block

  # Re-render whenever the file changes
  erdmark translate questions/congress.html --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-render when the file changes")

	return cmd
}

func runTranslate(cmd *cobra.Command, path string, opts *translateOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if !opts.watch {
		return translateFile(cmd, cmdCtx, path)
	}
	if path == "-" {
		return errors.New("--watch needs a file, not stdin")
	}

	if err := translateFile(cmd, cmdCtx, path); err != nil {
		cmdCtx.Renderer.Error(err.Error())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchFile(ctx, cmdCtx.Logger, path, func() {
		if err := translateFile(cmd, cmdCtx, path); err != nil {
			cmdCtx.Renderer.Error(err.Error())
		}
	})
}

func translateFile(cmd *cobra.Command, cmdCtx *CommandContext, path string) error {
	doc, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	dialect, err := notation.ParseDialect(cmdCtx.Cfg.Dialect)
	if err != nil {
		return err
	}

	res, err := translate.Translate(doc, translate.Options{
		Dialect: dialect,
		Labels:  cmdCtx.Cfg.LabelTable(),
		Logger:  cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.TranslateOutput{
			File:     path,
			Family:   string(res.Question.Family),
			Dialect:  string(res.Dialect),
			Question: res.Question.Markdown,
			Schema:   res.Schema,
			Diagram:  res.Diagram,
		}
		if res.ParseErr != nil {
			out.ParseError = res.ParseErr.Error()
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Question"))
		r.Println("")
		r.Println(res.Question.Markdown)
		r.Println("")
		r.Println(output.FormatHeader(2, "Diagram"))
		r.Println("")
		r.Println(output.FormatCodeBlock("mermaid", res.Diagram))
	default:
		if res.ParseErr != nil {
			r.Warning(res.ParseErr.Error())
		}
		r.Printf("%s", res.Diagram)
	}
	return nil
}

// watchFile calls rebuild after path changes until ctx is cancelled. The
// parent directory is watched because editors often replace files on save.
func watchFile(ctx context.Context, logger *slog.Logger, path string, rebuild func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Info("watching for changes", slog.String("file", abs))

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				logger.Debug("change detected", slog.String("file", filepath.Base(abs)))
				rebuild()
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
