package grade

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// DefaultFeedbackLines is the number of feedback lines shown per dimension.
const DefaultFeedbackLines = 3

// summaryBands pairs percentage thresholds with the summary sentence.
var summaryBands = []struct {
	min     float64
	summary string
}{
	{90, "Excellent work! Your diagram captures nearly all of the required entities and relationships."},
	{80, "Good work. Your diagram covers most of the required elements with a few gaps."},
	{70, "Fair attempt. Several required elements are missing or incorrect."},
	{60, "Your diagram needs improvement. Review the missing entities and relationships above."},
	{0, "Your diagram is missing many required elements. Compare it with the question requirements and try again."},
}

// Summary returns the qualitative sentence for a percentage.
func Summary(percentage float64) string {
	for _, band := range summaryBands {
		if percentage >= band.min {
			return band.summary
		}
	}
	return summaryBands[len(summaryBands)-1].summary
}

// Report renders result as Markdown with the default feedback line limit.
func Report(result *core.GradingResult) string {
	return ReportWithLimit(result, DefaultFeedbackLines)
}

// ReportWithLimit renders result as Markdown, showing at most limit feedback
// lines per dimension. Dimensions with nothing to grade are omitted.
func ReportWithLimit(result *core.GradingResult, limit int) string {
	if limit <= 0 {
		limit = DefaultFeedbackLines
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### Overall Score: %s/%s (%.1f%%)\n",
		formatScore(result.TotalScore), formatScore(result.TotalMax), result.Percentage)

	for _, d := range result.Dimensions() {
		if d.MaxScore == 0 && len(d.Feedback) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n#### %s Assessment: %s/%s (%.1f%%)\n",
			d.Name, formatScore(d.Score), formatScore(d.MaxScore), d.Percentage())
		for i, line := range d.Feedback {
			if i == limit {
				fmt.Fprintf(&sb, "- ...and %d more\n", len(d.Feedback)-limit)
				break
			}
			fmt.Fprintf(&sb, "- %s %s\n", line.Status.Symbol(), line.Text)
		}
	}

	sb.WriteString("\n### Summary Feedback\n")
	sb.WriteString(Summary(result.Percentage))
	sb.WriteString("\n")
	return sb.String()
}

func formatScore(f float64) string {
	return fmt.Sprintf("%.1f", f)
}
