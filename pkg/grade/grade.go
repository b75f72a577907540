// Package grade scores a submitted schema against a reference schema.
//
// Grading runs three dimensions (entities, relationships, methods), each
// weighted by the marking criteria, and composes a Markdown report. The
// criteria are passed as a value on every call so that concurrent grading
// never shares mutable rubric state.
package grade

import (
	"log/slog"
	"math"

	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/leapstack-labs/erdmark/pkg/schema"
)

const (
	// penaltyCap bounds extra-element penalties as a fraction of the
	// dimension max.
	penaltyCap = 0.5
	// dimensionFloor is the minimum fraction of max awarded to a dimension
	// that scored zero when the submission has entities.
	dimensionFloor = 0.1
	// aggregateFloor is the fraction of the entity max every submission is
	// lifted to, including an empty one.
	aggregateFloor = 0.3
	// neutralPercentage is reported when nothing could be graded.
	neutralPercentage = 50
)

// NoReferenceMessage is the advisory used when a question has no reference
// solution.
const NoReferenceMessage = "Reference solution not found"

// Grader compares schemas.
type Grader struct {
	logger *slog.Logger
}

// NewGrader creates a grader. A nil logger discards output.
func NewGrader(logger *slog.Logger) *Grader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Grader{logger: logger}
}

// Grade scores submitted against reference with a discarding logger.
func Grade(submitted, reference *core.Schema, criteria core.MarkingCriteria) *core.GradingResult {
	return NewGrader(nil).Grade(submitted, reference, criteria)
}

// GradeText normalizes both diagram texts and grades them.
func GradeText(submission, reference string, criteria core.MarkingCriteria) *core.GradingResult {
	return Grade(schema.Normalize(submission), schema.Normalize(reference), criteria)
}

// NoReferenceResult is the neutral result for questions without a
// reference solution.
func NoReferenceResult() *core.GradingResult {
	return &core.GradingResult{
		Percentage: neutralPercentage,
		Score:      neutralPercentage,
		Feedback:   NoReferenceMessage,
	}
}

// Grade scores submitted against reference and fills in the report.
// Nil schemas are treated as empty.
func (g *Grader) Grade(submitted, reference *core.Schema, criteria core.MarkingCriteria) *core.GradingResult {
	if submitted == nil {
		submitted = core.NewSchema()
	}
	if reference == nil {
		reference = core.NewSchema()
	}

	result := &core.GradingResult{
		Entities:      gradeEntities(submitted, reference, criteria),
		Relationships: gradeRelationships(submitted, reference, criteria),
		Methods:       gradeMethods(submitted, reference, criteria),
	}

	rawTotal := result.Entities.Score + result.Relationships.Score + result.Methods.Score

	if submitted.Len() > 0 {
		applyFloor(&result.Entities)
		applyFloor(&result.Methods)
		// A submission without relationships made no attempt at the
		// dimension, so it keeps its zero.
		if len(submitted.Relationships) > 0 {
			applyFloor(&result.Relationships)
		}
	}

	for _, d := range result.Dimensions() {
		result.TotalScore += d.Score
		result.TotalMax += d.MaxScore
	}
	result.TotalScore = math.Max(result.TotalScore, liftedTotal(rawTotal, result.TotalMax, result.Entities.MaxScore))

	if result.TotalMax == 0 {
		result.Percentage = neutralPercentage
	} else {
		result.Percentage = math.Min(100, 100*result.TotalScore/result.TotalMax)
	}
	result.Score = int(math.Round(result.Percentage))
	result.Points = float64(result.Score) / 100 * criteria.MaxGrade
	result.Feedback = Report(result)

	g.logger.Debug("graded submission",
		slog.Int("score", result.Score),
		slog.Float64("total", result.TotalScore),
		slog.Float64("max", result.TotalMax))

	return result
}

// liftedTotal maps a raw total in [0, totalMax] onto [floor, totalMax] with
// floor = aggregateFloor * entityMax. An empty submission lands on the floor,
// any credit at all lands strictly above it, and a perfect raw total is
// unchanged.
func liftedTotal(raw, totalMax, entityMax float64) float64 {
	floor := aggregateFloor * entityMax
	if totalMax <= 0 || floor <= 0 {
		return 0
	}
	return floor + raw*(1-floor/totalMax)
}

// applyFloor bumps a zero-scored dimension to a fraction of its max.
func applyFloor(d *core.DimensionResult) {
	if d.Score == 0 && d.MaxScore > 0 {
		d.Score = dimensionFloor * d.MaxScore
	}
}

// applyPenalty subtracts a capped penalty, flooring the score at zero.
func applyPenalty(d *core.DimensionResult, count int, weight float64) {
	if count == 0 || weight <= 0 {
		return
	}
	penalty := math.Min(float64(count)*weight, penaltyCap*d.MaxScore)
	d.Score = math.Max(0, d.Score-penalty)
}
