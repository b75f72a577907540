package core

// =============================================================================
// Feedback
// =============================================================================

// FeedbackStatus classifies a feedback line.
type FeedbackStatus int

// Feedback statuses.
const (
	// FeedbackFound marks an element present in both schemas.
	FeedbackFound FeedbackStatus = iota
	// FeedbackMissing marks a reference element absent from the submission.
	FeedbackMissing
	// FeedbackExtra marks a submitted element absent from the reference.
	FeedbackExtra
	// FeedbackInfo is neutral commentary.
	FeedbackInfo
)

// String returns the status name.
func (s FeedbackStatus) String() string {
	switch s {
	case FeedbackFound:
		return "found"
	case FeedbackMissing:
		return "missing"
	case FeedbackExtra:
		return "extra"
	default:
		return "info"
	}
}

// Symbol returns the report marker for the status.
func (s FeedbackStatus) Symbol() string {
	switch s {
	case FeedbackFound:
		return "✓"
	case FeedbackMissing:
		return "✗"
	case FeedbackExtra:
		return "!"
	default:
		return "-"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s FeedbackStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// as FeedbackInfo.
func (s *FeedbackStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "found":
		*s = FeedbackFound
	case "missing":
		*s = FeedbackMissing
	case "extra":
		*s = FeedbackExtra
	default:
		*s = FeedbackInfo
	}
	return nil
}

// FeedbackLine is one human-readable grading remark.
type FeedbackLine struct {
	Status FeedbackStatus `json:"status"`
	Text   string         `json:"text"`
}

// =============================================================================
// Results
// =============================================================================

// Grading dimension names.
const (
	DimensionEntities      = "Entity"
	DimensionRelationships = "Relationship"
	DimensionMethods       = "Method"
)

// DimensionResult is the score of one grading dimension.
type DimensionResult struct {
	Name     string         `json:"name"`
	Score    float64        `json:"score"`
	MaxScore float64        `json:"max_score"`
	Feedback []FeedbackLine `json:"feedback"`
}

// Add records a feedback line.
func (d *DimensionResult) Add(status FeedbackStatus, text string) {
	d.Feedback = append(d.Feedback, FeedbackLine{Status: status, Text: text})
}

// Percentage returns 100*Score/MaxScore, or 0 when MaxScore is zero.
func (d DimensionResult) Percentage() float64 {
	if d.MaxScore == 0 {
		return 0
	}
	return 100 * d.Score / d.MaxScore
}

// GradingResult is the outcome of grading a submission.
type GradingResult struct {
	Entities      DimensionResult `json:"entities"`
	Relationships DimensionResult `json:"relationships"`
	Methods       DimensionResult `json:"methods"`

	// TotalScore and TotalMax sum the three dimensions.
	TotalScore float64 `json:"total_score"`
	TotalMax   float64 `json:"total_max"`
	// Percentage is 100*TotalScore/TotalMax, or 50 when TotalMax is zero.
	Percentage float64 `json:"percentage"`
	// Score is Percentage rounded to the nearest integer.
	Score int `json:"score"`
	// Points scales Percentage to the rubric's max-grade.
	Points float64 `json:"points"`
	// Feedback is the composed report text.
	Feedback string `json:"feedback"`
}

// Dimensions returns the three dimension results in report order.
func (r *GradingResult) Dimensions() []DimensionResult {
	return []DimensionResult{r.Entities, r.Relationships, r.Methods}
}
