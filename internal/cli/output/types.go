package output

import "github.com/leapstack-labs/erdmark/pkg/core"

// TranslateOutput is the JSON shape of the translate command.
type TranslateOutput struct {
	File       string       `json:"file"`
	Family     string       `json:"family"`
	Dialect    string       `json:"dialect"`
	Question   string       `json:"question"`
	Schema     *core.Schema `json:"schema"`
	Diagram    string       `json:"diagram"`
	ParseError string       `json:"parse_error,omitempty"`
}

// NormalizeOutput is the JSON shape of the normalize command.
type NormalizeOutput struct {
	File   string       `json:"file"`
	Schema *core.Schema `json:"schema"`
}

// ExtractOutput is the JSON shape of the extract command.
type ExtractOutput struct {
	File       string               `json:"file"`
	Found      bool                 `json:"found"`
	Structured bool                 `json:"structured"`
	Reference  string               `json:"reference,omitempty"`
	Criteria   core.MarkingCriteria `json:"criteria"`
}

// GradeOutput is the JSON shape of one graded submission.
type GradeOutput struct {
	File   string              `json:"file"`
	Result *core.GradingResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// GradeRun is the JSON shape of the grade command.
type GradeRun struct {
	RunID       string        `json:"run_id"`
	Question    string        `json:"question"`
	HasRef      bool          `json:"has_reference"`
	Submissions []GradeOutput `json:"submissions"`
}

// CriterionRow is one rubric weight.
type CriterionRow struct {
	Name    string  `json:"name"`
	Weight  float64 `json:"weight"`
	Default float64 `json:"default"`
}
