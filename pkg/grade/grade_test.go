package grade

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/erdmark/internal/testutil"
	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/leapstack-labs/erdmark/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceER = `erDiagram
    CUSTOMER {
        string customer_id PK
        string name
    }
    ORDER {
        string order_number PK
        string date
    }
    CUSTOMER ||--o{ ORDER : "places"
`

// With the default rubric: entities 2 x (0.2 + 2 x 0.1 + 0.2) = 1.2,
// relationships 0.5 + 0.25 = 0.75.
const (
	referenceEntityMax = 1.2
	referenceTotalMax  = 1.95
)

func reference(t *testing.T) *core.Schema {
	t.Helper()
	s := schema.Normalize(referenceER)
	require.Equal(t, 2, s.Len())
	require.Len(t, s.Relationships, 1)
	return s
}

func TestGrade_Identical(t *testing.T) {
	ref := reference(t)
	result := NewGrader(testutil.NewTestLogger(t)).Grade(schema.Normalize(referenceER), ref, core.DefaultMarkingCriteria())

	assert.InDelta(t, 100.0, result.Percentage, 1e-9)
	assert.Equal(t, 100, result.Score)
	assert.InDelta(t, 10.0, result.Points, 1e-9)
	assert.InDelta(t, referenceTotalMax, result.TotalMax, 1e-9)
	assert.InDelta(t, referenceEntityMax, result.Entities.MaxScore, 1e-9)
	assert.Equal(t, result.Entities.MaxScore, result.Entities.Score)
	assert.Equal(t, result.Relationships.MaxScore, result.Relationships.Score)
	assert.Zero(t, result.Methods.MaxScore)

	assert.Contains(t, result.Feedback, "(100.0%)")
	assert.Contains(t, result.Feedback, "- ✓ Found required entity: CUSTOMER")
	assert.Contains(t, result.Feedback, "- ✓ Found relationship: CUSTOMER -> ORDER")
	assert.NotContains(t, result.Feedback, "Method Assessment", "dimension with nothing to grade is omitted")
	assert.Contains(t, result.Feedback, "### Summary Feedback\nExcellent work!")
}

func TestGrade_EmptyBelowPartialBelowFull(t *testing.T) {
	ref := reference(t)
	criteria := core.DefaultMarkingCriteria()

	empty := Grade(core.NewSchema(), ref, criteria)
	partial := GradeText("erDiagram\n    CUSTOMER {\n        string customer_id PK\n        string name\n    }\n", referenceER, criteria)
	full := Grade(schema.Normalize(referenceER), ref, criteria)

	// Empty submission: the aggregate floor awards 0.3 of the entity max.
	assert.InDelta(t, 0.3*referenceEntityMax, empty.TotalScore, 1e-9)
	assert.Equal(t, 18, empty.Score)

	// One entity fully right (raw 0.6), no relationships attempted, lifted
	// above the floor.
	floor := 0.3 * referenceEntityMax
	assert.InDelta(t, floor+0.6*(1-floor/referenceTotalMax), partial.TotalScore, 1e-9)
	assert.Equal(t, 44, partial.Score)

	assert.Less(t, empty.Percentage, partial.Percentage)
	assert.Less(t, partial.Percentage, full.Percentage)
	assert.InDelta(t, 100.0, full.Percentage, 1e-9)
}

func TestGrade_EmptyBelowPartialLargeReference(t *testing.T) {
	// 5 entities x (name 0.2 + 3 attributes 0.1 + key 0.2) = 3.5
	refText := "[A|id{PK};x;y]\n[B|id{PK};x;y]\n[C|id{PK};x;y]\n[D|id{PK};x;y]\n[E|id{PK};x;y]\n"
	criteria := core.DefaultMarkingCriteria()

	empty := GradeText("", refText, criteria)
	nameOnly := GradeText("[A]", refText, criteria)
	twoNames := GradeText("[A]\n[B]", refText, criteria)
	full := GradeText(refText, refText, criteria)

	require.InDelta(t, 3.5, empty.TotalMax, 1e-9)
	assert.InDelta(t, 1.05, empty.TotalScore, 1e-9)
	assert.InDelta(t, 1.05+0.2*0.7, nameOnly.TotalScore, 1e-9)

	assert.Less(t, empty.Percentage, nameOnly.Percentage)
	assert.Less(t, nameOnly.Percentage, twoNames.Percentage)
	assert.Less(t, twoNames.Percentage, full.Percentage)
	assert.InDelta(t, 100.0, full.Percentage, 1e-9)
}

func TestGrade_ExtraEntitiesPenalizeMonotonically(t *testing.T) {
	ref := reference(t)
	criteria := core.DefaultMarkingCriteria()

	previous := 101.0
	for extra := 0; extra <= 6; extra++ {
		var sb strings.Builder
		sb.WriteString(referenceER)
		for i := range extra {
			sb.WriteString("    EXTRA" + string(rune('A'+i)) + " {\n        string x\n    }\n")
		}

		result := Grade(schema.Normalize(sb.String()), ref, criteria)

		assert.LessOrEqual(t, result.Percentage, previous, "extra=%d", extra)
		assert.GreaterOrEqual(t, result.Entities.Score, 0.0)
		assert.GreaterOrEqual(t, result.Entities.Score, referenceEntityMax*(1-penaltyCap)-1e-9,
			"penalty is capped at half the dimension max")
		previous = result.Percentage
	}
}

func TestGrade_ExtraEntityPenaltyNeverNegative(t *testing.T) {
	criteria := core.DefaultMarkingCriteria()
	criteria.ExtraEntityPenalty = 100

	result := GradeText("erDiagram\n    WIDGET {\n    }\n    GADGET {\n    }\n", referenceER, criteria)

	assert.GreaterOrEqual(t, result.Entities.Score, 0.0)
	assert.GreaterOrEqual(t, result.TotalScore, 0.0)
	assert.Contains(t, result.Feedback, "! Unexpected entity: WIDGET")
}

func TestGrade_NoSubmittedRelationships(t *testing.T) {
	ref := reference(t)
	sub := schema.Normalize(referenceER)
	sub.Relationships = []core.Relationship{}

	result := Grade(sub, ref, core.DefaultMarkingCriteria())

	assert.Zero(t, result.Relationships.Score)
	assert.InDelta(t, 0.75, result.Relationships.MaxScore, 1e-9)
	require.NotEmpty(t, result.Relationships.Feedback)
	for _, line := range result.Relationships.Feedback {
		assert.Equal(t, core.FeedbackMissing, line.Status, line.Text)
	}
}

func TestGrade_Relationships(t *testing.T) {
	criteria := core.DefaultMarkingCriteria()
	entities := "erDiagram\n    CUSTOMER {\n        string customer_id PK\n        string name\n    }\n    ORDER {\n        string order_number PK\n        string date\n    }\n"

	tests := []struct {
		name      string
		edges     string
		wantScore float64
		feedback  string
	}{
		{
			name:      "reversed direction",
			edges:     "    ORDER }o--|| CUSTOMER : places\n",
			wantScore: 0.75,
			feedback:  "Found relationship",
		},
		{
			name:      "wrong cardinality",
			edges:     "    CUSTOMER ||--|| ORDER : places\n",
			wantScore: 0.5,
			feedback:  "Incorrect cardinality for CUSTOMER - ORDER: expected 1..1 - 0..*",
		},
		{
			name:      "extra relationship",
			edges:     "    CUSTOMER ||--o{ ORDER : places\n    CUSTOMER <|-- ORDER\n",
			wantScore: 0.5,
			feedback:  "Unexpected relationship: CUSTOMER -> ORDER (inheritance)",
		},
		{
			name:      "wrong pair gets the floor",
			edges:     "    ORDER ||--o{ INVOICE : bills\n",
			wantScore: 0.075,
			feedback:  "Missing relationship: CUSTOMER -> ORDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GradeText(entities+tt.edges, referenceER, criteria)
			assert.InDelta(t, tt.wantScore, result.Relationships.Score, 1e-9)

			var texts []string
			for _, line := range result.Relationships.Feedback {
				texts = append(texts, line.Text)
			}
			assert.Contains(t, strings.Join(texts, "\n"), tt.feedback)
		})
	}
}

func TestGrade_MissingEntityDetails(t *testing.T) {
	sub := "erDiagram\n    CUSTOMER {\n        string customer_id\n    }\n    ORDERS {\n    }\n    CUSTOMER ||--o{ ORDERS : places\n"

	result := GradeText(sub, referenceER, core.DefaultMarkingCriteria())

	entityTexts := make([]string, 0, len(result.Entities.Feedback))
	for _, line := range result.Entities.Feedback {
		entityTexts = append(entityTexts, line.Text)
	}
	assert.Contains(t, entityTexts, "Missing attribute name in entity CUSTOMER")
	assert.Contains(t, entityTexts, "Key attribute customer_id in entity CUSTOMER is not marked as a key")
	assert.Contains(t, entityTexts, "Missing required entity: ORDER")
	assert.Contains(t, entityTexts, "Unexpected entity: ORDERS")

	relTexts := make([]string, 0, len(result.Relationships.Feedback))
	for _, line := range result.Relationships.Feedback {
		relTexts = append(relTexts, line.Text)
	}
	assert.Contains(t, relTexts, "Relationship CUSTOMER -> ORDER (association, 1..1 - 0..*) needs missing entity ORDER")
}

func TestGrade_WeakEntityKey(t *testing.T) {
	refText := "[LINE|order_no{PPK};qty]"
	criteria := core.DefaultMarkingCriteria()

	marked := GradeText("[LINE|order_no{PK};qty]", refText, criteria)
	unmarked := GradeText("[LINE|order_no;qty]", refText, criteria)

	// name 0.2 + attributes 0.2 + weak key 0.5
	assert.InDelta(t, 0.9, marked.Entities.MaxScore, 1e-9)
	assert.InDelta(t, 0.9, marked.Entities.Score, 1e-9)
	assert.InDelta(t, 0.4, unmarked.Entities.Score, 1e-9)
}

func TestGrade_Methods(t *testing.T) {
	refText := `classDiagram
    class Account {
        +deposit(amount)
        +withdraw(amount)
    }
`
	criteria := core.DefaultMarkingCriteria()

	result := GradeText("classDiagram\n    class Account {\n        +deposit(x)\n        +Withdraw(x)\n    }\n", refText, criteria)

	assert.InDelta(t, 2.0, result.Methods.MaxScore, 1e-9)
	assert.InDelta(t, 1.0, result.Methods.Score, 1e-9)
	assert.Contains(t, result.Feedback, "✓ Found method: Account.deposit")
	assert.Contains(t, result.Feedback, "✗ Missing method: Account.withdraw")
}

func TestGrade_DimensionFloor(t *testing.T) {
	refText := `classDiagram
    class Account {
        +deposit(amount)
    }
    class Bank
    Bank *-- Account
`
	result := GradeText("classDiagram\n    class Account\n    class Bank\n    Bank o-- Account\n", refText, core.DefaultMarkingCriteria())

	assert.InDelta(t, 0.1*result.Methods.MaxScore, result.Methods.Score, 1e-9, "zero dimension floored")
	assert.InDelta(t, 0.1*result.Relationships.MaxScore, result.Relationships.Score, 1e-9)
	assert.InDelta(t, result.Entities.MaxScore, result.Entities.Score, 1e-9)
}

func TestGrade_NothingToGrade(t *testing.T) {
	result := Grade(nil, nil, core.DefaultMarkingCriteria())
	assert.InDelta(t, 50.0, result.Percentage, 1e-9)
	assert.Equal(t, 50, result.Score)
	assert.InDelta(t, 5.0, result.Points, 1e-9)
}

func TestGrade_PointsScaleWithMaxGrade(t *testing.T) {
	criteria := core.DefaultMarkingCriteria()
	criteria.MaxGrade = 20

	result := Grade(core.NewSchema(), reference(t), criteria)
	assert.InDelta(t, float64(result.Score)/100*20, result.Points, 1e-9)
}

func TestNoReferenceResult(t *testing.T) {
	result := NoReferenceResult()
	assert.Equal(t, 50, result.Score)
	assert.InDelta(t, 50.0, result.Percentage, 1e-9)
	assert.Equal(t, NoReferenceMessage, result.Feedback)
}
