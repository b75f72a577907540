package reference

import (
	"testing"

	"github.com/leapstack-labs/erdmark/internal/testutil"
	"github.com/leapstack-labs/erdmark/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Structured(t *testing.T) {
	doc := `<div class="question" max-grade="20">
  <uml-question>Model the zoo.</uml-question>
  <uml-answer>
classDiagram
    class Animal {
        <<interface>>
        +eat()
    }
    Animal <|-- Duck
  </uml-answer>
  <uml-marking entity-name="0.3" Relationship="1" mode="strict"></uml-marking>
</div>`

	ref := NewExtractor(testutil.NewTestLogger(t)).Extract(doc)

	require.True(t, ref.Found)
	require.NoError(t, ref.Err())
	assert.True(t, ref.Structured)
	assert.Contains(t, ref.Schema, "<<interface>>", "diagram syntax survives the markup parser")
	assert.Contains(t, ref.Schema, "Animal <|-- Duck")

	assert.InDelta(t, 0.3, ref.Criteria.EntityName, 1e-9)
	assert.InDelta(t, 1.0, ref.Criteria.Relationship, 1e-9)
	assert.InDelta(t, 20.0, ref.Criteria.MaxGrade, 1e-9)
	assert.InDelta(t, core.DefaultMarkingCriteria().Cardinality, ref.Criteria.Cardinality, 1e-9)
	assert.Equal(t, "strict", ref.Criteria.Options["mode"])
}

func TestExtract_TagVariants(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "underscore", doc: `<uml_answer>A -- B</uml_answer>`},
		{name: "reference", doc: `<uml-reference>A -- B</uml-reference>`},
		{name: "upper case", doc: `<UML-ANSWER>A -- B</UML-ANSWER>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Extract(tt.doc)
			require.True(t, ref.Found)
			assert.Equal(t, "A -- B", ref.Schema)
		})
	}
}

func TestExtract_TextFallback(t *testing.T) {
	doc := `<!-- hidden from the tree
<uml-answer>
class Pond
Pond o-- Duck
</uml-answer>
<uml-marking method='2' max-grade=5>
-->`

	ref := Extract(doc)

	require.True(t, ref.Found)
	assert.False(t, ref.Structured)
	assert.Equal(t, "class Pond\nPond o-- Duck", ref.Schema)
	assert.InDelta(t, 2.0, ref.Criteria.Method, 1e-9)
	assert.InDelta(t, 5.0, ref.Criteria.MaxGrade, 1e-9)
}

func TestExtract_NoReference(t *testing.T) {
	ref := Extract(`<uml-question>Each [bill](Bill) has a [title](Bill).</uml-question>`)

	assert.False(t, ref.Found)
	assert.Empty(t, ref.Schema)
	require.ErrorIs(t, ref.Err(), ErrNoReference)
	assert.Equal(t, core.DefaultMarkingCriteria(), ref.Criteria)
}

func TestExtract_EmptyAnswer(t *testing.T) {
	ref := Extract(`<uml-answer>   </uml-answer>`)
	assert.False(t, ref.Found)
}

func TestExtract_MalformedMarkingKeepsBase(t *testing.T) {
	base := core.DefaultMarkingCriteria()
	base.Method = 3

	ref := NewExtractor(nil).WithCriteria(base).Extract(
		`<uml-answer>A -- B</uml-answer><uml-marking relationship="lots"></uml-marking>`)

	require.True(t, ref.Found)
	assert.InDelta(t, 3.0, ref.Criteria.Method, 1e-9)
	assert.InDelta(t, base.Relationship, ref.Criteria.Relationship, 1e-9)
}

func TestExtract_MalformedWeightKeepsSiblings(t *testing.T) {
	docs := map[string]string{
		"structured":  `<uml-answer>A -- B</uml-answer><uml-marking entity-name="high" relationship="2" mode="strict"></uml-marking>`,
		"text search": `<!-- <uml-marking entity-name="high" relationship="2" mode="strict"> -->`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			ref := NewExtractor(testutil.NewTestLogger(t)).Extract(doc)

			assert.InDelta(t, core.DefaultMarkingCriteria().EntityName, ref.Criteria.EntityName, 1e-9)
			assert.InDelta(t, 2.0, ref.Criteria.Relationship, 1e-9)
			assert.Equal(t, "strict", ref.Criteria.Options["mode"])
		})
	}
}

func TestExtract_BaseCriteria(t *testing.T) {
	base := core.DefaultMarkingCriteria()
	base.Cardinality = 0.75
	base.EntityName = 0.9

	ref := NewExtractor(nil).WithCriteria(base).Extract(
		`<uml-answer>A -- B</uml-answer><uml-marking entity-name="0.4"></uml-marking>`)

	assert.InDelta(t, 0.4, ref.Criteria.EntityName, 1e-9, "document overrides base")
	assert.InDelta(t, 0.75, ref.Criteria.Cardinality, 1e-9, "base survives where the document is silent")
}

func TestDecodeCriteria(t *testing.T) {
	base := core.DefaultMarkingCriteria()

	got, err := DecodeCriteria(base, map[string]any{
		"weak-entity": "0.8",
		"method":      2,
		"max-grade":   100.0,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got.WeakEntity, 1e-9)
	assert.InDelta(t, 2.0, got.Method, 1e-9)
	assert.InDelta(t, 100.0, got.MaxGrade, 1e-9)
	assert.InDelta(t, 10.0, base.MaxGrade, 1e-9, "base is not mutated")

	_, err = DecodeCriteria(base, map[string]any{"cardinality": "high"})
	require.Error(t, err)
}
