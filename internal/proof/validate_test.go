package proof

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestValidate_AcceptsWellFormedDocument(t *testing.T) {
	v := decode(t, `{
		"theorem_id": "100",
		"statement": "S",
		"steps": [
			{"title": "构造环", "description": "D", "apis": ["Polynomial", "MvPolynomial"]},
			{"substeps": [{"description": "sub", "api2": ["Foo.bar"]}]}
		]
	}`)
	errs := Validate(v)
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidate_MissingTopLevelFields(t *testing.T) {
	for _, field := range []string{"theorem_id", "statement", "steps"} {
		t.Run(field, func(t *testing.T) {
			doc := map[string]any{"theorem_id": "1", "statement": "S", "steps": []any{}}
			delete(doc, field)
			errs := Validate(doc)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs, "Missing required field: '"+field+"'")
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	errs := Validate(map[string]any{})
	assert.Equal(t, []string{
		"Missing required field: 'theorem_id'",
		"Missing required field: 'statement'",
		"Missing required field: 'steps'",
	}, errs)
}

func TestValidate_StepsMustBeList(t *testing.T) {
	for name, steps := range map[string]any{
		"string": "not a list",
		"number": 3.0,
		"object": map[string]any{"description": "x"},
	} {
		t.Run(name, func(t *testing.T) {
			errs := Validate(map[string]any{"theorem_id": "1", "statement": "S", "steps": steps})
			assert.Equal(t, []string{"'steps' must be a list"}, errs)
		})
	}
}

func TestValidate_StepLevelChecks(t *testing.T) {
	v := decode(t, `{
		"theorem_id": "1",
		"statement": "S",
		"steps": [
			"oops",
			{"title": "no description"},
			{"description": "D", "apis": 5},
			{"description": "D", "substeps": "bad"},
			{"substeps": [3, {"api2": ["X"]}]}
		]
	}`)
	assert.Equal(t, []string{
		"Step 1 must be an object",
		"Step 2: missing 'description'",
		"Step 3: 'apis' must be a list of strings",
		"Step 4: 'substeps' must be a list",
		"Step 5 substep 1 must be an object",
		"Step 5 substep 2: missing 'description'",
	}, Validate(v))
}

func TestValidate_EmptySubstepsStillNeedDescription(t *testing.T) {
	v := decode(t, `{"theorem_id": "1", "statement": "S", "steps": [{"substeps": []}]}`)
	assert.Equal(t, []string{"Step 1: missing 'description'"}, Validate(v))
}

func TestValidate_LegacyDelimitedAPIsAccepted(t *testing.T) {
	v := decode(t, `{"theorem_id": "1", "statement": "S", "steps": [{"description": "D", "apis": "A, B"}]}`)
	assert.Empty(t, Validate(v))
}

func TestValidate_NonObjectDocument(t *testing.T) {
	assert.Equal(t, []string{"proof document must be an object"}, Validate([]any{1.0}))
	assert.Equal(t, []string{"proof document must be an object"}, Validate(nil))
}

func TestValidate_TypedDocument(t *testing.T) {
	doc := &Document{TheoremID: "1", Statement: "S", Steps: []Step{{Description: "D"}}}
	assert.Empty(t, Validate(doc))
	assert.Empty(t, Validate(*doc))
}

func TestValidateStrict_ReportsTypeViolations(t *testing.T) {
	v := decode(t, `{
		"theorem_id": "1",
		"statement": "S",
		"steps": [{"title": 7, "description": "D", "substeps": [{"description": "s", "api2": ["A", 2]}]}]
	}`)
	assert.Empty(t, Validate(v))

	errs := ValidateStrict(v)
	require.NotEmpty(t, errs)
	joined := ""
	for _, e := range errs {
		assert.Contains(t, e, "schema: ")
		joined += e + "\n"
	}
	assert.Contains(t, joined, "/steps/0/title")
	assert.Contains(t, joined, "/steps/0/substeps/0/api2/1")
}

func TestValidateStrict_PassesCleanDocument(t *testing.T) {
	v := decode(t, `{"theorem_id": 100, "statement": "S", "steps": [{"description": "D", "apis": ["A"]}]}`)
	assert.Empty(t, ValidateStrict(v))
}

func TestValidateStrict_StructuralErrorsFirst(t *testing.T) {
	errs := ValidateStrict(map[string]any{"statement": "S", "steps": []any{}})
	assert.Equal(t, []string{"Missing required field: 'theorem_id'"}, errs)
}

func TestValidateStrict_ConcurrentUse(t *testing.T) {
	v := decode(t, `{"theorem_id": "1", "statement": "S", "steps": [{"title": 3, "description": "D"}]}`)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ValidateStrict(v)
		}(i)
	}
	wg.Wait()

	for _, errs := range results {
		assert.Equal(t, results[0], errs)
		assert.NotEmpty(t, errs)
	}
}
