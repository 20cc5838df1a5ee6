package proof

import "fmt"

var requiredFields = []string{"theorem_id", "statement", "steps"}

// Validate checks a decoded proof document against the structural schema and
// returns every problem found, in order. An empty result means the document
// can be rendered. Validate accepts a *Document, a Document, or the generic
// value produced by encoding/json.
func Validate(v any) []string {
	errs := []string{}

	data, ok := genericOf(v).(map[string]any)
	if !ok {
		return append(errs, "proof document must be an object")
	}

	for _, name := range requiredFields {
		if _, ok := data[name]; !ok {
			errs = append(errs, fmt.Sprintf("Missing required field: '%s'", name))
		}
	}

	rawSteps := data["steps"]
	if rawSteps == nil {
		return errs
	}
	steps, ok := rawSteps.([]any)
	if !ok {
		return append(errs, "'steps' must be a list")
	}

	for i, raw := range steps {
		idx := i + 1
		step, ok := raw.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("Step %d must be an object", idx))
			continue
		}

		if _, has := step["description"]; !has && !truthy(step["substeps"]) {
			errs = append(errs, fmt.Sprintf("Step %d: missing 'description'", idx))
		}

		if apis, has := step["apis"]; has && !isSequence(apis) {
			errs = append(errs, fmt.Sprintf("Step %d: 'apis' must be a list of strings", idx))
		}

		rawSubs := step["substeps"]
		subs, isList := rawSubs.([]any)
		if truthy(rawSubs) && !isList {
			errs = append(errs, fmt.Sprintf("Step %d: 'substeps' must be a list", idx))
			continue
		}
		for j, rs := range subs {
			sub, ok := rs.(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("Step %d substep %d must be an object", idx, j+1))
				continue
			}
			if _, has := sub["description"]; !has {
				errs = append(errs, fmt.Sprintf("Step %d substep %d: missing 'description'", idx, j+1))
			}
		}
	}

	return errs
}

// genericOf lifts typed documents into their generic map form.
func genericOf(v any) any {
	switch d := v.(type) {
	case *Document:
		if d == nil {
			return nil
		}
		return d.Value()
	case Document:
		return d.Value()
	default:
		return v
	}
}

// isSequence accepts arrays and, for the legacy comma-delimited form, strings.
func isSequence(v any) bool {
	switch v.(type) {
	case []any, []string, string:
		return true
	}
	return false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
