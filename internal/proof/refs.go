package proof

import "strings"

// APIRef is one API reference of a document with its point tier: 2 and 1
// for substep annotations, 0 for the legacy per-step list. Step is the
// number Render prints in the step heading.
type APIRef struct {
	Step   int    `json:"step"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// APIRefs lists every API reference of the document in order.
func (d *Document) APIRefs() []APIRef {
	return APIRefsOf(d)
}

// APIRefsOf lists the API references of any value Render accepts, in document
// order. It follows Render exactly: steps keep their positional number, empty
// steps and blank substeps contribute nothing, and substeps shadow the legacy
// list.
func APIRefsOf(v any) []APIRef {
	data, _ := genericOf(v).(map[string]any)
	steps, _ := data["steps"].([]any)

	var refs []APIRef
	for idx, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		number := idx + 1
		description := strings.TrimSpace(textOf(step["description"]))
		substeps, _ := step["substeps"].([]any)
		if isEmptyStep(description, substeps) {
			continue
		}

		if len(substeps) > 0 {
			for _, rs := range substeps {
				sub, ok := rs.(map[string]any)
				if !ok || strings.TrimSpace(textOf(sub["description"])) == "" {
					continue
				}
				for _, name := range APIListOf(sub["api2"]).Entries() {
					refs = append(refs, APIRef{Step: number, Name: name, Points: 2})
				}
				for _, name := range APIListOf(sub["api1"]).Entries() {
					refs = append(refs, APIRef{Step: number, Name: name, Points: 1})
				}
			}
			continue
		}

		legacy, ok := step["apis"]
		if !ok || !truthy(legacy) {
			legacy = step["api"]
		}
		for _, name := range APIListOf(legacy).Entries() {
			refs = append(refs, APIRef{Step: number, Name: name, Points: 0})
		}
	}
	return refs
}

// TheoremIDOf returns the theorem id as Render prints it.
func TheoremIDOf(v any) string {
	data, _ := genericOf(v).(map[string]any)
	return strings.TrimSpace(textOf(data["theorem_id"]))
}
