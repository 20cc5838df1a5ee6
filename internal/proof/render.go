package proof

import (
	"fmt"
	"strings"
)

// Fixed markers of the canonical Markdown form. Parse accepts exactly these.
const (
	TheoremLabel    = "定理"
	ProofHeading    = "### 证明"
	Separator       = "---"
	StepLabel       = "Step"
	BulletPrefix    = "- "
	NestedPrefix    = "  - "
	API2Tag         = "API (2分):"
	API1Tag         = "API (1分):"
	LegacyAPIPrefix = "API:"
)

// Render converts a proof document into its canonical Markdown form. It never
// fails: missing or malformed optional fields are omitted. Steps are numbered
// by their position in the full steps list, so an empty step that is skipped
// still consumes its number.
func Render(v any) string {
	data, _ := genericOf(v).(map[string]any)

	var lines []string
	lines = append(lines,
		"### "+TheoremLabel+" "+strings.TrimSpace(textOf(data["theorem_id"])),
		"",
		strings.TrimSpace(textOf(data["statement"])),
		"",
		Separator,
		"",
		ProofHeading,
		"",
	)

	steps, _ := data["steps"].([]any)
	for idx, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		lines = appendStep(lines, idx+1, step)
	}

	return strings.Join(lines, "\n")
}

// RenderDocument is Render for a typed document.
func RenderDocument(d *Document) string {
	return Render(d)
}

func appendStep(lines []string, number int, step map[string]any) []string {
	description := strings.TrimSpace(textOf(step["description"]))
	substeps, _ := step["substeps"].([]any)
	if isEmptyStep(description, substeps) {
		return lines
	}

	heading := fmt.Sprintf("### %s %d", StepLabel, number)
	if title := strings.TrimSpace(textOf(step["title"])); title != "" {
		heading += ": " + title
	}
	lines = append(lines, heading, "")

	if description != "" {
		lines = append(lines, description, "")
	}

	if len(substeps) > 0 {
		appended := false
		for _, rs := range substeps {
			sub, ok := rs.(map[string]any)
			if !ok {
				continue
			}
			desc := strings.TrimSpace(textOf(sub["description"]))
			if desc == "" {
				continue
			}
			lines = append(lines, BulletPrefix+desc)
			appended = true

			if api2 := APIListOf(sub["api2"]).Entries(); len(api2) > 0 {
				lines = append(lines, NestedPrefix+API2Tag+" "+formatAPIEntries(api2))
			}
			if api1 := APIListOf(sub["api1"]).Entries(); len(api1) > 0 {
				lines = append(lines, NestedPrefix+API1Tag+" "+formatAPIEntries(api1))
			}
		}
		if appended {
			lines = append(lines, "")
		}
		return lines
	}

	legacy, ok := step["apis"]
	if !ok || !truthy(legacy) {
		legacy = step["api"]
	}
	if apis := APIListOf(legacy).Entries(); len(apis) > 0 {
		lines = append(lines, LegacyAPIPrefix+" "+formatAPIEntries(apis), "")
	}
	return lines
}

// isEmptyStep is the generic-value form of Step.IsEmpty.
func isEmptyStep(description string, substeps []any) bool {
	if description != "" {
		return false
	}
	for _, rs := range substeps {
		sub, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		if strings.TrimSpace(textOf(sub["description"])) != "" {
			return false
		}
	}
	return true
}
