package proof

import "strings"

// Document is a structured proof: a theorem statement followed by ordered steps.
type Document struct {
	TheoremID string `json:"theorem_id"`
	Statement string `json:"statement"`
	Steps     []Step `json:"steps"`
}

// Step is one numbered block of a proof. Substeps and the legacy APIs list are
// mutually exclusive: when Substeps is non-empty, APIs is ignored.
type Step struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Substeps    []Substep `json:"substeps,omitempty"`
	APIs        []string  `json:"apis,omitempty"`
}

// Substep is a bullet under a step with two tiers of API references.
type Substep struct {
	Description string   `json:"description"`
	API2        []string `json:"api2,omitempty"` // high value
	API1        []string `json:"api1,omitempty"` // low value
}

// IsEmpty reports whether the step carries no renderable content: no
// description and no substep with a description. Empty steps are never
// rendered and so never survive a round trip.
func (s Step) IsEmpty() bool {
	if strings.TrimSpace(s.Description) != "" {
		return false
	}
	for _, sub := range s.Substeps {
		if strings.TrimSpace(sub.Description) != "" {
			return false
		}
	}
	return true
}

// Value converts the document into the generic map form used by Validate and
// Render, mirroring what encoding/json would decode from its JSON encoding.
func (d *Document) Value() map[string]any {
	steps := make([]any, 0, len(d.Steps))
	for _, s := range d.Steps {
		steps = append(steps, s.value())
	}
	return map[string]any{
		"theorem_id": d.TheoremID,
		"statement":  d.Statement,
		"steps":      steps,
	}
}

func (s Step) value() map[string]any {
	out := map[string]any{}
	if s.Title != "" {
		out["title"] = s.Title
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Substeps) > 0 {
		subs := make([]any, 0, len(s.Substeps))
		for _, sub := range s.Substeps {
			m := map[string]any{"description": sub.Description}
			if len(sub.API2) > 0 {
				m["api2"] = stringsToAny(sub.API2)
			}
			if len(sub.API1) > 0 {
				m["api1"] = stringsToAny(sub.API1)
			}
			subs = append(subs, m)
		}
		out["substeps"] = subs
	}
	if len(s.APIs) > 0 {
		out["apis"] = stringsToAny(s.APIs)
	}
	return out
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
