package extractor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	binderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:let|have|intro|rcases|obtain|use)\s+([a-zA-Z_][a-zA-Z0-9_']*)`),
		regexp.MustCompile(`\bfun\s+([a-zA-Z_][a-zA-Z0-9_']*)\s*(?::|=>)`),
	}
	signatureRe  = regexp.MustCompile(`(?:theorem|lemma|def)\s+\w+[^:]*\(([^)]*)\)`)
	forallRe     = regexp.MustCompile(`∀\s*\(?([a-zA-Z_][a-zA-Z0-9_']*)`)
	openRe       = regexp.MustCompile(`\bopen\s+([A-Z][a-zA-Z0-9_]*(?:\s+[A-Z][a-zA-Z0-9_]*)*)`)
	nameRe       = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\b`)
	paramStartRe = regexp.MustCompile(`^[a-zA-Z_]`)
	hypothesisRe = regexp.MustCompile(`^(?:h[a-z]?_|[a-z]_)`)
	projectionRe = regexp.MustCompile(`\.(?:mp|mpr|\d+)$`)
)

var (
	// Lowercased substrings that disqualify a name outright.
	excludedFragments = []string{
		"intro", "apply", "exact", "rw", "simp", "ring", "field_simp",
		"have", "let", "by", "sorry", "theorem", "lemma", "def", "mathlib",
	}
	docWords = setOf(
		"any", "all", "some", "hence", "thus", "then", "also",
		"helper", "note", "from", "this", "that", "will", "must",
		"can", "may", "should", "would", "could", "the", "and",
		"but", "for", "not", "are", "was", "were", "been", "being",
		"there", "exists",
	)
	tactics = setOf(
		"set_option", "push_neg", "rcases", "obtain", "refine",
		"show", "change", "use", "constructor", "left", "right",
	)
	// Structure fields that look qualified when accessed on a local (h.mp, I.IsPrime).
	commonFields = setOf(
		"FG", "IsPrime", "isPrime", "asIdeal", "toFun",
		"toRingHom", "toAlgHom", "val", "property",
	)
)

// LeanExtractor recognises Mathlib-style API references in Lean 4 source.
type LeanExtractor struct{}

func NewLeanExtractor() *LeanExtractor { return &LeanExtractor{} }

func (l *LeanExtractor) Extensions() []string { return []string{".lean"} }

func (l *LeanExtractor) ExtractNames(code string) []string {
	locals := localNames(code)
	namespaces := openedNamespaces(code)
	found := map[string]struct{}{}

	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "--") || strings.HasPrefix(line, "import") {
			continue
		}
		for _, m := range nameRe.FindAllStringSubmatch(line, -1) {
			if name, ok := classify(m[1], locals, namespaces); ok {
				found[name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// classify applies the filters to one candidate identifier, returning the
// normalised API name when it survives.
func classify(name string, locals map[string]struct{}, namespaces []string) (string, bool) {
	first, _, _ := strings.Cut(name, ".")
	if _, ok := locals[first]; ok {
		return "", false
	}

	qualified := strings.Contains(name, ".")
	startsLower := unicode.IsLower(rune(name[0]))

	// Unqualified lemma names are assumed to live in the first opened namespace.
	if !qualified && len(namespaces) > 0 && startsLower && strings.Contains(name, "_") {
		name = namespaces[0] + "." + name
		qualified = true
	}

	if !qualified {
		if !startsLower || !strings.Contains(name, "_") || len(name) < 5 {
			return "", false
		}
	}

	parts := strings.Split(name, ".")
	if len(parts) == 2 {
		if _, ok := commonFields[parts[1]]; ok && parts[0] != "" && unicode.IsLower(rune(parts[0][0])) {
			return "", false
		}
	}

	lower := strings.ToLower(name)
	if _, ok := docWords[lower]; ok {
		return "", false
	}
	if _, ok := tactics[lower]; ok {
		return "", false
	}
	if hypothesisRe.MatchString(name) {
		return "", false
	}

	anyUpper := false
	for _, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			anyUpper = true
			break
		}
	}
	if !anyUpper && !strings.Contains(name, "_") {
		return "", false
	}

	if !likelyAPI(name) {
		return "", false
	}
	return projectionRe.ReplaceAllString(name, ""), true
}

func likelyAPI(name string) bool {
	lower := strings.ToLower(name)
	for _, frag := range excludedFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}
	if strings.Contains(name, ".") {
		return unicode.IsUpper(rune(name[0]))
	}
	if unicode.IsLower(rune(name[0])) {
		return strings.Contains(name, "_") && len(name) >= 5
	}
	return false
}

// localNames collects binder and parameter names so that member access on
// locals (h.symm, x.val) is not mistaken for a library reference.
func localNames(code string) map[string]struct{} {
	locals := map[string]struct{}{}
	for _, re := range binderPatterns {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			locals[m[1]] = struct{}{}
		}
	}
	for _, m := range signatureRe.FindAllStringSubmatch(code, -1) {
		for _, param := range strings.Split(m[1], ",") {
			name, _, _ := strings.Cut(param, ":")
			name = strings.TrimSpace(name)
			if name != "" && paramStartRe.MatchString(name) {
				locals[name] = struct{}{}
			}
		}
	}
	for _, m := range forallRe.FindAllStringSubmatch(code, -1) {
		locals[m[1]] = struct{}{}
	}
	return locals
}

// openedNamespaces returns namespaces from `open` commands in order of first
// appearance.
func openedNamespaces(code string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range openRe.FindAllStringSubmatch(code, -1) {
		for _, ns := range strings.Fields(m[1]) {
			if !seen[ns] {
				seen[ns] = true
				out = append(out, ns)
			}
		}
	}
	return out
}

func setOf(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}
