package proof

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	theoremHeadingRe = regexp.MustCompile(`^###\s*` + regexp.QuoteMeta(TheoremLabel) + `\s*(.*)$`)
	proofHeadingRe   = regexp.MustCompile(`^###\s*证明\s*$`)
	stepHeadingRe    = regexp.MustCompile(`^###\s*` + StepLabel + `\s+(\d+)(?::\s*(.*))?\s*$`)
)

// Parse reconstructs a proof document from canonical Markdown. Parsing is
// strict: anything Render would not have produced is a *ParseError and no
// partial document is returned.
func Parse(text string) (*Document, error) {
	c := newCursor(text)
	if c.allBlank() {
		return nil, &ParseError{Kind: ErrEmptyInput}
	}

	c.skipBlank()
	line, _ := c.peek()
	m := theoremHeadingRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, &ParseError{Kind: ErrMissingTheoremHeading, Line: c.lineNo(), Text: strings.TrimSpace(line)}
	}
	doc := &Document{TheoremID: strings.TrimSpace(m[1]), Steps: []Step{}}
	c.advance()

	var statement []string
	for {
		line, ok := c.peek()
		if !ok {
			return nil, &ParseError{Kind: ErrMissingSeparator, Text: "expected '" + Separator + "' before end of input"}
		}
		c.advance()
		if strings.TrimSpace(line) == Separator {
			break
		}
		statement = append(statement, line)
	}
	doc.Statement = strings.TrimSpace(strings.Join(statement, "\n"))

	c.skipBlank()
	line, ok := c.peek()
	if !ok {
		return nil, &ParseError{Kind: ErrMissingProofHeading, Text: "expected '" + ProofHeading + "' before end of input"}
	}
	if !proofHeadingRe.MatchString(strings.TrimSpace(line)) {
		return nil, &ParseError{Kind: ErrMissingProofHeading, Line: c.lineNo(), Text: strings.TrimSpace(line)}
	}
	c.advance()

	for {
		c.skipBlank()
		if c.done() {
			break
		}
		step, keep, err := parseStep(c)
		if err != nil {
			return nil, err
		}
		if keep {
			doc.Steps = append(doc.Steps, step)
		}
	}
	return doc, nil
}

func parseStep(c *cursor) (Step, bool, error) {
	line, _ := c.peek()
	heading := strings.TrimSpace(line)
	m := stepHeadingRe.FindStringSubmatch(heading)
	if m == nil {
		return Step{}, false, &ParseError{Kind: ErrUnparsableLine, Line: c.lineNo(), Text: heading}
	}
	// The number in the heading is a view artifact; steps keep encounter order.
	step := Step{Title: strings.TrimSpace(m[2])}
	c.advance()

	c.skipBlank()
	step.Description = parseDescription(c)
	step.Substeps = parseSubsteps(c)
	c.skipBlank()

	if len(step.Substeps) == 0 {
		if line, ok := c.peek(); ok && strings.HasPrefix(strings.TrimSpace(line), LegacyAPIPrefix) {
			step.APIs = parseAPIEntries(line)
			c.advance()
		}
	}
	c.skipBlank()

	keep := step.Description != "" || len(step.Substeps) > 0 || len(step.APIs) > 0
	return step, keep, nil
}

func parseDescription(c *cursor) string {
	var lines []string
	for {
		line, ok := c.peek()
		if !ok {
			break
		}
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			next, decision := c.classifyAfterBlank()
			if decision == blockBoundary {
				c.pos = next
				break
			}
			lines = append(lines, "")
			c.advance()
			continue
		}
		if startsBlock(stripped) {
			break
		}
		lines = append(lines, line)
		c.advance()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func parseSubsteps(c *cursor) []Substep {
	var subs []Substep
	for {
		line, ok := c.peek()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			c.advance()
			continue
		}
		if !strings.HasPrefix(line, BulletPrefix) {
			break
		}
		subs = append(subs, parseSubstep(c))
	}
	return subs
}

func parseSubstep(c *cursor) Substep {
	line, _ := c.peek()
	sub := Substep{Description: strings.TrimSpace(line[len(BulletPrefix):])}
	c.advance()

	for {
		line, ok := c.peek()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			c.advance()
			continue
		}
		if !strings.HasPrefix(line, NestedPrefix) {
			break
		}
		content := strings.TrimSpace(line[len(NestedPrefix):])
		switch {
		case strings.HasPrefix(content, API2Tag):
			sub.API2 = parseAPIEntries(content)
		case strings.HasPrefix(content, API1Tag):
			sub.API1 = parseAPIEntries(content)
		default:
			return sub
		}
		c.advance()
	}
	return sub
}

// startsBlock reports whether a trimmed line opens a block that ends a
// step description.
func startsBlock(stripped string) bool {
	return strings.HasPrefix(stripped, "### "+StepLabel) ||
		strings.HasPrefix(stripped, BulletPrefix) ||
		strings.HasPrefix(stripped, LegacyAPIPrefix)
}

type blankDecision int

const (
	stillDescription blankDecision = iota
	blockBoundary
)

// cursor walks normalised lines: line endings unified, trailing whitespace
// removed, leading whitespace kept for nested bullet detection.
type cursor struct {
	lines []string
	pos   int
}

func newCursor(text string) *cursor {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return &cursor{lines: lines}
}

func (c *cursor) done() bool { return c.pos >= len(c.lines) }

func (c *cursor) peek() (string, bool) {
	if c.done() {
		return "", false
	}
	return c.lines[c.pos], true
}

func (c *cursor) advance() { c.pos++ }

func (c *cursor) lineNo() int { return c.pos + 1 }

func (c *cursor) skipBlank() {
	for !c.done() && strings.TrimSpace(c.lines[c.pos]) == "" {
		c.pos++
	}
}

func (c *cursor) allBlank() bool {
	for _, l := range c.lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// classifyAfterBlank looks past the run of blank lines starting at the
// cursor. The blank run belongs to the description only when more
// description text follows; otherwise it separates blocks. The returned index
// is the first non-blank line (or the end of input).
func (c *cursor) classifyAfterBlank() (int, blankDecision) {
	next := c.pos
	for next < len(c.lines) && strings.TrimSpace(c.lines[next]) == "" {
		next++
	}
	if next >= len(c.lines) || startsBlock(strings.TrimSpace(c.lines[next])) {
		return next, blockBoundary
	}
	return next, stillDescription
}
