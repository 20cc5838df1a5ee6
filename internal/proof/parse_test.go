package proof

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "### 定理 100\n" +
	"\n" +
	"存在交换环 $R$ 使得 $\\text{Spec}(R)$ 有限。\n" +
	"\n" +
	"---\n" +
	"\n" +
	"### 证明\n" +
	"\n" +
	"### Step 1: 构造环\n" +
	"\n" +
	"令 $R = \\mathbb{Z}[x_1, x_2, \\ldots]$。\n" +
	"\n" +
	"第二段说明。\n" +
	"\n" +
	"API: `Polynomial`, `MvPolynomial`\n" +
	"\n" +
	"### Step 2\n" +
	"\n" +
	"证明 Spec 只包含零理想。\n" +
	"\n" +
	"- 第一个子步骤\n" +
	"  - API (2分): `PrimeSpectrum`, `Ideal.IsPrime`\n" +
	"  - API (1分): `Ideal`\n" +
	"- 第二个子步骤\n" +
	"  - API (1分): `Ring`\n" +
	"\n"

func TestParse_SampleDocument(t *testing.T) {
	doc, err := Parse(sampleMarkdown)
	require.NoError(t, err)

	assert.Equal(t, "100", doc.TheoremID)
	assert.Equal(t, "存在交换环 $R$ 使得 $\\text{Spec}(R)$ 有限。", doc.Statement)
	require.Len(t, doc.Steps, 2)

	assert.Equal(t, Step{
		Title:       "构造环",
		Description: "令 $R = \\mathbb{Z}[x_1, x_2, \\ldots]$。\n\n第二段说明。",
		APIs:        []string{"Polynomial", "MvPolynomial"},
	}, doc.Steps[0])

	assert.Equal(t, Step{
		Description: "证明 Spec 只包含零理想。",
		Substeps: []Substep{
			{Description: "第一个子步骤", API2: []string{"PrimeSpectrum", "Ideal.IsPrime"}, API1: []string{"Ideal"}},
			{Description: "第二个子步骤", API1: []string{"Ring"}},
		},
	}, doc.Steps[1])
}

func TestParse_NormalizesLineEndingsAndTrailingWhitespace(t *testing.T) {
	text := strings.ReplaceAll(sampleMarkdown, "\n", "  \r\n")
	doc, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 2)
	assert.Equal(t, []string{"Polynomial", "MvPolynomial"}, doc.Steps[0].APIs)
}

func TestParse_AnnotationOrderIndependent(t *testing.T) {
	text := "### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 1\n\n- sub\n  - API (1分): `B`\n  - API (2分): `A`\n"
	doc, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, []Substep{{Description: "sub", API2: []string{"A"}, API1: []string{"B"}}}, doc.Steps[0].Substeps)
	assert.Empty(t, doc.Steps[0].Description)
}

func TestParse_LegacyAPIsWithoutBackquotes(t *testing.T) {
	text := "### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 1\n\nD\n\nAPI: Foo.bar, `Baz , ,\n"
	doc, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.bar", "Baz"}, doc.Steps[0].APIs)
}

func TestParse_DropsStepsWithoutContent(t *testing.T) {
	text := "### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 1: lonely title\n\n### Step 2\n\nD\n"
	doc, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []Step{{Description: "D"}}, doc.Steps)
}

func TestParse_NoSteps(t *testing.T) {
	doc, err := Parse("\n\n### 定理 abc\n\nline one\nline two\n---\n### 证明\n")
	require.NoError(t, err)
	assert.Equal(t, "abc", doc.TheoremID)
	assert.Equal(t, "line one\nline two", doc.Statement)
	assert.NotNil(t, doc.Steps)
	assert.Empty(t, doc.Steps)
}

func TestParse_StepNumbersIgnored(t *testing.T) {
	text := "### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 7\n\nfirst\n\n### Step 3\n\nsecond\n"
	doc, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, doc.Steps, 2)
	assert.Equal(t, "first", doc.Steps[0].Description)
	assert.Equal(t, "second", doc.Steps[1].Description)
}

func TestParse_FailureTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		text string
		kind error
	}{
		{"empty", "", ErrEmptyInput},
		{"blank only", " \n\t\n", ErrEmptyInput},
		{"no theorem heading", "# Title\n\nS\n", ErrMissingTheoremHeading},
		{"no separator", "### 定理 1\n\nS\n\n### 证明\n", ErrMissingSeparator},
		{"no proof heading", "### 定理 1\n\nS\n\n---\n\n### Step 1\n\nD\n", ErrMissingProofHeading},
		{"proof heading missing at end", "### 定理 1\n\nS\n\n---\n\n", ErrMissingProofHeading},
		{"stray line", "### 定理 1\n\nS\n\n---\n\n### 证明\n\nsome prose\n", ErrUnparsableLine},
		{"api after substeps", "### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 1\n\n- sub\n\nAPI: `X`\n", ErrUnparsableLine},
		{"unknown nested bullet", "### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 1\n\n- sub\n  - note\n", ErrUnparsableLine},
	}

	seen := map[error]bool{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse(tc.text)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.NotEmpty(t, pe.Error())
		})
		seen[tc.kind] = true
	}
	assert.Len(t, seen, 5)
}

func TestParseError_CarriesOffendingLine(t *testing.T) {
	_, err := Parse("### 定理 1\n\nS\n\n---\n\n### 证明\n\n### Step 1\n\nD\n\n## Stray\n")
	require.NoError(t, err, "a non-step heading inside a description is description text")

	_, err = Parse("### 定理 1\n\nS\n\n---\n\n### 证明\n\nsome prose\n")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 9, pe.Line)
	assert.Equal(t, "some prose", pe.Text)
	assert.Equal(t, "unparsable line at line 9: 'some prose'", err.Error())
}
