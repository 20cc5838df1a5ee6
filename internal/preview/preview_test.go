package preview

import (
	"testing"

	"proofmd/internal/proof"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_HTMLFromCanonicalMarkdown(t *testing.T) {
	md := proof.RenderDocument(&proof.Document{
		TheoremID: "1",
		Statement: "S",
		Steps: []proof.Step{
			{Title: "Setup", Description: "D", Substeps: []proof.Substep{{Description: "sub", API2: []string{"Foo.bar"}}}},
		},
	})

	out, err := NewRenderer(false).HTML(md)
	require.NoError(t, err)
	assert.Contains(t, out, "<h3")
	assert.Contains(t, out, "Step 1: Setup</h3>")
	assert.Contains(t, out, "<hr>")
	assert.Contains(t, out, "<li>sub")
	assert.Contains(t, out, "<code>Foo.bar</code>")
}

func TestRenderer_EscapesRawHTMLByDefault(t *testing.T) {
	out, err := NewRenderer(false).HTML("<script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	out, err = NewRenderer(true).HTML("<b>bold</b>\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>bold</b>")
}
