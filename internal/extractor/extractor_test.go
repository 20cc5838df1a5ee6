package extractor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractFromFile(t *testing.T) {
	ext, err := NewExtractor("lean")
	require.NoError(t, err)

	apis, err := ext.ExtractFromFile(filepath.Join("testdata", "sample.lean"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Finset.sum_comm", "Nat.succ_pos", "add_comm_aux"}, apis)
}

func TestExtractor_MissingFile(t *testing.T) {
	ext, err := NewExtractor("lean")
	require.NoError(t, err)

	_, err = ext.ExtractFromFile(filepath.Join("testdata", "absent.lean"))
	require.Error(t, err)
}

func TestNewExtractor_UnsupportedLanguage(t *testing.T) {
	_, err := NewExtractor("coq")
	require.Error(t, err)
}

func TestExtractor_Handles(t *testing.T) {
	ext, err := NewExtractor("lean")
	require.NoError(t, err)
	assert.True(t, ext.Handles("Proof.lean"))
	assert.False(t, ext.Handles("proof.md"))
}

func TestLeanExtractor_RestoresOpenedNamespace(t *testing.T) {
	code := "open Polynomial\n\nexample : True := eval_zero_aux\n"
	assert.Equal(t, []string{"Polynomial.eval_zero_aux"}, NewLeanExtractor().ExtractNames(code))
}

func TestLeanExtractor_Filters(t *testing.T) {
	code := `import Mathlib.Tactic.Ring
example : True := by
  simp [Ring.mul_comm]
  push_neg at h_one
  exact Ideal.IsPrime.mpr foo.isPrime
  exact Nat.lt_irrefl.2
`
	assert.Equal(t, []string{"Ideal.IsPrime", "Nat.lt_irrefl"}, NewLeanExtractor().ExtractNames(code))
}

func TestLeanExtractor_SortedAndDeduplicated(t *testing.T) {
	code := "example := Zeta.add_aux\nexample := Alpha.mul_aux\nexample := Zeta.add_aux\n"
	assert.Equal(t, []string{"Alpha.mul_aux", "Zeta.add_aux"}, NewLeanExtractor().ExtractNames(code))
}

func TestLeanExtractor_EmptySource(t *testing.T) {
	assert.Empty(t, NewLeanExtractor().ExtractNames(""))
}
