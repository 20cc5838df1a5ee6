package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameStatus(t *testing.T) {
	output := []byte("M\tProofs/Basic.lean\nA\tProofs/New.lean\nD\tOld.lean\nR087\tProofs/A.lean\tProofs/B.lean\n\n")

	changes, err := parseNameStatus(output)
	require.NoError(t, err)
	assert.Equal(t, []ChangedFile{
		{Path: "Proofs/Basic.lean", OldPath: "Proofs/Basic.lean", Status: StatusModified},
		{Path: "Proofs/New.lean", OldPath: "Proofs/New.lean", Status: StatusAdded},
		{Path: "Old.lean", OldPath: "Old.lean", Status: StatusDeleted},
		{Path: "Proofs/B.lean", OldPath: "Proofs/A.lean", Status: StatusRenamed},
	}, changes)
}

func TestParseNameStatus_Malformed(t *testing.T) {
	_, err := parseNameStatus([]byte("garbage\n"))
	require.Error(t, err)
}

func TestParseNameStatus_Empty(t *testing.T) {
	changes, err := parseNameStatus(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir, "-c", "user.email=test@example.com", "-c", "user.name=test", "-c", "commit.gpgsign=false"}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestGetChangedFiles_WorkspaceSubdirectory(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo := t.TempDir()
	workspace := filepath.Join(repo, "proofs")
	require.NoError(t, os.MkdirAll(workspace, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "Basic.lean"), []byte("old\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "Outside.lean"), []byte("x\n"), 0644))

	runGit(t, repo, "init", "-q")
	runGit(t, repo, "add", ".")
	runGit(t, repo, "commit", "-q", "-m", "init")

	require.NoError(t, os.WriteFile(filepath.Join(workspace, "Basic.lean"), []byte("new\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "Outside.lean"), []byte("y\n"), 0644))

	ctx := context.Background()
	changes, err := GetChangedFiles(ctx, workspace, "HEAD", ".lean")
	require.NoError(t, err)
	assert.Equal(t, []ChangedFile{{Path: "Basic.lean", OldPath: "Basic.lean", Status: StatusModified}}, changes)

	before, err := ShowFile(ctx, workspace, "HEAD", changes[0].OldPath)
	require.NoError(t, err)
	assert.Equal(t, "old\n", before)

	after, err := os.ReadFile(filepath.Join(workspace, changes[0].Path))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(after))
}
