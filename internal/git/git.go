package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Change statuses reported by git diff --name-status.
const (
	StatusAdded    = "A"
	StatusModified = "M"
	StatusDeleted  = "D"
	StatusRenamed  = "R"
)

type ChangedFile struct {
	Path    string
	OldPath string // set for renames; equal to Path otherwise
	Status  string
}

// GetChangedFiles runs git diff in dir and returns the files changed since
// baseRef, restricted to paths ending in one of suffixes when any are given.
// Only changes under dir are reported, with paths relative to dir.
func GetChangedFiles(ctx context.Context, dir, baseRef string, suffixes ...string) ([]ChangedFile, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "diff", "--relative", "--name-status", "-M", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	changes, err := parseNameStatus(output)
	if err != nil {
		return nil, err
	}
	if len(suffixes) == 0 {
		return changes, nil
	}

	filtered := changes[:0]
	for _, c := range changes {
		for _, suffix := range suffixes {
			if strings.HasSuffix(c.Path, suffix) || strings.HasSuffix(c.OldPath, suffix) {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered, nil
}

// ShowFile returns the content of path, relative to dir, as of ref.
func ShowFile(ctx context.Context, dir, ref, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "show", ref+":./"+path)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git show %s:%s failed: %w", ref, path, err)
	}
	return string(output), nil
}

func parseNameStatus(output []byte) ([]ChangedFile, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	var changes []ChangedFile

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		// <status>\t<path> or R<score>\t<old>\t<new>
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			return nil, fmt.Errorf("unexpected git diff line: %q", line)
		}
		status := fields[0][:1]

		change := ChangedFile{Path: fields[1], OldPath: fields[1], Status: status}
		if (status == StatusRenamed || status == "C") && len(fields) >= 3 {
			change.Path = fields[2]
		}
		changes = append(changes, change)
	}

	return changes, scanner.Err()
}
