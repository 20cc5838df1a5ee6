package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"proofmd/internal/extractor"
	"proofmd/internal/git"
	"proofmd/internal/storage"
)

// AffectedTheorem is a theorem whose latest stored revision cites at least
// one API touched by a change.
type AffectedTheorem struct {
	TheoremID  string   `json:"theorem_id"`
	RevisionID string   `json:"revision_id"`
	APIs       []string `json:"apis"`
}

// ImpactReport summarizes the proofs affected by Lean source changes.
type ImpactReport struct {
	Files    []git.ChangedFile `json:"files"`
	APIs     []string          `json:"apis"`
	Theorems []AffectedTheorem `json:"theorems"`
}

// Analyzer maps source changes onto stored proof revisions.
type Analyzer struct {
	store     storage.RevisionStore
	extractor *extractor.Extractor
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(store storage.RevisionStore, ext *extractor.Extractor) *Analyzer {
	return &Analyzer{store: store, extractor: ext}
}

// AnalyzeImpact extracts the APIs referenced by both sides of every change
// and looks up the theorems whose latest revisions use them.
func (a *Analyzer) AnalyzeImpact(ctx context.Context, root, baseRef string, changes []git.ChangedFile) (*ImpactReport, error) {
	apis, err := a.ChangedAPIs(ctx, root, baseRef, changes)
	if err != nil {
		return nil, err
	}
	theorems, err := a.AffectedTheorems(ctx, apis)
	if err != nil {
		return nil, err
	}
	return &ImpactReport{Files: changes, APIs: apis, Theorems: theorems}, nil
}

// ChangedAPIs returns the sorted union of API names found in the old and new
// content of the changed files.
func (a *Analyzer) ChangedAPIs(ctx context.Context, root, baseRef string, changes []git.ChangedFile) ([]string, error) {
	seen := map[string]bool{}
	collect := func(code string) {
		for _, name := range a.extractor.ExtractFromSource(code) {
			seen[name] = true
		}
	}

	for _, change := range changes {
		if change.Status != git.StatusAdded {
			before, err := git.ShowFile(ctx, root, baseRef, change.OldPath)
			if err != nil {
				return nil, err
			}
			collect(before)
		}
		if change.Status != git.StatusDeleted {
			after, err := os.ReadFile(filepath.Join(root, change.Path))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", change.Path, err)
			}
			collect(string(after))
		}
	}

	apis := make([]string, 0, len(seen))
	for name := range seen {
		apis = append(apis, name)
	}
	sort.Strings(apis)
	return apis, nil
}

// AffectedTheorems looks up every API and keeps the hits that belong to the
// latest revision of their theorem. Older revisions are history only.
func (a *Analyzer) AffectedTheorems(ctx context.Context, apis []string) ([]AffectedTheorem, error) {
	latest := map[string]string{}
	byTheorem := map[string]*AffectedTheorem{}

	for _, name := range apis {
		usage, err := a.store.FindAPIUsage(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, u := range usage {
			revID, ok := latest[u.TheoremID]
			if !ok {
				rev, err := a.store.LatestRevision(ctx, u.TheoremID)
				if err != nil {
					return nil, err
				}
				revID = rev.ID
				latest[u.TheoremID] = revID
			}
			if u.RevisionID != revID {
				continue
			}

			hit, ok := byTheorem[u.TheoremID]
			if !ok {
				hit = &AffectedTheorem{TheoremID: u.TheoremID, RevisionID: revID}
				byTheorem[u.TheoremID] = hit
			}
			if n := len(hit.APIs); n == 0 || hit.APIs[n-1] != name {
				hit.APIs = append(hit.APIs, name)
			}
		}
	}

	out := make([]AffectedTheorem, 0, len(byTheorem))
	for _, hit := range byTheorem {
		out = append(out, *hit)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TheoremID < out[j].TheoremID })
	return out, nil
}
