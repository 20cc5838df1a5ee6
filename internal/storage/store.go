package storage

import (
	"context"
	"errors"
	"time"

	"proofmd/internal/proof"
)

// ErrNotFound is returned when a lookup matches no stored revision.
var ErrNotFound = errors.New("not found")

// Revision formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Revision is one saved snapshot of a proof. Revisions are append-only: a
// save never overwrites an earlier snapshot.
type Revision struct {
	ID        string         `json:"id"`
	TheoremID string         `json:"theorem_id"`
	Format    string         `json:"format"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	APIs      []proof.APIRef `json:"apis,omitempty"`
}

// APIUsage is one revision that references a given API.
type APIUsage struct {
	RevisionID string `json:"revision_id"`
	TheoremID  string `json:"theorem_id"`
	Step       int    `json:"step"`
	Points     int    `json:"points"`
}

// RevisionStore persists proof revisions.
type RevisionStore interface {
	// SaveRevision stores a new revision, assigning ID and CreatedAt when unset.
	SaveRevision(ctx context.Context, rev *Revision) error

	// GetRevision retrieves a revision by its ID.
	GetRevision(ctx context.Context, id string) (*Revision, error)

	// ListRevisions returns every revision of a theorem, newest first.
	ListRevisions(ctx context.Context, theoremID string) ([]Revision, error)

	// LatestRevision returns the newest revision of a theorem.
	LatestRevision(ctx context.Context, theoremID string) (*Revision, error)

	// FindAPIUsage lists the revisions that reference an API name.
	FindAPIUsage(ctx context.Context, name string) ([]APIUsage, error)

	Close() error
}
