package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"proofmd/internal/proof"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS revisions (
			id TEXT PRIMARY KEY,
			theorem_id TEXT NOT NULL,
			format TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS revision_apis (
			revision_id TEXT NOT NULL REFERENCES revisions(id),
			step INTEGER NOT NULL,
			name TEXT NOT NULL,
			points INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_theorem ON revisions(theorem_id);`,
		`CREATE INDEX IF NOT EXISTS idx_revision_apis_name ON revision_apis(name);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRevision(ctx context.Context, rev *Revision) error {
	if rev.TheoremID == "" {
		return errors.New("revision has no theorem_id")
	}
	if rev.Format != FormatJSON && rev.Format != FormatMarkdown {
		return fmt.Errorf("unknown revision format %q", rev.Format)
	}
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO revisions (id, theorem_id, format, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rev.ID, rev.TheoremID, rev.Format, rev.Content, rev.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}

	if len(rev.APIs) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO revision_apis (revision_id, step, name, points) VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, ref := range rev.APIs {
			if _, err := stmt.ExecContext(ctx, rev.ID, ref.Step, ref.Name, ref.Points); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetRevision(ctx context.Context, id string) (*Revision, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, theorem_id, format, content, created_at FROM revisions WHERE id = ?
	`, id)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if rev.APIs, err = s.loadAPIs(ctx, rev.ID); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *SQLiteStore) ListRevisions(ctx context.Context, theoremID string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, theorem_id, format, content, created_at FROM revisions
		WHERE theorem_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, theoremID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		out = append(out, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range out {
		if out[i].APIs, err = s.loadAPIs(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) LatestRevision(ctx context.Context, theoremID string) (*Revision, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM revisions WHERE theorem_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1
	`, theoremID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("theorem %s: %w", theoremID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.GetRevision(ctx, id)
}

func (s *SQLiteStore) FindAPIUsage(ctx context.Context, name string) ([]APIUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.revision_id, r.theorem_id, a.step, a.points
		FROM revision_apis a JOIN revisions r ON r.id = a.revision_id
		WHERE a.name = ?
		ORDER BY r.created_at DESC, r.rowid DESC, a.rowid
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query api usage: %w", err)
	}
	defer rows.Close()

	var out []APIUsage
	for rows.Next() {
		var u APIUsage
		if err := rows.Scan(&u.RevisionID, &u.TheoremID, &u.Step, &u.Points); err != nil {
			return nil, fmt.Errorf("failed to scan api usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadAPIs(ctx context.Context, revisionID string) ([]proof.APIRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, name, points FROM revision_apis WHERE revision_id = ? ORDER BY rowid
	`, revisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query revision apis: %w", err)
	}
	defer rows.Close()

	var refs []proof.APIRef
	for rows.Next() {
		var ref proof.APIRef
		if err := rows.Scan(&ref.Step, &ref.Name, &ref.Points); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(row scanner) (*Revision, error) {
	var rev Revision
	var created int64
	if err := row.Scan(&rev.ID, &rev.TheoremID, &rev.Format, &rev.Content, &created); err != nil {
		return nil, err
	}
	rev.CreatedAt = time.Unix(0, created).UTC()
	return &rev, nil
}

var _ RevisionStore = (*SQLiteStore)(nil)
