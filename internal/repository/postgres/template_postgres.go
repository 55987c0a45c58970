package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docgen/internal/model"
	"docgen/internal/repository"
)

// TemplatePostgres is a PostgreSQL implementation of repository.TemplateRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type TemplatePostgres struct {
	db *sql.DB
}

// NewTemplatePostgres creates a new TemplatePostgres repository.
func NewTemplatePostgres(db *sql.DB) *TemplatePostgres {
	return &TemplatePostgres{db: db}
}

var _ repository.TemplateRepository = (*TemplatePostgres)(nil)

const templateColumns = `id, document_kind, filename, storage_path, size, uploaded_at`

// Replace discards the previous slot for the kind and inserts the new one in
// a single transaction, so a racing render observes either the old or the
// new slot atomically, never a half-written one.
func (r *TemplatePostgres) Replace(ctx context.Context, t *model.Template) (*model.Template, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	var displaced string
	err = tx.QueryRowContext(ctx,
		`SELECT storage_path FROM document_templates WHERE document_kind = $1`,
		t.DocumentKind,
	).Scan(&displaced)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_templates WHERE document_kind = $1`,
		t.DocumentKind,
	); err != nil {
		return nil, "", err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO document_templates (id, document_kind, filename, storage_path, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+templateColumns,
		t.ID, t.DocumentKind, t.Filename, t.StoragePath, t.Size, t.UploadedAt,
	)
	stored, err := scanTemplate(row)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("commit replace: %w", err)
	}
	return stored, displaced, nil
}

// FindByKind fetches the current slot for a document kind.
func (r *TemplatePostgres) FindByKind(ctx context.Context, kind model.DocumentKind) (*model.Template, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM document_templates WHERE document_kind = $1`,
		kind,
	)
	return scanTemplate(row)
}

// List returns every configured slot ordered by kind.
func (r *TemplatePostgres) List(ctx context.Context) ([]model.Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM document_templates ORDER BY document_kind`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Template, 0)
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.DocumentKind, &t.Filename, &t.StoragePath, &t.Size, &t.UploadedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByKind clears a slot. A vacant slot is not an error.
func (r *TemplatePostgres) DeleteByKind(ctx context.Context, kind model.DocumentKind) (string, error) {
	var displaced string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM document_templates WHERE document_kind = $1 RETURNING storage_path`,
		kind,
	).Scan(&displaced)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return displaced, nil
}

func scanTemplate(row *sql.Row) (*model.Template, error) {
	var t model.Template
	if err := row.Scan(&t.ID, &t.DocumentKind, &t.Filename, &t.StoragePath, &t.Size, &t.UploadedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
