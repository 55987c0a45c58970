package repository

import (
	"context"

	"docgen/internal/model"
)

// TemplateRepository defines data access for template slots using SQL only.
// No business logic here, strictly persistence operations.
type TemplateRepository interface {
	// Replace atomically discards any existing slot for the template's kind
	// (delete-then-insert, last-write-wins) and stores the new one. It
	// returns the stored template plus the storage path of the displaced
	// slot, empty when the slot was vacant.
	Replace(ctx context.Context, t *model.Template) (*model.Template, string, error)

	// FindByKind returns the current slot for a document kind.
	// Returns sql.ErrNoRows when no slot is configured.
	FindByKind(ctx context.Context, kind model.DocumentKind) (*model.Template, error)

	// List returns every configured slot (at most one per kind).
	List(ctx context.Context) ([]model.Template, error)

	// DeleteByKind clears a slot and returns the displaced storage path,
	// empty when the slot was already vacant.
	DeleteByKind(ctx context.Context, kind model.DocumentKind) (string, error)
}
