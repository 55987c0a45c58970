package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/model"
)

var templateCols = []string{"id", "document_kind", "filename", "storage_path", "size", "uploaded_at"}

func newTestTemplate() *model.Template {
	return &model.Template{
		ID:           "tmpl-uuid",
		DocumentKind: model.KindBilling,
		Filename:     "invoice.docx",
		StoragePath:  "templates/billing/tmpl-uuid.docx",
		Size:         2048,
		UploadedAt:   time.Now().UTC(),
	}
}

func TestTemplatePostgres_Replace_VacantSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)
	tmpl := newTestTemplate()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT storage_path FROM document_templates").
		WithArgs(tmpl.DocumentKind).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("DELETE FROM document_templates").
		WithArgs(tmpl.DocumentKind).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO document_templates").
		WithArgs(tmpl.ID, tmpl.DocumentKind, tmpl.Filename, tmpl.StoragePath, tmpl.Size, tmpl.UploadedAt).
		WillReturnRows(sqlmock.NewRows(templateCols).
			AddRow(tmpl.ID, tmpl.DocumentKind, tmpl.Filename, tmpl.StoragePath, tmpl.Size, tmpl.UploadedAt))
	mock.ExpectCommit()

	stored, displaced, err := repo.Replace(context.Background(), tmpl)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, tmpl.ID, stored.ID)
	assert.Empty(t, displaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_Replace_DisplacesPrevious(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)
	tmpl := newTestTemplate()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT storage_path FROM document_templates").
		WithArgs(tmpl.DocumentKind).
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("templates/billing/old.docx"))
	mock.ExpectExec("DELETE FROM document_templates").
		WithArgs(tmpl.DocumentKind).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO document_templates").
		WithArgs(tmpl.ID, tmpl.DocumentKind, tmpl.Filename, tmpl.StoragePath, tmpl.Size, tmpl.UploadedAt).
		WillReturnRows(sqlmock.NewRows(templateCols).
			AddRow(tmpl.ID, tmpl.DocumentKind, tmpl.Filename, tmpl.StoragePath, tmpl.Size, tmpl.UploadedAt))
	mock.ExpectCommit()

	_, displaced, err := repo.Replace(context.Background(), tmpl)

	assert.NoError(t, err)
	assert.Equal(t, "templates/billing/old.docx", displaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_Replace_InsertErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)
	tmpl := newTestTemplate()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT storage_path FROM document_templates").
		WithArgs(tmpl.DocumentKind).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("DELETE FROM document_templates").
		WithArgs(tmpl.DocumentKind).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO document_templates").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, _, err = repo.Replace(context.Background(), tmpl)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_FindByKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)
	tmpl := newTestTemplate()

	mock.ExpectQuery("SELECT (.+) FROM document_templates WHERE document_kind").
		WithArgs(model.KindBilling).
		WillReturnRows(sqlmock.NewRows(templateCols).
			AddRow(tmpl.ID, tmpl.DocumentKind, tmpl.Filename, tmpl.StoragePath, tmpl.Size, tmpl.UploadedAt))

	found, err := repo.FindByKind(context.Background(), model.KindBilling)

	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tmpl.StoragePath, found.StoragePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_FindByKind_NoSlot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM document_templates WHERE document_kind").
		WithArgs(model.KindProposal).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByKind(context.Background(), model.KindProposal)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)
	tmpl := newTestTemplate()

	mock.ExpectQuery("SELECT (.+) FROM document_templates ORDER BY document_kind").
		WillReturnRows(sqlmock.NewRows(templateCols).
			AddRow(tmpl.ID, tmpl.DocumentKind, tmpl.Filename, tmpl.StoragePath, tmpl.Size, tmpl.UploadedAt))

	items, err := repo.List(context.Background())

	assert.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.KindBilling, items[0].DocumentKind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_DeleteByKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectQuery("DELETE FROM document_templates WHERE document_kind").
		WithArgs(model.KindBilling).
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("templates/billing/old.docx"))

	displaced, err := repo.DeleteByKind(context.Background(), model.KindBilling)

	assert.NoError(t, err)
	assert.Equal(t, "templates/billing/old.docx", displaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_DeleteByKind_Vacant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectQuery("DELETE FROM document_templates WHERE document_kind").
		WithArgs(model.KindProposal).
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}))

	displaced, err := repo.DeleteByKind(context.Background(), model.KindProposal)

	assert.NoError(t, err)
	assert.Empty(t, displaced)
	assert.NoError(t, mock.ExpectationsWereMet())
}
