package postgres

import (
	"context"
	"database/sql"
	"testing"

	"file-drive/internal/domain/file"
	apperrors "file-drive/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fileRowColumns = []string{"id", "owner_id", "folder_id", "original_name", "key", "mime_type", "size_bytes", "ext", "created_at"}

const (
	fileFolderQuery = `SELECT id FROM folders\s+WHERE id = \$1 AND owner_id = \$2\s+FOR SHARE`
	fileNameQuery   = `SELECT EXISTS \(\s+SELECT 1 FROM files`
)

func validFileInput(owner, folder uuid.UUID) file.CreateFileInput {
	return file.CreateFileInput{
		OwnerID:      owner,
		FolderID:     folder,
		OriginalName: "report.pdf",
		Key:          "6f1c0a.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    2048,
		Ext:          ".pdf",
	}
}

func TestFileRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder, id := uuid.New(), uuid.New(), uuid.New()
	input := validFileInput(owner, folder)

	mock.ExpectBegin()
	mock.ExpectQuery(fileFolderQuery).
		WithArgs(folder, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(folder.String()))
	mock.ExpectQuery(fileNameQuery).
		WithArgs(folder, "report.pdf", uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO files`).
		WithArgs(owner, folder, "report.pdf", "6f1c0a.pdf", "application/pdf", int64(2048), ".pdf").
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(id.String(), owner.String(), folder.String(), "report.pdf", "6f1c0a.pdf", "application/pdf", 2048, ".pdf", testNow))
	mock.ExpectCommit()

	f, err := repo.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, id, f.ID)
	assert.Equal(t, "6f1c0a.pdf", f.Key)
	assert.NotEqual(t, f.OriginalName, f.Key)
	assert.Equal(t, int64(2048), f.SizeBytes)
}

func TestFileRepository_CreateDefaultsMimeType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder := uuid.New(), uuid.New()
	input := validFileInput(owner, folder)
	input.MimeType = ""

	mock.ExpectBegin()
	mock.ExpectQuery(fileFolderQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(folder.String()))
	mock.ExpectQuery(fileNameQuery).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO files`).
		WithArgs(owner, folder, "report.pdf", "6f1c0a.pdf", file.DefaultMimeType, int64(2048), ".pdf").
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(uuid.NewString(), owner.String(), folder.String(), "report.pdf", "6f1c0a.pdf", file.DefaultMimeType, 2048, ".pdf", testNow))
	mock.ExpectCommit()

	f, err := repo.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, file.DefaultMimeType, f.MimeType)
}

func TestFileRepository_CreateMissingFields(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder := uuid.New(), uuid.New()

	cases := map[string]func(*file.CreateFileInput){
		"no owner":  func(in *file.CreateFileInput) { in.OwnerID = uuid.Nil },
		"no folder": func(in *file.CreateFileInput) { in.FolderID = uuid.Nil },
		"no name":   func(in *file.CreateFileInput) { in.OriginalName = " " },
		"no key":    func(in *file.CreateFileInput) { in.Key = "" },
		"negative":  func(in *file.CreateFileInput) { in.SizeBytes = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validFileInput(owner, folder)
			mutate(&input)

			_, err := repo.Create(context.Background(), input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestFileRepository_CreateFolderOfOtherOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	intruder, folder := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(fileFolderQuery).
		WithArgs(folder, intruder).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), validFileInput(intruder, folder))
	assert.ErrorIs(t, err, apperrors.ErrFolderNotFound)
}

func TestFileRepository_CreateDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(fileFolderQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(folder.String()))
	mock.ExpectQuery(fileNameQuery).
		WithArgs(folder, "report.pdf", uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), validFileInput(owner, folder))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
}

func TestFileRepository_Rename(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT folder_id FROM files\s+WHERE id = \$1 AND owner_id = \$2\s+FOR UPDATE`).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"folder_id"}).AddRow(folder.String()))
	mock.ExpectQuery(fileNameQuery).
		WithArgs(folder, "final.pdf", id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`UPDATE files SET original_name = \$1`).
		WithArgs("final.pdf", id, owner).
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(id.String(), owner.String(), folder.String(), "final.pdf", "k.pdf", "application/pdf", 10, ".pdf", testNow))
	mock.ExpectCommit()

	f, err := repo.Rename(context.Background(), id, owner, " final.pdf ")
	require.NoError(t, err)
	assert.Equal(t, "final.pdf", f.OriginalName)
	assert.Equal(t, "k.pdf", f.Key)
}

func TestFileRepository_RenameCollision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT folder_id FROM files`).
		WillReturnRows(sqlmock.NewRows([]string{"folder_id"}).AddRow(folder.String()))
	mock.ExpectQuery(fileNameQuery).
		WithArgs(folder, "taken.txt", id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Rename(context.Background(), id, owner, "taken.txt")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
}

func TestFileRepository_RenameMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT folder_id FROM files`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Rename(context.Background(), uuid.New(), uuid.New(), "x.txt")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFileRepository_RenameEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewFileRepository(db)

	_, err := repo.Rename(context.Background(), uuid.New(), uuid.New(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestFileRepository_ListInFolder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM files\s+WHERE folder_id = \$1 AND owner_id = \$2\s+ORDER BY original_name ASC`).
		WithArgs(folder, owner).
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(uuid.NewString(), owner.String(), folder.String(), "a.txt", "k1.txt", "text/plain", 1, ".txt", testNow).
			AddRow(uuid.NewString(), owner.String(), folder.String(), "b.txt", "k2.txt", "text/plain", 2, ".txt", testNow))

	files, err := repo.ListInFolder(context.Background(), folder, owner)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].OriginalName)
	assert.Equal(t, "b.txt", files[1].OriginalName)
}

func TestFileRepository_GetMeta(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT id, folder_id, key, original_name`).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id", "folder_id", "key", "original_name"}).
			AddRow(id.String(), folder.String(), "k.pdf", "report.pdf"))
	mock.ExpectQuery(`SELECT id, folder_id, key, original_name`).
		WithArgs(id, uuid.Nil).
		WillReturnError(sql.ErrNoRows)

	meta, err := repo.GetMeta(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, folder, meta.FolderID)
	assert.Equal(t, "k.pdf", meta.Key)

	meta, err = repo.GetMeta(context.Background(), id, uuid.Nil)
	assert.NoError(t, err)
	assert.Nil(t, meta)
}

func TestFileRepository_GetDetails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	owner, folder, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`JOIN folders d ON d.id = f.folder_id`).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, fileRowColumns...), "folder_ref_id", "folder_ref_name")).
			AddRow(id.String(), owner.String(), folder.String(), "report.pdf", "k.pdf", "application/pdf", 2048, ".pdf", testNow,
				folder.String(), "2024"))

	d, err := repo.GetDetails(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", d.OriginalName)
	assert.Equal(t, file.FolderRef{ID: folder, Name: "2024"}, d.Folder)
}

func TestFileRepository_DeleteRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFileRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM files WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteRecord(context.Background(), id))
}
