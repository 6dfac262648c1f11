package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"file-drive/internal/domain/file"
	apperrors "file-drive/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var folderRowColumns = []string{"id", "name", "owner_id", "parent_id", "created_at"}

const (
	parentLookupQuery = `SELECT id FROM folders\s+WHERE id = \$1 AND owner_id = \$2\s+FOR SHARE`
	folderLockQuery   = `FROM folders\s+WHERE id = \$1 AND owner_id = \$2\s+FOR UPDATE`
	folderNameQuery   = `SELECT EXISTS \(\s+SELECT 1 FROM folders`
)

func TestFolderRepository_ListRoot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE owner_id = \$1 AND parent_id IS NULL\s+ORDER BY name ASC`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(folderRowColumns).
			AddRow(a.String(), "Docs", owner.String(), nil, testNow).
			AddRow(b.String(), "Music", owner.String(), nil, testNow))

	folders, err := repo.ListRoot(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Docs", folders[0].Name)
	assert.True(t, folders[0].IsRoot())
	assert.Equal(t, b, folders[1].ID)
}

func TestFolderRepository_ListChildrenEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, parent := uuid.New(), uuid.New()

	mock.ExpectQuery(`WHERE parent_id = \$1 AND owner_id = \$2`).
		WithArgs(parent, owner).
		WillReturnRows(sqlmock.NewRows(folderRowColumns))

	folders, err := repo.ListChildren(context.Background(), parent, owner)
	require.NoError(t, err)
	assert.NotNil(t, folders)
	assert.Empty(t, folders)
}

func TestFolderRepository_GetWithParent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id, parent := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`LEFT JOIN folders p ON p.id = f.parent_id AND p.owner_id = f.owner_id`).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "owner_id", "parent_id", "created_at",
			"p_id", "p_name", "p_parent_id", "p_created_at",
		}).AddRow(id.String(), "2024", owner.String(), parent.String(), testNow,
			parent.String(), "Docs", nil, testNow))

	f, err := repo.Get(context.Background(), id, owner)
	require.NoError(t, err)
	require.NotNil(t, f.ParentID)
	assert.Equal(t, parent, *f.ParentID)
	require.NotNil(t, f.Parent)
	assert.Equal(t, "Docs", f.Parent.Name)
	assert.True(t, f.Parent.IsRoot())
}

func TestFolderRepository_GetOtherOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	intruder, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM folders f`).
		WithArgs(id, intruder).
		WillReturnError(sql.ErrNoRows)

	f, err := repo.Get(context.Background(), id, intruder)
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestFolderRepository_ListAncestors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, root, mid, leaf := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`WITH RECURSIVE chain AS`).
		WithArgs(leaf, owner).
		WillReturnRows(sqlmock.NewRows(folderRowColumns).
			AddRow(root.String(), "Docs", owner.String(), nil, testNow).
			AddRow(mid.String(), "2024", owner.String(), root.String(), testNow))

	chain, err := repo.ListAncestors(context.Background(), leaf, owner)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, root, chain[0].ID)
	assert.Equal(t, root, *chain[1].ParentID)
}

func TestFolderRepository_CreateRoot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderNameQuery).
		WithArgs(owner, nil, "Docs", uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO folders \(name, owner_id, parent_id\)`).
		WithArgs("Docs", owner, nil).
		WillReturnRows(sqlmock.NewRows(folderRowColumns).AddRow(id.String(), "Docs", owner.String(), nil, testNow))
	mock.ExpectCommit()

	f, err := repo.Create(context.Background(), file.CreateFolderInput{Name: "  Docs ", OwnerID: owner})
	require.NoError(t, err)
	assert.Equal(t, id, f.ID)
	assert.Equal(t, "Docs", f.Name)
	assert.Nil(t, f.ParentID)
}

func TestFolderRepository_CreateDuplicateRoot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderNameQuery).
		WithArgs(owner, nil, "Docs", uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	f, err := repo.Create(context.Background(), file.CreateFolderInput{Name: "Docs", OwnerID: owner})
	assert.Nil(t, f)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
}

func TestFolderRepository_CreateChild(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, parent, id := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(parentLookupQuery).
		WithArgs(parent, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(parent.String()))
	mock.ExpectQuery(folderNameQuery).
		WithArgs(owner, parent, "2024", uuid.Nil).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO folders`).
		WithArgs("2024", owner, parent).
		WillReturnRows(sqlmock.NewRows(folderRowColumns).AddRow(id.String(), "2024", owner.String(), parent.String(), testNow))
	mock.ExpectCommit()

	f, err := repo.Create(context.Background(), file.CreateFolderInput{Name: "2024", OwnerID: owner, ParentID: &parent})
	require.NoError(t, err)
	require.NotNil(t, f.ParentID)
	assert.Equal(t, parent, *f.ParentID)
}

func TestFolderRepository_CreateParentOfOtherOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	intruder, parent := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(parentLookupQuery).
		WithArgs(parent, intruder).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), file.CreateFolderInput{Name: "x", OwnerID: intruder, ParentID: &parent})
	assert.ErrorIs(t, err, apperrors.ErrParentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFolderRepository_CreateRaceLosesToIndex(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderNameQuery).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO folders`).WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), file.CreateFolderInput{Name: "Docs", OwnerID: owner})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
}

func TestFolderRepository_CreateInvalidName(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewFolderRepository(db)

	for _, name := range []string{"", "   ", "tab\there"} {
		_, err := repo.Create(context.Background(), file.CreateFolderInput{Name: name, OwnerID: uuid.New()})
		assert.ErrorIs(t, err, apperrors.ErrValidation, name)
	}
}

func TestFolderRepository_RenameToSameName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT parent_id ` + folderLockQuery).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"parent_id"}).AddRow(nil))
	mock.ExpectQuery(folderNameQuery).
		WithArgs(owner, nil, "Docs", id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`UPDATE folders SET name = \$1`).
		WithArgs("Docs", id, owner).
		WillReturnRows(sqlmock.NewRows(folderRowColumns).AddRow(id.String(), "Docs", owner.String(), nil, testNow))
	mock.ExpectCommit()

	f, err := repo.Rename(context.Background(), id, owner, "Docs")
	require.NoError(t, err)
	assert.Equal(t, "Docs", f.Name)
}

func TestFolderRepository_RenameCollision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id, parent := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderLockQuery).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"parent_id"}).AddRow(parent.String()))
	mock.ExpectQuery(folderNameQuery).
		WithArgs(owner, parent, "Taken", id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Rename(context.Background(), id, owner, "Taken")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
}

func TestFolderRepository_RenameMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderLockQuery).WithArgs(id, owner).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Rename(context.Background(), id, owner, "New")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFolderRepository_DeleteWithChildren(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id ` + folderLockQuery).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM folders WHERE parent_id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id, owner)
	assert.ErrorIs(t, err, apperrors.ErrHasChildren)
}

func TestFolderRepository_DeleteEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderLockQuery).
		WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM folders WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), id, owner))
}

func TestFolderRepository_DeleteChildAddedConcurrently(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderLockQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM folders`).WillReturnError(foreignViolation)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id, owner)
	assert.ErrorIs(t, err, apperrors.ErrHasChildren)
}

func TestFolderRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)
	owner, id := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(folderLockQuery).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), id, owner)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFolderRepository_BeginFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFolderRepository(db)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorContains(t, err, "failed to start transaction: pool exhausted")
}
