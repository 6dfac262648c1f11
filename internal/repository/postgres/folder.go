package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"file-drive/internal/domain/file"
	apperrors "file-drive/pkg/errors"
	"file-drive/pkg/validator"

	"github.com/google/uuid"
)

const folderColumns = `id, name, owner_id, parent_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) ListRoot(ctx context.Context, ownerID uuid.UUID) ([]*file.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND parent_id IS NULL
		ORDER BY name ASC
	`

	return r.list(ctx, query, ownerID)
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID, ownerID uuid.UUID) ([]*file.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE parent_id = $1 AND owner_id = $2
		ORDER BY name ASC
	`

	return r.list(ctx, query, parentID, ownerID)
}

// Get returns the folder with its immediate parent joined in for breadcrumbs.
func (r *FolderRepository) Get(ctx context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error) {
	query := `
		SELECT f.id, f.name, f.owner_id, f.parent_id, f.created_at,
		       p.id, p.name, p.parent_id, p.created_at
		FROM folders f
		LEFT JOIN folders p ON p.id = f.parent_id AND p.owner_id = f.owner_id
		WHERE f.id = $1 AND f.owner_id = $2
	`

	var (
		f          file.Folder
		parentID   uuid.NullUUID
		pID        uuid.NullUUID
		pName      sql.NullString
		pParentID  uuid.NullUUID
		pCreatedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, folderID, ownerID).Scan(
		&f.ID,
		&f.Name,
		&f.OwnerID,
		&parentID,
		&f.CreatedAt,
		&pID,
		&pName,
		&pParentID,
		&pCreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errFailedGetFolder(err)
	}

	f.ParentID = idPtr(parentID)
	if pID.Valid {
		f.Parent = &file.Folder{
			ID:        pID.UUID,
			Name:      pName.String,
			OwnerID:   f.OwnerID,
			ParentID:  idPtr(pParentID),
			CreatedAt: pCreatedAt.Time,
		}
	}

	return &f, nil
}

// ListAncestors returns the chain above folderID, root first. The folder
// itself is not included.
func (r *FolderRepository) ListAncestors(ctx context.Context, folderID, ownerID uuid.UUID) ([]*file.Folder, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT ` + folderColumns + `, 0 AS depth
			FROM folders
			WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT p.id, p.name, p.owner_id, p.parent_id, p.created_at, c.depth + 1
			FROM folders p
			JOIN chain c ON p.id = c.parent_id
			WHERE p.owner_id = $2
		)
		SELECT ` + folderColumns + `
		FROM chain
		WHERE depth > 0
		ORDER BY depth DESC
	`

	rows, err := r.db.QueryContext(ctx, query, folderID, ownerID)
	if err != nil {
		return nil, errFailedListAncestors(err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// Create checks the parent and sibling names and inserts in one transaction.
// The partial unique indexes on folders back the check under concurrency.
func (r *FolderRepository) Create(ctx context.Context, input file.CreateFolderInput) (*file.Folder, error) {
	name, err := normalizeFolderName(input.Name)
	if err != nil {
		return nil, err
	}

	var created *file.Folder
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		if input.ParentID != nil {
			var id uuid.UUID
			err := tx.QueryRowContext(ctx, `
				SELECT id FROM folders
				WHERE id = $1 AND owner_id = $2
				FOR SHARE
			`, *input.ParentID, input.OwnerID).Scan(&id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperrors.ParentNotFound(msgParentNotFound)
				}
				return errFailedGetFolder(err)
			}
		}

		taken, err := folderNameTaken(ctx, tx, input.OwnerID, input.ParentID, name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return duplicateFolderName(input.ParentID)
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO folders (name, owner_id, parent_id)
			VALUES ($1, $2, $3)
			RETURNING `+folderColumns,
			name, input.OwnerID, nullableID(input.ParentID),
		)
		f, err := scanFolder(row)
		if err != nil {
			if isUniqueViolation(err) {
				return duplicateFolderName(input.ParentID)
			}
			return errFailedCreateFolder(err)
		}

		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Rename keeps the folder under its current parent. Renaming to the current
// name is a no-op rather than a conflict.
func (r *FolderRepository) Rename(ctx context.Context, folderID, ownerID uuid.UUID, newName string) (*file.Folder, error) {
	name, err := normalizeFolderName(newName)
	if err != nil {
		return nil, err
	}

	var renamed *file.Folder
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		var parentID uuid.NullUUID
		err := tx.QueryRowContext(ctx, `
			SELECT parent_id FROM folders
			WHERE id = $1 AND owner_id = $2
			FOR UPDATE
		`, folderID, ownerID).Scan(&parentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound(msgFolderNotFound)
			}
			return errFailedGetFolder(err)
		}

		taken, err := folderNameTaken(ctx, tx, ownerID, idPtr(parentID), name, folderID)
		if err != nil {
			return err
		}
		if taken {
			return duplicateFolderName(idPtr(parentID))
		}

		row := tx.QueryRowContext(ctx, `
			UPDATE folders SET name = $1
			WHERE id = $2 AND owner_id = $3
			RETURNING `+folderColumns,
			name, folderID, ownerID,
		)
		f, err := scanFolder(row)
		if err != nil {
			if isUniqueViolation(err) {
				return duplicateFolderName(idPtr(parentID))
			}
			return errFailedRenameFolder(err)
		}

		renamed = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return renamed, nil
}

// Delete refuses folders that still have subfolders. File rows go with the
// folder through ON DELETE CASCADE; their blobs are the caller's concern.
func (r *FolderRepository) Delete(ctx context.Context, folderID, ownerID uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM folders
			WHERE id = $1 AND owner_id = $2
			FOR UPDATE
		`, folderID, ownerID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound(msgFolderNotFound)
			}
			return errFailedGetFolder(err)
		}

		var children int
		err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders WHERE parent_id = $1`, folderID).Scan(&children)
		if err != nil {
			return errFailedCountChildren(err)
		}
		if children > 0 {
			return apperrors.HasChildren(msgFolderHasSubfolders)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM folders WHERE id = $1 AND owner_id = $2`, folderID, ownerID)
		if err != nil {
			// A subfolder created after the count still trips the RESTRICT key.
			if isForeignKeyViolation(err) {
				return apperrors.HasChildren(msgFolderHasSubfolders)
			}
			return errFailedDeleteFolder(err)
		}

		return nil
	})
}

func (r *FolderRepository) list(ctx context.Context, query string, args ...any) ([]*file.Folder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errFailedListFolders(err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

func folderNameTaken(ctx context.Context, q querier, ownerID uuid.UUID, parentID *uuid.UUID, name string, exceptID uuid.UUID) (bool, error) {
	var taken bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM folders
			WHERE owner_id = $1
			  AND parent_id IS NOT DISTINCT FROM $2
			  AND name = $3
			  AND id <> $4
		)
	`, ownerID, nullableID(parentID), name, exceptID).Scan(&taken)
	if err != nil {
		return false, errFailedCheckFolderName(err)
	}
	return taken, nil
}

func duplicateFolderName(parentID *uuid.UUID) error {
	if parentID == nil {
		return apperrors.DuplicateName(msgRootFolderExists)
	}
	return apperrors.DuplicateName(msgFolderExists)
}

func normalizeFolderName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperrors.Validation(msgFolderNameRequired)
	}
	if err := validator.FolderName(name); err != nil {
		return "", apperrors.Validation(err.Error())
	}
	return name, nil
}

func scanFolder(row rowScanner) (*file.Folder, error) {
	var (
		f        file.Folder
		parentID uuid.NullUUID
	)
	if err := row.Scan(&f.ID, &f.Name, &f.OwnerID, &parentID, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.ParentID = idPtr(parentID)
	return &f, nil
}

func scanFolders(rows *sql.Rows) ([]*file.Folder, error) {
	folders := make([]*file.Folder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, errFailedScanFolder(err)
		}
		folders = append(folders, f)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListFolders(err)
	}

	return folders, nil
}
