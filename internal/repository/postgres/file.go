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

const fileColumns = `id, owner_id, folder_id, original_name, key, mime_type, size_bytes, ext, created_at`

type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) ListInFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*file.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE folder_id = $1 AND owner_id = $2
		ORDER BY original_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, folderID, ownerID)
	if err != nil {
		return nil, errFailedListFiles(err)
	}
	defer rows.Close()

	files := make([]*file.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, errFailedScanFile(err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListFiles(err)
	}

	return files, nil
}

// Create records an uploaded blob. The folder ownership check and the
// insert share a transaction; names are unique per folder.
func (r *FileRepository) Create(ctx context.Context, input file.CreateFileInput) (*file.File, error) {
	name := strings.TrimSpace(input.OriginalName)
	if input.OwnerID == uuid.Nil || input.FolderID == uuid.Nil || name == "" || input.Key == "" {
		return nil, apperrors.Validation(msgFileFieldsRequired)
	}
	if err := validator.FileName(name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if input.SizeBytes < 0 {
		return nil, apperrors.Validation(msgFileSizeNegative)
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = file.DefaultMimeType
	}

	var created *file.File
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var id uuid.UUID
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM folders
			WHERE id = $1 AND owner_id = $2
			FOR SHARE
		`, input.FolderID, input.OwnerID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.FolderNotFound(msgFolderNotFound)
			}
			return errFailedGetFolder(err)
		}

		taken, err := fileNameTaken(ctx, tx, input.FolderID, name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.DuplicateName(msgFileExists)
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO files (owner_id, folder_id, original_name, key, mime_type, size_bytes, ext)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+fileColumns,
			input.OwnerID, input.FolderID, name, input.Key, mimeType, input.SizeBytes, input.Ext,
		)
		f, err := scanFile(row)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.DuplicateName(msgFileExists)
			}
			return errFailedCreateFile(err)
		}

		created = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *FileRepository) Rename(ctx context.Context, fileID, ownerID uuid.UUID, newName string) (*file.File, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, apperrors.Validation(msgFileNameRequired)
	}
	if err := validator.FileName(name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var renamed *file.File
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var folderID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			SELECT folder_id FROM files
			WHERE id = $1 AND owner_id = $2
			FOR UPDATE
		`, fileID, ownerID).Scan(&folderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound(msgFileNotFound)
			}
			return errFailedGetFile(err)
		}

		taken, err := fileNameTaken(ctx, tx, folderID, name, fileID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.DuplicateName(msgFileExists)
		}

		row := tx.QueryRowContext(ctx, `
			UPDATE files SET original_name = $1
			WHERE id = $2 AND owner_id = $3
			RETURNING `+fileColumns,
			name, fileID, ownerID,
		)
		f, err := scanFile(row)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.DuplicateName(msgFileExists)
			}
			return errFailedRenameFile(err)
		}

		renamed = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return renamed, nil
}

func (r *FileRepository) GetMeta(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileMeta, error) {
	query := `
		SELECT id, folder_id, key, original_name
		FROM files
		WHERE id = $1 AND owner_id = $2
	`

	m := &file.FileMeta{}
	err := r.db.QueryRowContext(ctx, query, fileID, ownerID).Scan(
		&m.ID,
		&m.FolderID,
		&m.Key,
		&m.OriginalName,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errFailedGetFile(err)
	}

	return m, nil
}

func (r *FileRepository) GetDetails(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, error) {
	query := `
		SELECT f.id, f.owner_id, f.folder_id, f.original_name, f.key, f.mime_type,
		       f.size_bytes, f.ext, f.created_at, d.id, d.name
		FROM files f
		JOIN folders d ON d.id = f.folder_id
		WHERE f.id = $1 AND f.owner_id = $2
	`

	d := &file.FileDetails{}
	err := r.db.QueryRowContext(ctx, query, fileID, ownerID).Scan(
		&d.ID,
		&d.OwnerID,
		&d.FolderID,
		&d.OriginalName,
		&d.Key,
		&d.MimeType,
		&d.SizeBytes,
		&d.Ext,
		&d.CreatedAt,
		&d.Folder.ID,
		&d.Folder.Name,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errFailedGetFile(err)
	}

	return d, nil
}

// DeleteRecord removes the row without an owner check. Callers resolve the
// file through GetMeta first and must already have removed the blob.
func (r *FileRepository) DeleteRecord(ctx context.Context, fileID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, fileID); err != nil {
		return errFailedDeleteFile(err)
	}
	return nil
}

func fileNameTaken(ctx context.Context, q querier, folderID uuid.UUID, name string, exceptID uuid.UUID) (bool, error) {
	var taken bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM files
			WHERE folder_id = $1 AND original_name = $2 AND id <> $3
		)
	`, folderID, name, exceptID).Scan(&taken)
	if err != nil {
		return false, errFailedCheckFileName(err)
	}
	return taken, nil
}

func scanFile(row rowScanner) (*file.File, error) {
	f := &file.File{}
	err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.FolderID,
		&f.OriginalName,
		&f.Key,
		&f.MimeType,
		&f.SizeBytes,
		&f.Ext,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}
