package repository

import (
	"context"

	"file-drive/internal/domain/file"
	"file-drive/internal/domain/user"

	"github.com/google/uuid"
)

// Lookups return (nil, nil) when the row does not exist or belongs to another
// owner; the two cases are indistinguishable to callers.

// UserRepository is the identity store
type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// FolderRepository holds the owner-scoped folder forest
type FolderRepository interface {
	ListRoot(ctx context.Context, ownerID uuid.UUID) ([]*file.Folder, error)
	Get(ctx context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error)
	ListChildren(ctx context.Context, parentID, ownerID uuid.UUID) ([]*file.Folder, error)
	ListAncestors(ctx context.Context, folderID, ownerID uuid.UUID) ([]*file.Folder, error)
	Create(ctx context.Context, input file.CreateFolderInput) (*file.Folder, error)
	Rename(ctx context.Context, folderID, ownerID uuid.UUID, newName string) (*file.Folder, error)
	Delete(ctx context.Context, folderID, ownerID uuid.UUID) error
}

// FileRepository holds file records. Blobs are handled by the caller.
type FileRepository interface {
	ListInFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*file.File, error)
	Create(ctx context.Context, input file.CreateFileInput) (*file.File, error)
	Rename(ctx context.Context, fileID, ownerID uuid.UUID, newName string) (*file.File, error)
	GetMeta(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileMeta, error)
	GetDetails(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, error)
	DeleteRecord(ctx context.Context, fileID uuid.UUID) error
}
