package handler

import (
	"context"
	"io"

	"file-drive/internal/audit"
	"file-drive/internal/domain/file"
	"file-drive/internal/domain/user"
	"file-drive/internal/drive"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type UserStore interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

type SessionStarter interface {
	Login(c echo.Context, u *user.User) error
	Logout(c echo.Context) error
}

// DriveHandler and FileHandler interfaces
type FolderStore interface {
	ListRoot(ctx context.Context, ownerID uuid.UUID) ([]*file.Folder, error)
	Get(ctx context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error)
	ListChildren(ctx context.Context, parentID, ownerID uuid.UUID) ([]*file.Folder, error)
	ListAncestors(ctx context.Context, folderID, ownerID uuid.UUID) ([]*file.Folder, error)
	Create(ctx context.Context, input file.CreateFolderInput) (*file.Folder, error)
	Rename(ctx context.Context, folderID, ownerID uuid.UUID, newName string) (*file.Folder, error)
}

type FileStore interface {
	ListInFolder(ctx context.Context, folderID, ownerID uuid.UUID) ([]*file.File, error)
	Rename(ctx context.Context, fileID, ownerID uuid.UUID, newName string) (*file.File, error)
	GetDetails(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, error)
}

type DriveService interface {
	Upload(ctx context.Context, in drive.UploadInput) (*file.File, error)
	Open(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, io.ReadCloser, error)
	DeleteFile(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileMeta, error)
	DeleteFolder(ctx context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error)
	MaxUploadSize() int64
}

// HealthHandler interfaces
type Pinger interface {
	Ping(ctx context.Context) error
}

// Shared by all handlers
type Auditor interface {
	Record(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, status audit.Status, metadata map[string]any)
	RecordError(c echo.Context, resourceType audit.ResourceType, resourceID *uuid.UUID, action audit.Action, cause error)
}
