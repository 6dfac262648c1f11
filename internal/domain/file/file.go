package file

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMimeType is stored when an upload does not declare one.
const DefaultMimeType = "application/octet-stream"

// Folder is a node of an owner's folder forest. ParentID is nil for root
// folders. Parent is only populated by lookups that join the parent row.
type Folder struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	Parent    *Folder    `json:"parent,omitempty"`
}

func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// File is a leaf record. Key names the blob and never changes after upload.
type File struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	FolderID     uuid.UUID `json:"folder_id"`
	OriginalName string    `json:"original_name"`
	Key          string    `json:"-"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Ext          string    `json:"ext"`
	CreatedAt    time.Time `json:"created_at"`
}

// FileMeta is the projection needed to locate a blob.
type FileMeta struct {
	ID           uuid.UUID
	FolderID     uuid.UUID
	Key          string
	OriginalName string
}

// FolderRef is the short form of a folder embedded in file details.
type FolderRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type FileDetails struct {
	File
	Folder FolderRef `json:"folder"`
}

type CreateFolderInput struct {
	Name     string
	OwnerID  uuid.UUID
	ParentID *uuid.UUID
}

type CreateFileInput struct {
	OwnerID      uuid.UUID
	FolderID     uuid.UUID
	OriginalName string
	Key          string
	MimeType     string
	SizeBytes    int64
	Ext          string
}
