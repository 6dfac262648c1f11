// Package drive pairs blob storage with file records. The stores own the
// hierarchy rules; this package owns the ordering between disk and database.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"file-drive/internal/domain/file"
	"file-drive/internal/storage"
	apperrors "file-drive/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNoFileUploaded    = "No file uploaded"
	msgFolderNotFound    = "Folder not found"
	msgFileNotFound      = "File not found"
	msgFileMissingOnDisk = "File missing on disk"
	msgFileTooLarge      = "File exceeds the %d byte upload limit"
	msgFailedStoreBlob   = "failed to store uploaded file"
	msgFailedOpenBlob    = "failed to open stored file"
	msgFailedRemoveBlob  = "failed to remove stored file"
)

type FolderStore interface {
	Get(ctx context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error)
	Delete(ctx context.Context, folderID, ownerID uuid.UUID) error
}

type FileStore interface {
	Create(ctx context.Context, input file.CreateFileInput) (*file.File, error)
	GetMeta(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileMeta, error)
	GetDetails(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, error)
	DeleteRecord(ctx context.Context, fileID uuid.UUID) error
}

type Service struct {
	folders       FolderStore
	files         FileStore
	blobs         storage.BlobStore
	maxUploadSize int64
	logger        *zap.Logger
}

func NewService(folders FolderStore, files FileStore, blobs storage.BlobStore, maxUploadSize int64, logger *zap.Logger) *Service {
	return &Service{
		folders:       folders,
		files:         files,
		blobs:         blobs,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (s *Service) MaxUploadSize() int64 {
	return s.maxUploadSize
}

type UploadInput struct {
	OwnerID      uuid.UUID
	FolderID     uuid.UUID
	OriginalName string
	MimeType     string
	Content      io.Reader
}

// Upload writes the blob under a fresh key and then records it. The folder
// is checked first so a bad folder id never leaves bytes on disk; a record
// failure after the write removes the blob again.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*file.File, error) {
	name := strings.TrimSpace(in.OriginalName)
	if in.Content == nil || name == "" {
		return nil, apperrors.Validation(msgNoFileUploaded)
	}

	folder, err := s.folders.Get(ctx, in.FolderID, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, apperrors.FolderNotFound(msgFolderNotFound)
	}

	key := storage.NewKey(name)
	size, err := s.blobs.Put(ctx, folder.ID, key, in.Content, s.maxUploadSize)
	if err != nil {
		if errors.Is(err, storage.ErrBlobTooLarge) {
			return nil, apperrors.PayloadTooLarge(tooLargeMessage(s.maxUploadSize))
		}
		return nil, apperrors.StorageIO(msgFailedStoreBlob, err)
	}

	created, err := s.files.Create(ctx, file.CreateFileInput{
		OwnerID:      in.OwnerID,
		FolderID:     folder.ID,
		OriginalName: name,
		Key:          key,
		MimeType:     in.MimeType,
		SizeBytes:    size,
		Ext:          storage.Ext(name),
	})
	if err != nil {
		// Detached so a cancelled request still cleans up.
		if rmErr := s.blobs.Delete(context.WithoutCancel(ctx), folder.ID, key); rmErr != nil {
			s.logger.Warn("failed to remove blob after rejected upload",
				zap.String("folder_id", folder.ID.String()),
				zap.String("key", key),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", created.ID.String()),
		zap.String("folder_id", folder.ID.String()),
		zap.Int64("size_bytes", size),
	)

	return created, nil
}

// Open returns the file record and a reader over its content. The caller
// closes the reader.
func (s *Service) Open(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, io.ReadCloser, error) {
	details, err := s.files.GetDetails(ctx, fileID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if details == nil {
		return nil, nil, apperrors.NotFound(msgFileNotFound)
	}

	rc, err := s.blobs.Open(ctx, details.FolderID, details.Key)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, apperrors.NotFound(msgFileMissingOnDisk)
		}
		return nil, nil, apperrors.StorageIO(msgFailedOpenBlob, err)
	}

	return details, rc, nil
}

// DeleteFile removes the blob and then the record. A blob that is already
// gone is fine; any other storage failure keeps the record.
func (s *Service) DeleteFile(ctx context.Context, fileID, ownerID uuid.UUID) (*file.FileMeta, error) {
	meta, err := s.files.GetMeta(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, apperrors.NotFound(msgFileNotFound)
	}

	if err := s.blobs.Delete(ctx, meta.FolderID, meta.Key); err != nil {
		if !errors.Is(err, storage.ErrBlobNotFound) {
			return nil, apperrors.StorageIO(msgFailedRemoveBlob, err)
		}
		s.logger.Info("blob already absent", zap.String("file_id", meta.ID.String()))
	}

	if err := s.files.DeleteRecord(ctx, meta.ID); err != nil {
		return nil, err
	}

	return meta, nil
}

// DeleteFolder deletes an empty-of-subfolders folder. Its file records go
// with it; the folder's blob directory is removed afterwards, best-effort.
func (s *Service) DeleteFolder(ctx context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error) {
	folder, err := s.folders.Get(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, apperrors.NotFound(msgFolderNotFound)
	}

	if err := s.folders.Delete(ctx, folderID, ownerID); err != nil {
		return nil, err
	}

	if err := s.blobs.DeleteFolder(context.WithoutCancel(ctx), folderID); err != nil {
		s.logger.Warn("failed to remove folder blobs",
			zap.String("folder_id", folderID.String()),
			zap.Error(err),
		)
	}

	return folder, nil
}

func tooLargeMessage(limit int64) string {
	return fmt.Sprintf(msgFileTooLarge, limit)
}
