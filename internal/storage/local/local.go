// Package local stores blobs on a filesystem through afero.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"file-drive/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640

	errFailedCreateRootFmt   = "failed to create upload dir %q: %w"
	errFailedCreateFolderFmt = "failed to create blob folder: %w"
	errFailedCreateBlobFmt   = "failed to create blob: %w"
	errFailedWriteBlobFmt    = "failed to write blob: %w"
	errFailedOpenBlobFmt     = "failed to open blob: %w"
	errFailedRemoveBlobFmt   = "failed to remove blob: %w"
	errFailedRemoveFolderFmt = "failed to remove blob folder: %w"
	errInvalidKeyFmt         = "invalid blob key %q"
)

type Store struct {
	fs afero.Fs
}

// New roots a store at dir on the OS filesystem, creating dir if needed.
func New(dir string) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf(errFailedCreateRootFmt, dir, err)
	}

	return NewWithFs(afero.NewBasePathFs(osFs, dir)), nil
}

func NewWithFs(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

func (s *Store) Put(ctx context.Context, folderID uuid.UUID, key string, src io.Reader, maxSize int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !storage.ValidKey(key) {
		return 0, fmt.Errorf(errInvalidKeyFmt, key)
	}

	if err := s.fs.MkdirAll(folderID.String(), dirPerm); err != nil {
		return 0, fmt.Errorf(errFailedCreateFolderFmt, err)
	}

	name := storage.ObjectPath(folderID, key)
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if err != nil {
		return 0, fmt.Errorf(errFailedCreateBlobFmt, err)
	}

	n, err := io.Copy(f, io.LimitReader(src, maxSize+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		_ = s.fs.Remove(name)
		return 0, fmt.Errorf(errFailedWriteBlobFmt, err)
	case n > maxSize:
		_ = s.fs.Remove(name)
		return 0, storage.ErrBlobTooLarge
	case closeErr != nil:
		_ = s.fs.Remove(name)
		return 0, fmt.Errorf(errFailedWriteBlobFmt, closeErr)
	}

	return n, nil
}

func (s *Store) Open(ctx context.Context, folderID uuid.UUID, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !storage.ValidKey(key) {
		return nil, storage.ErrBlobNotFound
	}

	f, err := s.fs.Open(storage.ObjectPath(folderID, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrBlobNotFound
		}
		return nil, fmt.Errorf(errFailedOpenBlobFmt, err)
	}

	return f, nil
}

func (s *Store) Delete(ctx context.Context, folderID uuid.UUID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !storage.ValidKey(key) {
		return fmt.Errorf(errInvalidKeyFmt, key)
	}

	if err := s.fs.Remove(storage.ObjectPath(folderID, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.ErrBlobNotFound
		}
		return fmt.Errorf(errFailedRemoveBlobFmt, err)
	}

	return nil
}

func (s *Store) DeleteFolder(ctx context.Context, folderID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.fs.RemoveAll(folderID.String()); err != nil {
		return fmt.Errorf(errFailedRemoveFolderFmt, err)
	}

	return nil
}
