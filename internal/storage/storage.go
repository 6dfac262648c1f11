// Package storage lays out uploaded blobs as <folderId>/<key> beneath a
// store-specific root and defines the contract every backend satisfies.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	pathSeparator = "/"
	maxExtLength  = 16
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrBlobTooLarge = errors.New("blob exceeds size limit")
)

// BlobStore persists file content. Put writes at most maxSize bytes and
// leaves nothing behind when it fails. Delete reports ErrBlobNotFound for a
// blob that is already gone; DeleteFolder does not.
type BlobStore interface {
	Put(ctx context.Context, folderID uuid.UUID, key string, src io.Reader, maxSize int64) (int64, error)
	Open(ctx context.Context, folderID uuid.UUID, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, folderID uuid.UUID, key string) error
	DeleteFolder(ctx context.Context, folderID uuid.UUID) error
}

// NewKey returns a fresh random key carrying the extension of originalName,
// so two uploads of the same name never share a blob.
func NewKey(originalName string) string {
	return uuid.NewString() + Ext(originalName)
}

// Ext returns the extension of name, or "" when it is too long or contains
// anything other than letters and digits.
func Ext(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, "\\", pathSeparator))
	if len(ext) < 2 || len(ext) > maxExtLength {
		return ""
	}

	for _, r := range ext[1:] {
		if !isAlnum(r) {
			return ""
		}
	}

	return ext
}

func FolderPrefix(folderID uuid.UUID) string {
	return folderID.String() + pathSeparator
}

func ObjectPath(folderID uuid.UUID, key string) string {
	return FolderPrefix(folderID) + key
}

// ValidKey rejects keys that could escape the folder namespace.
func ValidKey(key string) bool {
	return key != "" && key != "." && key != ".." && !strings.ContainsAny(key, "/\\")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
