// Package memory is an in-process implementation of the repository
// interfaces with the same ownership and naming rules as the Postgres store.
// It is a test fixture for handler and service tests, not a production
// driver: main.go always wires the Postgres repositories.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"file-drive/internal/domain/file"
	"file-drive/internal/domain/user"
	apperrors "file-drive/pkg/errors"
	"file-drive/pkg/validator"

	"github.com/google/uuid"
)

type state struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*user.User
	folders map[uuid.UUID]*file.Folder
	files   map[uuid.UUID]*file.File
}

type Store struct {
	Users   *UserRepository
	Folders *FolderRepository
	Files   *FileRepository
}

func New() *Store {
	s := &state{
		users:   map[uuid.UUID]*user.User{},
		folders: map[uuid.UUID]*file.Folder{},
		files:   map[uuid.UUID]*file.File{},
	}

	return &Store{
		Users:   &UserRepository{s: s},
		Folders: &FolderRepository{s: s},
		Files:   &FileRepository{s: s},
	}
}

type UserRepository struct{ s *state }

func (r *UserRepository) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == input.Username {
			return nil, apperrors.DuplicateUsername("Username taken")
		}
	}

	u := &user.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.s.users[u.ID] = u

	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type FolderRepository struct{ s *state }

func (r *FolderRepository) ListRoot(_ context.Context, ownerID uuid.UUID) ([]*file.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.collectFolders(func(f *file.Folder) bool {
		return f.OwnerID == ownerID && f.ParentID == nil
	}), nil
}

func (r *FolderRepository) ListChildren(_ context.Context, parentID, ownerID uuid.UUID) ([]*file.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.collectFolders(func(f *file.Folder) bool {
		return f.OwnerID == ownerID && f.ParentID != nil && *f.ParentID == parentID
	}), nil
}

func (r *FolderRepository) Get(_ context.Context, folderID, ownerID uuid.UUID) (*file.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f := r.s.ownedFolder(folderID, ownerID)
	if f == nil {
		return nil, nil
	}

	cp := copyFolder(f)
	if f.ParentID != nil {
		if p := r.s.ownedFolder(*f.ParentID, ownerID); p != nil {
			cp.Parent = copyFolder(p)
		}
	}
	return cp, nil
}

func (r *FolderRepository) ListAncestors(_ context.Context, folderID, ownerID uuid.UUID) ([]*file.Folder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	chain := make([]*file.Folder, 0)
	f := r.s.ownedFolder(folderID, ownerID)
	for f != nil && f.ParentID != nil {
		f = r.s.ownedFolder(*f.ParentID, ownerID)
		if f != nil {
			chain = append([]*file.Folder{copyFolder(f)}, chain...)
		}
	}
	return chain, nil
}

func (r *FolderRepository) Create(_ context.Context, input file.CreateFolderInput) (*file.Folder, error) {
	name, err := folderName(input.Name)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if input.ParentID != nil && r.s.ownedFolder(*input.ParentID, input.OwnerID) == nil {
		return nil, apperrors.ParentNotFound("Parent folder not found")
	}
	if r.s.folderNameTaken(input.OwnerID, input.ParentID, name, uuid.Nil) {
		return nil, duplicateFolder(input.ParentID)
	}

	f := &file.Folder{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   input.OwnerID,
		ParentID:  copyID(input.ParentID),
		CreatedAt: time.Now().UTC(),
	}
	r.s.folders[f.ID] = f

	return copyFolder(f), nil
}

func (r *FolderRepository) Rename(_ context.Context, folderID, ownerID uuid.UUID, newName string) (*file.Folder, error) {
	name, err := folderName(newName)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f := r.s.ownedFolder(folderID, ownerID)
	if f == nil {
		return nil, apperrors.NotFound("Folder not found")
	}
	if r.s.folderNameTaken(ownerID, f.ParentID, name, folderID) {
		return nil, duplicateFolder(f.ParentID)
	}

	f.Name = name
	return copyFolder(f), nil
}

func (r *FolderRepository) Delete(_ context.Context, folderID, ownerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.ownedFolder(folderID, ownerID) == nil {
		return apperrors.NotFound("Folder not found")
	}
	for _, f := range r.s.folders {
		if f.ParentID != nil && *f.ParentID == folderID {
			return apperrors.HasChildren("Folder has subfolders. Delete or move them first")
		}
	}

	delete(r.s.folders, folderID)
	for id, f := range r.s.files {
		if f.FolderID == folderID {
			delete(r.s.files, id)
		}
	}
	return nil
}

type FileRepository struct{ s *state }

func (r *FileRepository) ListInFolder(_ context.Context, folderID, ownerID uuid.UUID) ([]*file.File, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	files := make([]*file.File, 0)
	for _, f := range r.s.files {
		if f.FolderID == folderID && f.OwnerID == ownerID {
			cp := *f
			files = append(files, &cp)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].OriginalName < files[j].OriginalName })
	return files, nil
}

func (r *FileRepository) Create(_ context.Context, input file.CreateFileInput) (*file.File, error) {
	name := strings.TrimSpace(input.OriginalName)
	if input.OwnerID == uuid.Nil || input.FolderID == uuid.Nil || name == "" || input.Key == "" {
		return nil, apperrors.Validation("ownerId, folderId, originalName, and key are required")
	}
	if err := validator.FileName(name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if input.SizeBytes < 0 {
		return nil, apperrors.Validation("File size cannot be negative")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.ownedFolder(input.FolderID, input.OwnerID) == nil {
		return nil, apperrors.FolderNotFound("Folder not found")
	}
	if r.s.fileNameTaken(input.FolderID, name, uuid.Nil) {
		return nil, apperrors.DuplicateName("A file with that name already exists in this folder")
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = file.DefaultMimeType
	}

	f := &file.File{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		FolderID:     input.FolderID,
		OriginalName: name,
		Key:          input.Key,
		MimeType:     mimeType,
		SizeBytes:    input.SizeBytes,
		Ext:          input.Ext,
		CreatedAt:    time.Now().UTC(),
	}
	r.s.files[f.ID] = f

	cp := *f
	return &cp, nil
}

func (r *FileRepository) Rename(_ context.Context, fileID, ownerID uuid.UUID, newName string) (*file.File, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, apperrors.Validation("New filename is required")
	}
	if err := validator.FileName(name); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return nil, apperrors.NotFound("File not found")
	}
	if r.s.fileNameTaken(f.FolderID, name, fileID) {
		return nil, apperrors.DuplicateName("A file with that name already exists in this folder")
	}

	f.OriginalName = name
	cp := *f
	return &cp, nil
}

func (r *FileRepository) GetMeta(_ context.Context, fileID, ownerID uuid.UUID) (*file.FileMeta, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return nil, nil
	}
	return &file.FileMeta{ID: f.ID, FolderID: f.FolderID, Key: f.Key, OriginalName: f.OriginalName}, nil
}

func (r *FileRepository) GetDetails(_ context.Context, fileID, ownerID uuid.UUID) (*file.FileDetails, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return nil, nil
	}
	folder, ok := r.s.folders[f.FolderID]
	if !ok {
		return nil, nil
	}
	return &file.FileDetails{File: *f, Folder: file.FolderRef{ID: folder.ID, Name: folder.Name}}, nil
}

func (r *FileRepository) DeleteRecord(_ context.Context, fileID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.files, fileID)
	return nil
}

func (s *state) ownedFolder(id, ownerID uuid.UUID) *file.Folder {
	f, ok := s.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil
	}
	return f
}

func (s *state) collectFolders(match func(*file.Folder) bool) []*file.Folder {
	folders := make([]*file.Folder, 0)
	for _, f := range s.folders {
		if match(f) {
			folders = append(folders, copyFolder(f))
		}
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders
}

func (s *state) folderNameTaken(ownerID uuid.UUID, parentID *uuid.UUID, name string, exceptID uuid.UUID) bool {
	for _, f := range s.folders {
		if f.ID == exceptID || f.OwnerID != ownerID || f.Name != name {
			continue
		}
		if sameParent(f.ParentID, parentID) {
			return true
		}
	}
	return false
}

func (s *state) fileNameTaken(folderID uuid.UUID, name string, exceptID uuid.UUID) bool {
	for _, f := range s.files {
		if f.ID != exceptID && f.FolderID == folderID && f.OriginalName == name {
			return true
		}
	}
	return false
}

func folderName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperrors.Validation("Folder name is required")
	}
	if err := validator.FolderName(name); err != nil {
		return "", apperrors.Validation(err.Error())
	}
	return name, nil
}

func duplicateFolder(parentID *uuid.UUID) error {
	if parentID == nil {
		return apperrors.DuplicateName("A root folder with that name already exists")
	}
	return apperrors.DuplicateName("A folder with that name already exists here")
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyFolder(f *file.Folder) *file.Folder {
	return &file.Folder{
		ID:        f.ID,
		Name:      f.Name,
		OwnerID:   f.OwnerID,
		ParentID:  copyID(f.ParentID),
		CreatedAt: f.CreatedAt,
	}
}
