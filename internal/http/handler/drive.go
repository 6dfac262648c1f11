package handler

import (
	"net/http"

	"file-drive/internal/audit"
	"file-drive/internal/domain/file"
	"file-drive/internal/domain/user"
	"file-drive/internal/session"
	apperrors "file-drive/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DriveHandler struct {
	folders FolderStore
	files   FileStore
	drive   DriveService
	audit   Auditor
}

func NewDriveHandler(folders FolderStore, files FileStore, drive DriveService, auditor Auditor) *DriveHandler {
	return &DriveHandler{
		folders: folders,
		files:   files,
		drive:   drive,
		audit:   auditor,
	}
}

type driveResponse struct {
	Page        string         `json:"page"`
	User        *user.User     `json:"user"`
	Folder      *file.Folder   `json:"folder"`
	Parent      *file.Folder   `json:"parent"`
	ParentChain []*file.Folder `json:"parentChain"`
	Subfolders  []*file.Folder `json:"subfolders"`
	Files       []*file.File   `json:"files"`
}

// Root lists the caller's root folders.
func (h *DriveHandler) Root(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	folders, err := h.folders.ListRoot(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, driveResponse{
		Page:        pageDrive,
		User:        session.GetUser(c),
		ParentChain: []*file.Folder{},
		Subfolders:  nonNilFolders(folders),
		Files:       []*file.File{},
	})
}

// Folder lists the subfolders and files of one folder, with its breadcrumb.
func (h *DriveHandler) Folder(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	folderID, err := parseID(c, paramFolderID, msgInvalidFolderID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	folder, err := h.folders.Get(ctx, folderID, ownerID)
	if err != nil {
		return err
	}
	if folder == nil {
		return apperrors.NotFound(msgFolderNotFound)
	}

	chain, err := h.folders.ListAncestors(ctx, folderID, ownerID)
	if err != nil {
		return err
	}

	subfolders, err := h.folders.ListChildren(ctx, folderID, ownerID)
	if err != nil {
		return err
	}

	files, err := h.files.ListInFolder(ctx, folderID, ownerID)
	if err != nil {
		return err
	}
	if files == nil {
		files = []*file.File{}
	}

	return c.JSON(http.StatusOK, driveResponse{
		Page:        pageDrive,
		User:        session.GetUser(c),
		Folder:      folder,
		Parent:      folder.Parent,
		ParentChain: nonNilFolders(chain),
		Subfolders:  nonNilFolders(subfolders),
		Files:       files,
	})
}

func (h *DriveHandler) CreateFolder(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	var parentID *uuid.UUID
	if raw := c.FormValue(formParentID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.Validation(msgInvalidParentFolderID)
		}
		parentID = &id
	}

	folder, err := h.folders.Create(c.Request().Context(), file.CreateFolderInput{
		Name:     c.FormValue(formName),
		OwnerID:  ownerID,
		ParentID: parentID,
	})
	if err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceTypeFolder, &folder.ID, audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"name": folder.Name,
	})

	if parentID != nil {
		return c.Redirect(http.StatusSeeOther, folderPath(*parentID))
	}
	return c.Redirect(http.StatusSeeOther, pathDrive)
}

func (h *DriveHandler) RenameFolder(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	folderID, err := parseID(c, paramID, msgInvalidFolderID)
	if err != nil {
		return err
	}

	folder, err := h.folders.Rename(c.Request().Context(), folderID, ownerID, c.FormValue(formName))
	if err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceTypeFolder, &folder.ID, audit.ActionRename, audit.StatusSuccess, map[string]any{
		"name": folder.Name,
	})

	return redirectBack(c, pathDrive)
}

// DeleteFolder never sends the client back to the page of the folder it
// just removed.
func (h *DriveHandler) DeleteFolder(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	folderID, err := parseID(c, paramID, msgInvalidFolderID)
	if err != nil {
		return err
	}

	folder, err := h.drive.DeleteFolder(c.Request().Context(), folderID, ownerID)
	if err != nil {
		h.audit.RecordError(c, audit.ResourceTypeFolder, &folderID, audit.ActionDelete, err)
		return err
	}

	h.audit.Record(c, audit.ResourceTypeFolder, &folderID, audit.ActionDelete, audit.StatusSuccess, nil)

	fallback := pathDrive
	if folder.ParentID != nil {
		fallback = folderPath(*folder.ParentID)
	}
	return redirectBack(c, fallback, folderPath(folderID))
}

func nonNilFolders(folders []*file.Folder) []*file.Folder {
	if folders == nil {
		return []*file.Folder{}
	}
	return folders
}
