package handler

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"file-drive/internal/audit"
	"file-drive/internal/domain/file"
	"file-drive/internal/drive"
	"file-drive/internal/session"
	apperrors "file-drive/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type FileHandler struct {
	files FileStore
	drive DriveService
	audit Auditor
}

func NewFileHandler(files FileStore, driveService DriveService, auditor Auditor) *FileHandler {
	return &FileHandler{
		files: files,
		drive: driveService,
		audit: auditor,
	}
}

type fileResponse struct {
	Page string            `json:"page"`
	File *file.FileDetails `json:"file"`
}

func (h *FileHandler) Details(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	fileID, err := parseID(c, paramID, msgInvalidFileID)
	if err != nil {
		return err
	}

	details, err := h.files.GetDetails(c.Request().Context(), fileID, ownerID)
	if err != nil {
		return err
	}
	if details == nil {
		return apperrors.NotFound(msgFileNotFound)
	}

	return c.JSON(http.StatusOK, fileResponse{Page: pageFile, File: details})
}

// Download streams the blob with the original name in the disposition.
func (h *FileHandler) Download(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	fileID, err := parseID(c, paramID, msgInvalidFileID)
	if err != nil {
		return err
	}

	details, content, err := h.drive.Open(c.Request().Context(), fileID, ownerID)
	if err != nil {
		return err
	}
	defer content.Close()

	h.audit.Record(c, audit.ResourceTypeFile, &details.ID, audit.ActionDownload, audit.StatusSuccess, nil)

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{
		"filename": details.OriginalName,
	}))
	if details.SizeBytes >= 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(details.SizeBytes, 10))
	}

	return c.Stream(http.StatusOK, details.MimeType, content)
}

func (h *FileHandler) Upload(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	rawFolderID := c.FormValue(formFolderID)
	if rawFolderID == "" {
		return apperrors.Validation(msgFolderIDRequired)
	}
	folderID, err := uuid.Parse(rawFolderID)
	if err != nil {
		return apperrors.Validation(msgInvalidFolderID)
	}

	header, err := c.FormFile(formUploadedFile)
	if err != nil {
		return apperrors.Validation(msgNoFileUploaded)
	}

	limit := h.drive.MaxUploadSize()
	if header.Size > limit {
		return apperrors.PayloadTooLarge(fmt.Sprintf(msgFileTooLarge, limit))
	}

	src, err := header.Open()
	if err != nil {
		return apperrors.Validation(msgNoFileUploaded)
	}
	defer src.Close()

	created, err := h.drive.Upload(c.Request().Context(), drive.UploadInput{
		OwnerID:      ownerID,
		FolderID:     folderID,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get(headerContentType),
		Content:      src,
	})
	if err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceTypeFile, &created.ID, audit.ActionUpload, audit.StatusSuccess, map[string]any{
		"folder_id":  created.FolderID.String(),
		"size_bytes": created.SizeBytes,
	})

	return c.Redirect(http.StatusSeeOther, folderPath(folderID))
}

func (h *FileHandler) Rename(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	fileID, err := parseID(c, paramID, msgInvalidFileID)
	if err != nil {
		return err
	}

	renamed, err := h.files.Rename(c.Request().Context(), fileID, ownerID, c.FormValue(formName))
	if err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceTypeFile, &renamed.ID, audit.ActionRename, audit.StatusSuccess, map[string]any{
		"name": renamed.OriginalName,
	})

	return redirectBack(c, folderPath(renamed.FolderID))
}

// Delete removes the blob and then the record, then returns to the
// file's folder unless the client asked for somewhere else.
func (h *FileHandler) Delete(c echo.Context) error {
	ownerID, err := session.GetUserID(c)
	if err != nil {
		return err
	}

	fileID, err := parseID(c, paramID, msgInvalidFileID)
	if err != nil {
		return err
	}

	meta, err := h.drive.DeleteFile(c.Request().Context(), fileID, ownerID)
	if err != nil {
		h.audit.RecordError(c, audit.ResourceTypeFile, &fileID, audit.ActionDelete, err)
		return err
	}

	h.audit.Record(c, audit.ResourceTypeFile, &fileID, audit.ActionDelete, audit.StatusSuccess, nil)

	return redirectBack(c, folderPath(meta.FolderID), filePath(fileID))
}
