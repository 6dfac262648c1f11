package handler

const (
	jsonKeyError = "error"

	formUsername     = "username"
	formPassword     = "password"
	formName         = "name"
	formParentID     = "parentId"
	formFolderID     = "folderId"
	formReturnTo     = "returnTo"
	formUploadedFile = "uploaded_file"

	paramID       = "id"
	paramFolderID = "folderId"

	pathLanding    = "/"
	pathAfterLogin = "/after-login"
	pathDrive      = "/drive"
	pathFiles      = "/files"

	pageIndex  = "index"
	pageSignUp = "sign-up"
	pageDrive  = "drive"
	pageFile   = "file-detail"

	headerContentType = "Content-Type"
)

const (
	msgInvalidFolderID       = "Invalid folder id"
	msgInvalidParentFolderID = "Invalid parent folder id"
	msgInvalidFileID         = "Invalid file id"
	msgFolderNotFound        = "Folder not found"
	msgFileNotFound          = "File not found"
	msgNoFileUploaded        = "No file uploaded"
	msgFolderIDRequired      = "folderId is required"
	msgFileTooLarge          = "File exceeds the %d byte upload limit"
)
