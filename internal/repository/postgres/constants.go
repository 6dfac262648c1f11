package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	msgUsernameTaken       = "Username taken"
	msgFolderNameRequired  = "Folder name is required"
	msgParentNotFound      = "Parent folder not found"
	msgRootFolderExists    = "A root folder with that name already exists"
	msgFolderExists        = "A folder with that name already exists here"
	msgFolderNotFound      = "Folder not found"
	msgFolderHasSubfolders = "Folder has subfolders. Delete or move them first"
	msgFileNameRequired    = "New filename is required"
	msgFileFieldsRequired  = "ownerId, folderId, originalName, and key are required"
	msgFileSizeNegative    = "File size cannot be negative"
	msgFileNotFound        = "File not found"
	msgFileExists          = "A file with that name already exists in this folder"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"

	errFailedCreateFolderFmt    = "failed to create folder: %w"
	errFailedGetFolderFmt       = "failed to get folder: %w"
	errFailedListFoldersFmt     = "failed to list folders: %w"
	errFailedScanFolderFmt      = "failed to scan folder: %w"
	errFailedListAncestorsFmt   = "failed to list folder ancestors: %w"
	errFailedCheckFolderNameFmt = "failed to check folder name: %w"
	errFailedCountChildrenFmt   = "failed to count child folders: %w"
	errFailedRenameFolderFmt    = "failed to rename folder: %w"
	errFailedDeleteFolderFmt    = "failed to delete folder: %w"

	errFailedCreateFileFmt    = "failed to create file: %w"
	errFailedGetFileFmt       = "failed to get file: %w"
	errFailedListFilesFmt     = "failed to list files: %w"
	errFailedScanFileFmt      = "failed to scan file: %w"
	errFailedCheckFileNameFmt = "failed to check file name: %w"
	errFailedRenameFileFmt    = "failed to rename file: %w"
	errFailedDeleteFileFmt    = "failed to delete file: %w"
)

var (
	errFailedCheckFileName        = func(err error) error { return fmt.Errorf(errFailedCheckFileNameFmt, err) }
	errFailedCheckFolderName      = func(err error) error { return fmt.Errorf(errFailedCheckFolderNameFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCountChildren        = func(err error) error { return fmt.Errorf(errFailedCountChildrenFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateFile           = func(err error) error { return fmt.Errorf(errFailedCreateFileFmt, err) }
	errFailedCreateFolder         = func(err error) error { return fmt.Errorf(errFailedCreateFolderFmt, err) }
	errFailedCreateUser           = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedDeleteFile           = func(err error) error { return fmt.Errorf(errFailedDeleteFileFmt, err) }
	errFailedDeleteFolder         = func(err error) error { return fmt.Errorf(errFailedDeleteFolderFmt, err) }
	errFailedGetFile              = func(err error) error { return fmt.Errorf(errFailedGetFileFmt, err) }
	errFailedGetFolder            = func(err error) error { return fmt.Errorf(errFailedGetFolderFmt, err) }
	errFailedGetUser              = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedListAncestors        = func(err error) error { return fmt.Errorf(errFailedListAncestorsFmt, err) }
	errFailedListFiles            = func(err error) error { return fmt.Errorf(errFailedListFilesFmt, err) }
	errFailedListFolders          = func(err error) error { return fmt.Errorf(errFailedListFoldersFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedRenameFile           = func(err error) error { return fmt.Errorf(errFailedRenameFileFmt, err) }
	errFailedRenameFolder         = func(err error) error { return fmt.Errorf(errFailedRenameFolderFmt, err) }
	errFailedScanFile             = func(err error) error { return fmt.Errorf(errFailedScanFileFmt, err) }
	errFailedScanFolder           = func(err error) error { return fmt.Errorf(errFailedScanFolderFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
)
