package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	maxPasswordLength = 72
	maxNameLen        = 255
	asciiControlStart = 32
	asciiDelete       = 127

	errUsernameEmptyFmt        = "username cannot be empty"
	errUsernameLengthFmt       = "username must be between %d and %d characters"
	errUsernameWhitespaceFmt   = "username cannot contain whitespace"
	errPasswordEmptyFmt        = "password cannot be empty"
	errPasswordMaxLengthFmt    = "password must not exceed %d bytes"
	errFolderNameEmptyFmt      = "folder name cannot be empty"
	errFolderNameMaxLengthFmt  = "folder name must not exceed %d characters"
	errFolderNameControlFmt    = "folder name cannot contain control characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
)

func Username(username string) error {
	if username == "" {
		return fmt.Errorf(errUsernameEmptyFmt)
	}

	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf(errUsernameLengthFmt, minUsernameLength, maxUsernameLength)
	}

	if strings.ContainsAny(username, " \t\r\n") {
		return fmt.Errorf(errUsernameWhitespaceFmt)
	}

	return nil
}

// Password only bounds the input to what bcrypt will actually hash.
func Password(password string) error {
	if password == "" {
		return fmt.Errorf(errPasswordEmptyFmt)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func FolderName(name string) error {
	if name == "" {
		return fmt.Errorf(errFolderNameEmptyFmt)
	}

	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf(errFolderNameMaxLengthFmt, maxNameLen)
	}

	if hasControlChars(name) {
		return fmt.Errorf(errFolderNameControlFmt)
	}

	return nil
}

func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxNameLen)
	}

	if hasControlChars(name) {
		return fmt.Errorf(errFileNameControlCharsFmt)
	}

	return nil
}

func hasControlChars(s string) bool {
	for _, char := range s {
		if char < asciiControlStart || char == asciiDelete {
			return true
		}
	}
	return false
}
