package logger

import (
	"regexp"
)

// Sensitive field patterns to filter from logs
var (
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s&]+`)
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt|bearer|session)[\s:=]+[^\s&]+`)
	secretPattern   = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s&]+`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage removes credentials and session material from log messages
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)

	return message
}
