package session

const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"

	landingPath = "/"
	cookiePath  = "/"

	revokedKeyPrefix = "blacklist:"
	revokedValue     = "1"
)

const (
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgUserNotAuthenticated    = "user not authenticated"
	msgInvalidUserIDCtx        = "invalid user ID in context"
	msgFailedIssueToken        = "failed to issue session token: %w"
	msgFailedCheckRevocation   = "failed to check session revocation: %w"
	msgFailedRevokeSession     = "failed to revoke session: %w"
	msgFailedLoadSessionUser   = "failed to load session user: %w"
)
