package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyAccountID   = "account_id"
	ContextKeyAccountRole = "account_role"
	ContextKeyAccountTier = "account_tier"
	ContextKeyRequestID   = "request_id"

	// Database table names
	TableAccounts  = "accounts"
	TableArtifacts = "artifacts"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
