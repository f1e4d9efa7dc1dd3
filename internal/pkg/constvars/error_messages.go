package constvars

// Client messages are returned to the caller; they never leak internals.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process request, please check your request"
	ErrClientTooManyRequests               = "Too many requests, please try again later"

	ErrClientMagicLinkNotFound       = "The requested link does not exist"
	ErrClientMagicLinkBoundToOther   = "The requested password reset link is already tied to another session"
	ErrClientCsrfTokenMissing        = "CSRF Token is missing"
	ErrClientCsrfTokenInvalid        = "Invalid CSRF Token"
	ErrClientMagicLinkUserMismatch   = "The user id is invalid"
	ErrClientMagicLinkExpired        = "This link has expired already"
	ErrClientMagicLinkAlreadyUsed    = "The requested password reset link was already used"
	ErrClientMagicLinkInvalidUsage   = "Invalid magic link usage"
	ErrClientMagicLinkUsageMismatch  = "The requested link cannot be used for this action"
	ErrClientEmailAlreadyExists      = "E-Mail address is already registered"
	ErrClientUserNotExists           = "User does not exist"
	ErrClientPasswordResetThrottled  = "A reset link was requested recently, please wait before trying again"
)

// Dev messages end up in logs only.
const (
	ErrDevValidationFailed     = "Request validation failed"
	ErrDevCannotParseJSON      = "Failed to parse JSON request body"
	ErrDevCannotMarshalJSON    = "Failed to marshal value to JSON"
	ErrDevServerProcess        = "Server failed to process the request"
	ErrDevSecureTokenGenerate  = "Failed to generate secure random token"
	ErrDevHashPassword         = "Failed to hash password"
	ErrDevEmailRender          = "Failed to render e-mail body"
	ErrDevMailQueueFull        = "Mail queue stayed full for the whole enqueue wait; job for '%s' dropped"
	ErrDevSMTPSendEmail        = "Failed to send e-mail through SMTP relay '%s'"
	ErrDevUserNotExists        = "User does not exist in database"
	ErrDevEmailAlreadyExists   = "E-Mail address already exists in database"
	ErrDevMagicLinkNotFound    = "Magic link does not exist in database"
	ErrDevMagicLinkInvalid     = "Magic link validation rejected the request"
	ErrDevMagicLinkUsageParse  = "Failed to parse magic link usage string '%s'"
	ErrDevMagicLinkUsageWrong  = "Magic link usage does not match the requested action"
	ErrDevTooManyLinkRequests  = "Magic link issuance limit exceeded for resource"

	ErrDevDBFailedToFindDocument    = "Database failed to find document"
	ErrDevDBFailedToInsertDocument  = "Database failed to insert document"
	ErrDevDBFailedToUpdateDocument  = "Database failed to update document"
	ErrDevDBFailedToDeleteDocuments = "Database failed to delete documents"

	ErrDevRedisGetData        = "Redis failed to get data"
	ErrDevRedisSetData        = "Redis failed to set data"
	ErrDevRedisDeleteData     = "Redis failed to delete data"
	ErrDevRedisIncrementValue = "Redis failed to increment value"
)
