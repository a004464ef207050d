package constants

// Common error messages
const (
	ErrInvalidJSON       = "Invalid JSON"
	ErrUserIDRequired    = "user_id required"
	ErrMethodNotAllowed  = "Method Not Allowed"
	ErrNoFileProvided    = "No file provided"
	ErrAdminOnly         = "Only administrators may perform this action"
	ErrSessionIDRequired = "sessionId required"
)

// Content types
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
)
