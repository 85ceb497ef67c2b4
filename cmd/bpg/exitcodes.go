package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, bad config)
	ExitDataError   = 3 // Data error (malformed input, validation failure, corrupt graph)
	ExitAuthError   = 4 // Edit mode requested without valid admin credentials
	ExitNotFound    = 5 // Node, connection, or project not found
)
