package cmd

// Exit codes for the courier CLI
const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitRequestFailure indicates the server answered with a non-success status
	ExitRequestFailure = 1

	// ExitValidationError indicates a request file failed validation
	ExitValidationError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
