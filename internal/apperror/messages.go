package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// RPC connectivity
	CodeRPCConnectionFailed: "Failed to connect to RPC endpoint",
	CodeRPCError:            "RPC call failed",

	// Transaction lifecycle
	CodeSubmissionFailed:    "Transaction submission failed",
	CodeConfirmationFailed:  "Transaction confirmation failed",
	CodeTransactionReverted: "Transaction reverted",
	CodeGasPriceTooHigh:     "Gas price above configured ceiling",
	CodeGasEstimationFailed: "Gas estimation failed",
	CodeInvalidAmount:       "Invalid amount",

	// Step composition
	CodeRouteResolutionFailed: "Swap route resolution failed",
	CodeDependencyFailed:      "Prerequisite sub-step failed",
	CodeStepPanicked:          "Step panicked",

	// Credentials
	CodeNoCredentials: "No private keys configured",
	CodeInvalidKey:    "Invalid private key",

	// Journal
	CodeJournalWriteFailed: "Failed to write cycle journal",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
