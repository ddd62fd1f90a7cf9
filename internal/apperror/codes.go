package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Chain interaction error codes
const (
	// RPC connectivity
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"

	// Transaction lifecycle
	CodeSubmissionFailed    Code = "SUBMISSION_FAILED"
	CodeConfirmationFailed  Code = "CONFIRMATION_FAILED"
	CodeTransactionReverted Code = "TRANSACTION_REVERTED"
	CodeGasPriceTooHigh     Code = "GAS_PRICE_TOO_HIGH"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"
	CodeInvalidAmount       Code = "INVALID_AMOUNT"

	// Step composition
	CodeRouteResolutionFailed Code = "ROUTE_RESOLUTION_FAILED"
	CodeDependencyFailed      Code = "DEPENDENCY_FAILED"
	CodeStepPanicked          Code = "STEP_PANICKED"

	// Credentials
	CodeNoCredentials Code = "NO_CREDENTIALS"
	CodeInvalidKey    Code = "INVALID_KEY"

	// Journal
	CodeJournalWriteFailed Code = "JOURNAL_WRITE_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
