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

	// Arithmetic errors
	CodeArithmeticOverflow: "Arithmetic overflow during sizing computation",
	CodeDivisionByZero:     "Division by zero during sizing computation",

	// Oracle/pricing errors
	CodeZeroPrice:       "Oracle returned a zero price",
	CodeStalePrice:      "Oracle price is stale",
	CodePriceFetchError: "Failed to fetch oracle price",

	// Vault/position errors
	CodeUndercollateralized: "Position debt meets or exceeds collateral",
	CodeInvalidLeverage:     "Invalid leverage configuration",
	CodePositionNotFound:    "Vault position not found",

	// Swap venue errors
	CodeQuoteFailed:       "Failed to get swap quote",
	CodeSwapFailed:        "Swap execution failed",
	CodeExcessiveInput:    "Swap consumed more input than allowed",
	CodeInsufficientOut:   "Swap delivered less output than required",
	CodeDeadlineExceeded:  "Swap deadline exceeded",
	CodeVenueUnavailable:  "Swap venue unavailable",
	CodeScenarioExhausted: "Replay scenario has no more quotes",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
