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

// Sizing-specific error codes
const (
	// Arithmetic errors
	CodeArithmeticOverflow Code = "ARITHMETIC_OVERFLOW"
	CodeDivisionByZero     Code = "DIVISION_BY_ZERO"

	// Oracle/pricing errors
	CodeZeroPrice       Code = "ZERO_PRICE"
	CodeStalePrice      Code = "STALE_PRICE"
	CodePriceFetchError Code = "PRICE_FETCH_ERROR"

	// Vault/position errors
	CodeUndercollateralized Code = "UNDERCOLLATERALIZED"
	CodeInvalidLeverage     Code = "INVALID_LEVERAGE_CONFIG"
	CodePositionNotFound    Code = "POSITION_NOT_FOUND"

	// Swap venue errors
	CodeQuoteFailed       Code = "QUOTE_FAILED"
	CodeSwapFailed        Code = "SWAP_FAILED"
	CodeExcessiveInput    Code = "EXCESSIVE_INPUT"
	CodeInsufficientOut   Code = "INSUFFICIENT_OUTPUT"
	CodeDeadlineExceeded  Code = "DEADLINE_EXCEEDED"
	CodeVenueUnavailable  Code = "VENUE_UNAVAILABLE"
	CodeScenarioExhausted Code = "SCENARIO_EXHAUSTED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
