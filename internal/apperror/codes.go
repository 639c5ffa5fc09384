package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Route evaluation error codes
const (
	// Route model errors
	CodeInvalidRoute     Code = "INVALID_ROUTE"
	CodeInvalidHopCount  Code = "INVALID_HOP_COUNT"
	CodeBrokenLegChain   Code = "BROKEN_LEG_CHAIN"
	CodeInvalidLegPrice  Code = "INVALID_LEG_PRICE"
	CodeInvalidVenue     Code = "INVALID_VENUE"
	CodeInvalidTradeSize Code = "INVALID_TRADE_SIZE"

	// Profit and sizing errors
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeAnomalousInput        Code = "ANOMALOUS_INPUT"
	CodeSlippageExceeded      Code = "SLIPPAGE_EXCEEDED"

	// Snapshot ingestion errors
	CodeSnapshotLoadFailed Code = "SNAPSHOT_LOAD_FAILED"
	CodeSnapshotInvalid    Code = "SNAPSHOT_INVALID"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
