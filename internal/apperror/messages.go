package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Route model errors
	CodeInvalidRoute:     "Route is malformed",
	CodeInvalidHopCount:  "Route must have between 2 and 4 legs",
	CodeBrokenLegChain:   "Consecutive legs do not chain base to quote",
	CodeInvalidLegPrice:  "Leg bid/ask prices must be positive",
	CodeInvalidVenue:     "Invalid venue definition",
	CodeInvalidTradeSize: "Invalid trade size",

	// Profit and sizing errors
	CodeInsufficientLiquidity: "Insufficient pool liquidity for a viable loan volume",
	CodeAnomalousInput:        "Anomalous numeric input (zero or negative denominator)",
	CodeSlippageExceeded:      "Estimated slippage exceeds the configured maximum",

	// Snapshot ingestion errors
	CodeSnapshotLoadFailed: "Failed to load market snapshot",
	CodeSnapshotInvalid:    "Market snapshot is incomplete or inconsistent",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
