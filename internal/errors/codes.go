package errors

// Status codes follow the GQLSTATE layout (ISO/IEC 39075), which shares its
// two-character class prefix with SQLSTATE.

// Class 00 - Successful Completion
const (
	SuccessfulCompletion = "00000"
)

// Class 08 - Connection Exception
const (
	ConnectionException         = "08000"
	UnableToEstablishConnection = "08001"
)

// Class 0A - Feature Not Supported
const (
	FeatureNotSupported = "0A000"
)

// Class 22 - Data Exception
const (
	DataException         = "22000"
	InvalidParameterValue = "22023"
	InvalidPredicate      = "22G03"
)

// Class 42 - Syntax Error or Access Rule Violation
const (
	SyntaxErrorOrAccessRuleViolation = "42000"
	HintUnsatisfiable                = "42N51"
	HintConflict                     = "42N52"
	UndefinedIndex                   = "42N53"
	UndefinedLabel                   = "42N54"
	DuplicateIndex                   = "42N55"
	UndefinedSnapshot                = "42N56"
)

// Class F0 - Configuration File Error
const (
	ConfigFileError = "F0000"
	LockFileExists  = "F0001"
)

// Class 58 - System Error
const (
	SystemError = "58000"
	IOError     = "58030"
)

// Class XX - Internal Error
const (
	InternalError          = "XX000"
	EmptyCandidateSet      = "XX0P1"
	InconsistentStatistics = "XX0P2"
	DataCorrupted          = "XX001"
)

// ClassOf returns the two-character class of a status code.
func ClassOf(code string) string {
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}

// IsInternal reports whether a code belongs to the internal error class.
// Internal errors signal a contract violation by an adapter or caller.
func IsInternal(code string) bool {
	return ClassOf(code) == "XX"
}
