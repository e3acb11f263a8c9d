package errors

// Category-specific error constructors for leaf planning

// Hint errors
func UnsatisfiableScanHintError(variable, label string) *Error {
	return Newf(HintUnsatisfiable, "cannot use label scan hint: no label scan on :%s is available for `%s`", label, variable).
		WithVariable(variable).
		WithLabel(label).
		WithHintf("Add the predicate `%s:%s` to the pattern or remove `USING SCAN %s:%s`.", variable, label, variable, label)
}

func UnsatisfiableIndexHintError(variable, label, property string) *Error {
	return Newf(HintUnsatisfiable, "cannot use index hint: no index seek on :%s(%s) is available for `%s`", label, property, variable).
		WithVariable(variable).
		WithLabel(label).
		WithProperty(property).
		WithDetailf("The index must exist and the pattern must constrain `%s:%s` and `%s.%s` with an equality or IN predicate.",
			variable, label, variable, property)
}

func ConflictingHintsError(variable string, hints []string) *Error {
	return Newf(HintConflict, "hints for `%s` cannot be satisfied by a single access method", variable).
		WithVariable(variable).
		WithDetailf("Conflicting hints: %v", hints)
}

// Candidate errors
func EmptyCandidateSetError(variable string) *Error {
	return Newf(EmptyCandidateSet, "no leaf access plan could be generated for `%s`", variable).
		WithVariable(variable).
		WithHint("Relationship variables need an id predicate or an upstream scan equivalent.")
}

// Statistics errors
func InconsistentStatisticsError(shape string, estimate float64) *Error {
	return Newf(InconsistentStatistics, "statistics returned invalid cardinality %v for %s", estimate, shape).
		WithDetail("Cardinality estimates must be finite and non-negative.")
}

// Predicate errors
func InvalidPredicateError(variable, reason string) *Error {
	return Newf(InvalidPredicate, "invalid predicate for `%s`: %s", variable, reason).
		WithVariable(variable)
}

// Catalog errors
func UndefinedIndexError(label, property string) *Error {
	return Newf(UndefinedIndex, "no index on :%s(%s)", label, property).
		WithLabel(label).
		WithProperty(property)
}

func DuplicateIndexError(label, property string, unique bool) *Error {
	kind := "index"
	if unique {
		kind = "unique index"
	}
	return Newf(DuplicateIndex, "%s on :%s(%s) is already registered", kind, label, property).
		WithLabel(label).
		WithProperty(property)
}

// Storage errors
func FileIOError(operation, filename string, err error) *Error {
	return Newf(IOError, "could not %s file \"%s\": %v", operation, filename, err)
}

func UndefinedSnapshotError(name string) *Error {
	return Newf(UndefinedSnapshot, "catalog snapshot \"%s\" does not exist", name)
}

func ConnectionError(driver string, err error) *Error {
	return Newf(UnableToEstablishConnection, "could not connect to %s snapshot store", driver).
		WithDetail(err.Error())
}

func StoreError(operation string, err error) *Error {
	return Newf(SystemError, "snapshot store %s failed", operation).
		WithDetail(err.Error())
}

func SnapshotCorruptedError(details string) *Error {
	return New(DataCorrupted, "catalog snapshot is corrupted").
		WithDetail(details)
}

// Configuration errors
func InvalidConfigurationError(parameter, value string) *Error {
	return Newf(ConfigFileError, "invalid value for parameter \"%s\": \"%s\"", parameter, value)
}

func InvalidParameterValueError(parameter, value, reason string) *Error {
	return Newf(InvalidParameterValue, "invalid value for parameter \"%s\": \"%s\"", parameter, value).
		WithDetail(reason)
}
