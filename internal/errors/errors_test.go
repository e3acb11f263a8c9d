package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(HintUnsatisfiable, "cannot use hint")
	assert.Equal(t, "cannot use hint (GQLSTATE 42N51)", err.Error())

	err.WithRoutine("hint resolver").WithDetail("no label scan")
	assert.Equal(t, "hint resolver: cannot use hint (GQLSTATE 42N51) DETAIL: no label scan", err.Error())
}

func TestIsErrorUnwraps(t *testing.T) {
	base := UnsatisfiableScanHintError("n", "Bar")
	wrapped := fmt.Errorf("planning n: %w", base)

	assert.True(t, IsError(wrapped, HintUnsatisfiable))
	assert.False(t, IsError(wrapped, HintConflict))
	assert.False(t, IsError(nil, HintUnsatisfiable))

	got := GetError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "n", got.Variable)
	assert.Equal(t, "Bar", got.Label)
}

func TestGetErrorWrapsForeignErrors(t *testing.T) {
	got := GetError(fmt.Errorf("boom"))
	require.NotNil(t, got)
	assert.Equal(t, InternalError, got.Code)
	assert.Nil(t, GetError(nil))
}

func TestCategoryConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code string
	}{
		{"scan hint", UnsatisfiableScanHintError("n", "Foo"), HintUnsatisfiable},
		{"index hint", UnsatisfiableIndexHintError("n", "Foo", "prop"), HintUnsatisfiable},
		{"conflict", ConflictingHintsError("n", []string{"USING SCAN n:Foo", "USING INDEX n:Foo(prop)"}), HintConflict},
		{"empty candidates", EmptyCandidateSetError("r"), EmptyCandidateSet},
		{"statistics", InconsistentStatisticsError("AllNodes", -1), InconsistentStatistics},
		{"duplicate index", DuplicateIndexError("Foo", "prop", true), DuplicateIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, "42", ClassOf(HintUnsatisfiable))
	assert.Equal(t, "", ClassOf("4"))
	assert.True(t, IsInternal(EmptyCandidateSet))
	assert.True(t, IsInternal(InconsistentStatistics))
	assert.False(t, IsInternal(HintConflict))
}

func TestStoreErrors(t *testing.T) {
	err := UndefinedSnapshotError("prod")
	assert.Equal(t, "catalog snapshot \"prod\" does not exist (GQLSTATE 42N56)", err.Error())

	err = ConnectionError("postgres", fmt.Errorf("connection refused"))
	assert.Equal(t, UnableToEstablishConnection, err.Code)
	assert.Equal(t, "08", ClassOf(err.Code))
	assert.Equal(t, "connection refused", err.Detail)

	err = StoreError("save", fmt.Errorf("disk full"))
	assert.Equal(t, "snapshot store save failed (GQLSTATE 58000) DETAIL: disk full", err.Error())
}
