package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePredicate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"n:Awesome", "n:Awesome"},
		{"n.prop = 42", "n.prop = 42"},
		{"n.name = 'Ann'", "n.name = 'Ann'"},
		{`n.name = "Ann"`, "n.name = 'Ann'"},
		{"n.prop IN [1, 2, 3]", "n.prop IN [1, 2, 3]"},
		{"n.prop in [1..4]", "n.prop IN [1, 2, 3, 4]"},
		{"n.prop IN $values", "n.prop IN $values"},
		{"id(n) = 42", "id(n) = 42"},
		{"id(r) IN [1, 2]", "id(r) IN [1, 2]"},
		{"ID(r) in []", "id(r) IN []"},
		{"n.score = 0.5", "n.score = 0.5"},
		{"n.flag = true", "n.flag = true"},
		{"  n:Padded  ", "n:Padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePredicate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.String())
		})
	}
}

func TestParsePredicateKinds(t *testing.T) {
	p, err := ParsePredicate("n.prop IN [1..15]")
	require.NoError(t, err)
	in, ok := p.(*PropertyIn)
	require.True(t, ok)
	n, ok := CollectionSize(in.Values)
	require.True(t, ok)
	assert.Equal(t, 15, n)

	p, err = ParsePredicate("id(r) = $id")
	require.NoError(t, err)
	eq, ok := p.(*IDEquals)
	require.True(t, ok)
	assert.Equal(t, "r", eq.Var())
	assert.IsType(t, &Parameter{}, eq.ID)
}

func TestParsePredicateErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"n",
		"n.prop >= 3",
		"n.prop = ",
		"n.prop IN [1, 2",
		"n.prop IN [5..1]",
		"n.prop = bare",
		"id(n) = [1, ]",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePredicate(input)
			assert.Error(t, err)
		})
	}
}

func TestParseHint(t *testing.T) {
	h, err := ParseHint("USING INDEX n:Person(name)")
	require.NoError(t, err)
	assert.Equal(t, &UsingIndexHint{Variable: "n", Label: Unresolved("Person"), Property: Unresolved("name")}, h)

	h, err = ParseHint("using scan n:Bar")
	require.NoError(t, err)
	assert.Equal(t, "USING SCAN n:Bar", h.String())

	_, err = ParseHint("USING JOIN ON n")
	assert.Error(t, err)
}
