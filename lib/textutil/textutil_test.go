package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Black", expected: "black"},
		{input: " Trans-Dark Blue\n", expected: "trans-darkblue"},
		{input: "Light Bluish  Gray", expected: "lightbluishgray"},
	}
	for _, row := range table {
		require.Equal(t, row.expected, NormalizeName(row.input))
	}
}

func TestMatchNameFuzzy(t *testing.T) {
	require.True(t, MatchNameFuzzy("Trans-Clear", []string{"trans clear"}, 0.9))
	require.True(t, MatchNameFuzzy("Light Bluish Gray", []string{"bluish"}, 0.9))
	require.True(t, MatchNameFuzzy("Light Bluish Gray", []string{"Light Bluish Grey"}, 0.9))
	require.False(t, MatchNameFuzzy("Black", []string{"White"}, 0.9))
	require.False(t, MatchNameFuzzy("Black", nil, 0.9))
	require.Equal(t, 1.0, Similarity("Dark Red", "dark red"))
}
