package codes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateShape(t *testing.T) {
	for range 500 {
		require.Regexp(t, EntityPattern, Generate())
		require.Regexp(t, ConnectionPattern, GenerateConnectionCode())
	}
}

func TestFromSequenceIsInjective(t *testing.T) {
	seen := make(map[string]int64, 5000)
	for n := int64(1); n <= 5000; n++ {
		code := FromSequence(n)
		require.True(t, Valid(code), code)
		prev, dup := seen[code]
		require.False(t, dup, "sequence %d and %d both map to %s", prev, n, code)
		seen[code] = n
	}
}

func TestFromSequenceEdges(t *testing.T) {
	require.True(t, Valid(FromSequence(0)))
	require.True(t, Valid(FromSequence(int64(codeSpace-1))))
	require.Equal(t, FromSequence(1), FromSequence(int64(codeSpace+1)))
}

func TestSequenceGeneratorUsesCounter(t *testing.T) {
	gen := NewSequenceGenerator(&CounterSequence{})
	first, err := gen.Next(context.Background())
	require.NoError(t, err)
	second, err := gen.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, FromSequence(1), first)
	require.Equal(t, FromSequence(2), second)
}
