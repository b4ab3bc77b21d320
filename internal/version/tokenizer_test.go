package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/release/internal/errors"
)

func TestTokenizer_Tokens(t *testing.T) {
	tokens, err := NewTokenizer("1.20.3-SNAPSHOT-4").Tokens()
	require.NoError(t, err)

	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{
		TokenNumber, TokenDot, TokenNumber, TokenDot, TokenNumber, TokenSnapshot, TokenNumber,
	}, kinds)

	assert.Equal(t, 20, tokens[2].Value)
	assert.Equal(t, 2, tokens[2].Offset)
	assert.Equal(t, 4, tokens[6].Value)
}

func TestTokenizer_EOFIsSticky(t *testing.T) {
	tz := NewTokenizer("7")
	tok, err := tz.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenNumber, tok.Kind)

	for range 2 {
		tok, err = tz.Next()
		require.NoError(t, err)
		assert.Equal(t, TokenEOF, tok.Kind)
	}
}

func TestTokenizer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		literal string
	}{
		{name: "incomplete snapshot separator", literal: "1.0-SNAP"},
		{name: "lowercase snapshot separator", literal: "1.0-snapshot-1"},
		{name: "bare dash", literal: "1-2"},
		{name: "letters", literal: "1.x"},
		{name: "plus sign", literal: "+1"},
		{name: "whitespace", literal: "1. 2"},
		{name: "overflow", literal: "99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenizer(tt.literal).Tokens()
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrFormat))

			var formatErr *FormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, tt.literal, formatErr.Literal)
		})
	}
}

func TestTokenKind_String(t *testing.T) {
	assert.Equal(t, `"."`, TokenDot.String())
	assert.Equal(t, `"-SNAPSHOT-"`, TokenSnapshot.String())
	assert.True(t, TokenSnapshot.IsSeparator())
	assert.False(t, TokenNumber.IsSeparator())
}
