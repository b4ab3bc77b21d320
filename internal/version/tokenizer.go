package version

import (
	"fmt"
	"strconv"
	"strings"

	oerrors "github.com/opmodel/release/internal/errors"
)

// snapshotSeparator introduces the snapshot counter of a version literal.
const snapshotSeparator = "-SNAPSHOT-"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	// TokenEOF marks the end of the literal.
	TokenEOF TokenKind = iota
	// TokenNumber is a non-negative numeric component.
	TokenNumber
	// TokenDot is the "." component separator.
	TokenDot
	// TokenSnapshot is the "-SNAPSHOT-" separator.
	TokenSnapshot
)

// String returns a human-readable token kind for error messages.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of version"
	case TokenNumber:
		return "number"
	case TokenDot:
		return `"."`
	case TokenSnapshot:
		return fmt.Sprintf("%q", snapshotSeparator)
	default:
		return "unknown token"
	}
}

// IsSeparator reports whether the kind separates two components.
func (k TokenKind) IsSeparator() bool {
	return k == TokenDot || k == TokenSnapshot
}

// Token is a single lexical element of a version literal.
type Token struct {
	Kind TokenKind
	// Value holds the parsed component for TokenNumber.
	Value int
	// Text is the raw text the token was read from.
	Text string
	// Offset is the byte offset of the token in the literal.
	Offset int
}

// Tokenizer lexes a version literal one token at a time.
type Tokenizer struct {
	literal string
	pos     int
}

// NewTokenizer returns a tokenizer positioned at the start of literal.
func NewTokenizer(literal string) *Tokenizer {
	return &Tokenizer{literal: literal}
}

// Next returns the next token. Once the literal is exhausted it keeps
// returning TokenEOF.
func (t *Tokenizer) Next() (Token, error) {
	if t.pos >= len(t.literal) {
		return Token{Kind: TokenEOF, Offset: t.pos}, nil
	}

	start := t.pos
	switch t.literal[t.pos] {
	case '.':
		t.pos++
		return Token{Kind: TokenDot, Text: ".", Offset: start}, nil
	case '-':
		if !strings.HasPrefix(t.literal[t.pos:], snapshotSeparator) {
			return Token{}, t.errorf("expected %q at offset %d", snapshotSeparator, start)
		}
		t.pos += len(snapshotSeparator)
		return Token{Kind: TokenSnapshot, Text: snapshotSeparator, Offset: start}, nil
	}

	end := strings.IndexAny(t.literal[t.pos:], ".-")
	if end < 0 {
		end = len(t.literal)
	} else {
		end += t.pos
	}
	text := t.literal[start:end]
	t.pos = end

	n, err := parseComponent(text)
	if err != nil {
		return Token{}, t.errorf("component %q: %v", text, err)
	}
	return Token{Kind: TokenNumber, Value: n, Text: text, Offset: start}, nil
}

// Tokens lexes the whole literal, excluding the trailing TokenEOF.
func (t *Tokenizer) Tokens() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (t *Tokenizer) errorf(format string, args ...any) error {
	return &FormatError{Literal: t.literal, Reason: fmt.Sprintf(format, args...)}
}

// parseComponent converts a run of characters to a component value. Only
// ASCII digits are accepted; signs and whitespace are rejected.
func parseComponent(text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("empty component")
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return 0, fmt.Errorf("not a number")
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("out of range")
	}
	return n, nil
}

// FormatError reports a malformed version literal.
type FormatError struct {
	// Literal is the offending input.
	Literal string
	// Reason describes what is wrong with it.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Literal, e.Reason)
}

// Unwrap ties FormatError to the ErrFormat sentinel.
func (e *FormatError) Unwrap() error {
	return oerrors.ErrFormat
}
