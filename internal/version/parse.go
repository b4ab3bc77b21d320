package version

import "fmt"

// parseState is the component the parser expects next.
type parseState int

const (
	stateMajor parseState = iota
	stateMinor
	statePatch
	stateSnapshot
	stateTerminal
)

// Parse parses a version literal. It fails with a *FormatError (wrapping
// ErrFormat) when the major component is missing, a component is not a
// number, a component is empty, or components follow the snapshot counter.
func Parse(literal string) (*Version, error) {
	p := parser{tokenizer: NewTokenizer(literal), literal: literal, prev: TokenEOF}
	return p.parse()
}

type parser struct {
	tokenizer *Tokenizer
	literal   string
	state     parseState
	prev      TokenKind
	version   Version
}

func (p *parser) parse() (*Version, error) {
	for {
		tok, err := p.tokenizer.Next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == TokenEOF {
			if p.state == stateMajor {
				return nil, p.errorf("missing major component")
			}
			if p.prev.IsSeparator() {
				return nil, p.errorf("empty component after %s", p.prev)
			}
			v := p.version
			return &v, nil
		}

		if tok.Kind.IsSeparator() && p.prev.IsSeparator() {
			return nil, p.errorf("empty component at offset %d", tok.Offset)
		}

		if err := p.consume(tok); err != nil {
			return nil, err
		}
		p.prev = tok.Kind
	}
}

// consume applies one token to the state machine. A dot keeps the minor and
// patch states where they are; the snapshot separator jumps to the snapshot
// state.
func (p *parser) consume(tok Token) error {
	switch p.state {
	case stateMajor:
		if tok.Kind != TokenNumber {
			return p.errorf("missing major component, found %s", tok.Kind)
		}
		p.version.major = tok.Value
		p.state = stateMinor

	case stateMinor, statePatch:
		switch tok.Kind {
		case TokenDot:
		case TokenSnapshot:
			p.state = stateSnapshot
		case TokenNumber:
			if p.state == stateMinor {
				p.version.minor = some(tok.Value)
				p.state = statePatch
			} else {
				p.version.patch = some(tok.Value)
				p.state = stateSnapshot
			}
		}

	case stateSnapshot:
		switch tok.Kind {
		case TokenSnapshot:
		case TokenNumber:
			if p.prev != TokenSnapshot {
				return p.errorf("expected %s before snapshot counter", TokenSnapshot)
			}
			p.version.snapshot = some(tok.Value)
			p.state = stateTerminal
		default:
			return p.errorf("unexpected %s at offset %d, only a snapshot counter may follow the patch component", tok.Kind, tok.Offset)
		}

	case stateTerminal:
		return p.errorf("unexpected %s at offset %d after the snapshot counter", tok.Kind, tok.Offset)
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &FormatError{Literal: p.literal, Reason: fmt.Sprintf(format, args...)}
}
