package scope

import (
	"strings"

	oerrors "github.com/opmodel/release/internal/errors"
)

// Policy decides what Evaluate does with a placeholder nothing resolves.
type Policy int

const (
	// FailOnUnresolved fails with an *UndeclaredError.
	FailOnUnresolved Policy = iota
	// KeepUnresolved leaves the placeholder text in place for a later pass.
	KeepUnresolved
	// EmptyUnresolved renders the placeholder as an empty string.
	EmptyUnresolved
)

const (
	placeholderOpen  = "${"
	placeholderClose = "}"
)

// Evaluate expands every ${name} placeholder in expr through s. Resolved
// values are inserted verbatim and not expanded again. An unterminated
// placeholder or an empty name fails with ErrFormat.
func Evaluate(s Scope, expr string, policy Policy) (string, error) {
	if !strings.Contains(expr, placeholderOpen) {
		return expr, nil
	}

	var b strings.Builder
	rest := expr
	for {
		start := strings.Index(rest, placeholderOpen)
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:start])

		body := rest[start+len(placeholderOpen):]
		end := strings.Index(body, placeholderClose)
		if end < 0 {
			return "", oerrors.Wrapf(oerrors.ErrFormat, "unterminated placeholder in %q", expr)
		}
		name := strings.TrimSpace(body[:end])
		if name == "" {
			return "", oerrors.Wrapf(oerrors.ErrFormat, "empty placeholder in %q", expr)
		}

		value, ok := s.Get(name)
		switch {
		case ok:
			b.WriteString(value)
		case policy == KeepUnresolved:
			b.WriteString(rest[start : start+len(placeholderOpen)+end+len(placeholderClose)])
		case policy == EmptyUnresolved:
		default:
			return "", &UndeclaredError{Name: name}
		}
		rest = body[end+len(placeholderClose):]
	}
}

// Placeholders returns the names referenced by expr in order of appearance,
// without duplicates. Malformed placeholders are skipped.
func Placeholders(expr string) []string {
	var names []string
	seen := make(map[string]bool)
	rest := expr
	for {
		start := strings.Index(rest, placeholderOpen)
		if start < 0 {
			return names
		}
		body := rest[start+len(placeholderOpen):]
		end := strings.Index(body, placeholderClose)
		if end < 0 {
			return names
		}
		if name := strings.TrimSpace(body[:end]); name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = body[end+len(placeholderClose):]
	}
}
