package config

import (
	"embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/Masterminds/semver/v3"

	oerrors "github.com/opmodel/release/internal/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap ties validation failures to ErrValidation.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Config")),
	}, nil
}

// Validate validates the given configuration. It returns ValidationErrors
// listing every offending field.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors

	value := v.schema.Unify(v.ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			errs = append(errs, ValidationError{
				Field:   fieldPath(e.Path()),
				Message: fmt.Sprintf(format, args...),
			})
		}
	}

	if cfg.Requires != "" {
		if _, err := semver.NewConstraint(cfg.Requires); err != nil {
			errs = append(errs, ValidationError{
				Field:   "requires",
				Message: fmt.Sprintf("must be a version constraint: %v", err),
			})
		}
	}

	for name := range cfg.Variables {
		if strings.ContainsAny(name, "${} ") {
			errs = append(errs, ValidationError{
				Field:   "variables." + name,
				Message: "name must not contain '$', braces or spaces",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// fieldPath joins a CUE error path, dropping definition selectors.
func fieldPath(path []string) string {
	fields := make([]string, 0, len(path))
	for _, p := range path {
		if !strings.HasPrefix(p, "#") {
			fields = append(fields, p)
		}
	}
	return strings.Join(fields, ".")
}

// ValidateFile loads and validates a configuration file.
func (v *Validator) ValidateFile(path string) error {
	store, err := NewLoader().Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	cfg, err := store.Config()
	if err != nil {
		return err
	}
	return v.Validate(cfg)
}
