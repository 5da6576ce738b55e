package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationKind enumerates the argument validation failure kinds.
type ValidationKind int

const (
	MissingParameter ValidationKind = iota
	InvalidType
	InvalidEnum
	InvalidDateFormat
)

// ValidationError is a single argument validation failure.
type ValidationError struct {
	Kind    ValidationKind
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingParameter(name string) *ValidationError {
	return &ValidationError{
		Kind:    MissingParameter,
		Param:   name,
		Message: fmt.Sprintf("missing required parameter %q", name),
	}
}

func invalidType(name, expected string, actual interface{}) *ValidationError {
	return &ValidationError{
		Kind:    InvalidType,
		Param:   name,
		Message: fmt.Sprintf("parameter %q must be %s, got %T", name, expected, actual),
	}
}

func invalidEnum(name, value string, allowed []string) *ValidationError {
	return &ValidationError{
		Kind:    InvalidEnum,
		Param:   name,
		Message: fmt.Sprintf("parameter %q must be one of %s, got %q", name, strings.Join(allowed, "|"), value),
	}
}

func invalidDateFormat(name, value string) *ValidationError {
	return &ValidationError{
		Kind:    InvalidDateFormat,
		Param:   name,
		Message: fmt.Sprintf("parameter %q must be a date in YYYY-MM-DD format, got %q", name, value),
	}
}

// Args holds validated, typed tool arguments: int for integer parameters,
// string for string, enum, and date parameters (dates normalized to their
// YYYY-MM-DD text).
type Args map[string]interface{}

// Int returns the named integer argument, or 0 when absent.
func (a Args) Int(name string) (int, bool) {
	v, ok := a[name].(int)
	return v, ok
}

// String returns the named string argument, or "" when absent.
func (a Args) String(name string) (string, bool) {
	v, ok := a[name].(string)
	return v, ok
}

// ValidateArgs checks a raw argument mapping against the declared
// parameters. Required keys must be present; declared keys are type
// checked; enum values must be members of the allowed set; date strings
// must parse as YYYY-MM-DD; absent optional parameters take their declared
// default. Unknown keys are ignored.
func ValidateArgs(params []Param, raw map[string]interface{}) (Args, error) {
	args := make(Args, len(params))

	for _, p := range params {
		value, present := raw[p.Name]
		if !present || value == nil {
			if p.Required {
				return nil, missingParameter(p.Name)
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}

		switch p.Kind {
		case KindInt:
			n, ok := asInt(value)
			if !ok {
				return nil, invalidType(p.Name, "an integer", value)
			}
			args[p.Name] = n

		case KindString:
			s, ok := value.(string)
			if !ok {
				return nil, invalidType(p.Name, "a string", value)
			}
			args[p.Name] = s

		case KindEnum:
			s, ok := value.(string)
			if !ok {
				return nil, invalidType(p.Name, "a string", value)
			}
			if !contains(p.Enum, s) {
				return nil, invalidEnum(p.Name, s, p.Enum)
			}
			args[p.Name] = s

		case KindDate:
			s, ok := value.(string)
			if !ok {
				return nil, invalidType(p.Name, "a string", value)
			}
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return nil, invalidDateFormat(p.Name, s)
			}
			args[p.Name] = s
		}
	}

	return args, nil
}

// asInt accepts the numeric encodings JSON arguments arrive in. Fractional
// values are rejected rather than truncated.
func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// CompileSchema compiles a tool input schema as JSON Schema Draft 7. The
// registry compiles every descriptor at construction so an invalid catalog
// entry is a startup error rather than a latent runtime surprise.
func CompileSchema(name string, schemaMap map[string]interface{}) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7 // MCP uses JSON Schema Draft 7

	schemaJSON, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %s: %w", name, err)
	}

	resource := name + ".schema.json"
	if err := compiler.AddResource(resource, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource for %s: %w", name, err)
	}

	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", name, err)
	}

	return schema, nil
}
