package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names.
const (
	SchemaMatchRequest        = "match-request"
	SchemaConsultationRequest = "consultation-request"
	SchemaConsultationUpdate  = "consultation-update"
	SchemaMatchScoreInput     = "match-score-input"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins the individual failures into one line.
func (r *ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func schemas() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema, len(schemaSources))
		for name, src := range schemaSources {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// ValidateJSON validates a raw JSON document against a named schema.
func ValidateJSON(schemaName string, raw []byte) (*ValidationResult, error) {
	return validate(schemaName, gojsonschema.NewBytesLoader(raw))
}

// ValidateDocument validates an already decoded value, such as Zeebe job variables.
func ValidateDocument(schemaName string, doc interface{}) (*ValidationResult, error) {
	return validate(schemaName, gojsonschema.NewGoLoader(doc))
}

func validate(schemaName string, loader gojsonschema.JSONLoader) (*ValidationResult, error) {
	all, err := schemas()
	if err != nil {
		return nil, err
	}
	schema, ok := all[schemaName]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", schemaName)
	}

	result, err := schema.Validate(loader)
	if err != nil {
		// unparseable document
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: "body is not valid JSON",
				Code:    "MALFORMED_JSON",
			}},
		}, nil
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}
