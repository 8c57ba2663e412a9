package todo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaSource string

const schemaURL = "https://github.com/nibzard/todo-go/tasks.schema.json"

// Schema returns the JSON Schema for task files.
func Schema() string {
	return schemaSource
}

// ValidationError represents a schema violation with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("add task schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// ValidateDocument checks raw task file content against the task schema.
// The returned error joins one *ValidationError per violation.
func ValidateDocument(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile task schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse task file: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var errs []error
		collectSchemaErrors(&errs, err)
		return errors.Join(errs...)
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		*errs = append(*errs, err)
		return
	}

	if len(ve.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(ve.InstanceLocation),
			Err:  errors.New(ve.Message),
		})
		return
	}

	for _, cause := range ve.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/2/completed" into "[2].completed".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
