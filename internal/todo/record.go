package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Record is the on-disk form of a task.
type Record struct {
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	Completed   bool    `json:"completed"`
}

// Field decoding errors.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrMissingField = errors.New("missing required field")
	ErrFieldType    = errors.New("wrong type")
	ErrInvalidDate  = errors.New("not a calendar date")
)

// FieldError reports a problem with one key of a task record.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

var recordFields = []string{"description", "priority", "due_date", "completed"}

var jsonNull = []byte("null")

// UnmarshalJSON decodes a record field by field. Unknown keys, missing keys
// and values of the wrong type are rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return &FieldError{Err: fmt.Errorf("%w: record is null", ErrFieldType)}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FieldError{Err: fmt.Errorf("%w: record must be an object", ErrFieldType)}
	}

	unknown := make([]string, 0)
	for key := range raw {
		if !isRecordField(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &FieldError{Field: unknown[0], Err: ErrUnknownField}
	}
	for _, key := range recordFields {
		if _, ok := raw[key]; !ok {
			return &FieldError{Field: key, Err: ErrMissingField}
		}
	}

	var out Record
	if err := decodeString(raw, "description", &out.Description); err != nil {
		return err
	}
	if err := decodeString(raw, "priority", &out.Priority); err != nil {
		return err
	}
	if err := decodeBool(raw, "completed", &out.Completed); err != nil {
		return err
	}
	if !bytes.Equal(bytes.TrimSpace(raw["due_date"]), jsonNull) {
		var due string
		if err := decodeString(raw, "due_date", &due); err != nil {
			return err
		}
		out.DueDate = &due
	}

	*r = out
	return nil
}

func isRecordField(key string) bool {
	for _, f := range recordFields {
		if f == key {
			return true
		}
	}
	return false
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v := raw[key]
	if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
		return &FieldError{Field: key, Err: fmt.Errorf("%w: expected string, got null", ErrFieldType)}
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return &FieldError{Field: key, Err: fmt.Errorf("%w: expected string", ErrFieldType)}
	}
	return nil
}

func decodeBool(raw map[string]json.RawMessage, key string, dst *bool) error {
	v := raw[key]
	if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
		return &FieldError{Field: key, Err: fmt.Errorf("%w: expected boolean, got null", ErrFieldType)}
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return &FieldError{Field: key, Err: fmt.Errorf("%w: expected boolean", ErrFieldType)}
	}
	return nil
}
