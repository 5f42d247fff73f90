package models

import (
	"database/sql/driver"
	"fmt"

	json "github.com/goccy/go-json"
)

// JSONObject is a custom type for free-form JSON objects stored in a
// text column. The service stores and returns these verbatim without
// interpreting their internal shape.
type JSONObject map[string]interface{}

// Scan implements sql.Scanner for JSONObject.
func (j *JSONObject) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		if v == "" {
			*j = nil
			return nil
		}
		return json.Unmarshal([]byte(v), j)
	case []byte:
		if len(v) == 0 {
			*j = nil
			return nil
		}
		return json.Unmarshal(v, j)
	default:
		return fmt.Errorf("JSONObject: unsupported type %T", src)
	}
}

// Value implements driver.Valuer for JSONObject.
func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// FactCheckList is a custom type for JSON arrays of fact checks.
type FactCheckList []FactCheck

// Scan implements sql.Scanner for FactCheckList.
func (f *FactCheckList) Scan(src interface{}) error {
	if src == nil {
		*f = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		if v == "" {
			*f = nil
			return nil
		}
		return json.Unmarshal([]byte(v), f)
	case []byte:
		if len(v) == 0 {
			*f = nil
			return nil
		}
		return json.Unmarshal(v, f)
	default:
		return fmt.Errorf("FactCheckList: unsupported type %T", src)
	}
}

// Value implements driver.Valuer for FactCheckList.
func (f FactCheckList) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// SuggestedTodoList is a custom type for JSON arrays of suggested todos.
type SuggestedTodoList []SuggestedTodo

// Scan implements sql.Scanner for SuggestedTodoList.
func (s *SuggestedTodoList) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		if v == "" {
			*s = nil
			return nil
		}
		return json.Unmarshal([]byte(v), s)
	case []byte:
		if len(v) == 0 {
			*s = nil
			return nil
		}
		return json.Unmarshal(v, s)
	default:
		return fmt.Errorf("SuggestedTodoList: unsupported type %T", src)
	}
}

// Value implements driver.Valuer for SuggestedTodoList.
func (s SuggestedTodoList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
