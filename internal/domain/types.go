package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
)

// MapOfAny is persisted as JSON in the database
type MapOfAny map[string]any

// Scan implements the sql.Scanner interface
func (m *MapOfAny) Scan(val interface{}) error {

	var data []byte

	if b, ok := val.([]byte); ok {
		// Clone: the driver reuses the same byte slice for future queries
		data = bytes.Clone(b)
	} else if s, ok := val.(string); ok {
		data = []byte(s)
	} else if val == nil {
		return nil
	}

	return json.Unmarshal(data, m)
}

// Value implements the driver.Valuer interface
func (m MapOfAny) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// StringSlice is persisted as a JSON array in the database
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(val interface{}) error {

	var data []byte

	if b, ok := val.([]byte); ok {
		data = bytes.Clone(b)
	} else if str, ok := val.(string); ok {
		data = []byte(str)
	} else if val == nil {
		return nil
	}

	return json.Unmarshal(data, s)
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Contains reports whether v is present in the slice.
func (s StringSlice) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}
