package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList persists a []string as a JSON array in a TEXT column so the same
// schema works on Postgres and SQLite.
type StringList []string

func (l *StringList) Scan(src any) error {
	raw, err := rawText(src)
	if err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	if raw == "" || raw == "null" {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	*l = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// StringMap persists a map[string]string as a JSON object.
type StringMap map[string]string

func (m *StringMap) Scan(src any) error {
	raw, err := rawText(src)
	if err != nil {
		return fmt.Errorf("StringMap: %w", err)
	}
	if raw == "" || raw == "null" {
		*m = StringMap{}
		return nil
	}
	out := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fmt.Errorf("StringMap: %w", err)
	}
	*m = out
	return nil
}

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func rawText(src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case []byte:
		return strings.TrimSpace(string(v)), nil
	default:
		return "", fmt.Errorf("unsupported Scan type %T", src)
	}
}
