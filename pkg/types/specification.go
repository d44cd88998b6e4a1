package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Specification is a single name/value attribute on a product.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Specifications is the ordered attribute list persisted as JSONB.
type Specifications []Specification

// Value marshals the list into JSON for the database.
func (s Specifications) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the list.
func (s *Specifications) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	raw, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("specifications: %w", err)
	}
	result := Specifications{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
