package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ShippingAddress captures the order delivery destination, persisted as
// JSONB.
type ShippingAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Value marshals the address into JSON for the database.
func (a ShippingAddress) Value() (driver.Value, error) {
	buf, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the address.
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}

	raw, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("shipping address: %w", err)
	}
	return json.Unmarshal(raw, a)
}
