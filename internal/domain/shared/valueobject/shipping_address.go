package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingAddress is a value object representing an order delivery address.
// All fields are required; validation reports the first missing field so
// the API can surface it directly.
type ShippingAddress struct {
	name    string
	address string
	city    string
	state   string
	zip     string
	country string
}

// requiredAddressField pairs a field label with its value for ordered validation
type requiredAddressField struct {
	label string
	value string
}

// NewShippingAddress creates a validated ShippingAddress
func NewShippingAddress(name, address, city, state, zip, country string) (ShippingAddress, error) {
	a := ShippingAddress{
		name:    strings.TrimSpace(name),
		address: strings.TrimSpace(address),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zip:     strings.TrimSpace(zip),
		country: strings.TrimSpace(country),
	}
	if err := a.Validate(); err != nil {
		return ShippingAddress{}, err
	}
	return a, nil
}

// Validate checks all required fields, reporting the first missing one
func (a ShippingAddress) Validate() error {
	fields := []requiredAddressField{
		{"name", a.name},
		{"address", a.address},
		{"city", a.city},
		{"state", a.state},
		{"zip", a.zip},
		{"country", a.country},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("shipping address field %q is required", f.label)
		}
	}
	if len(a.name) > 200 {
		return fmt.Errorf("shipping address field %q cannot exceed 200 characters", "name")
	}
	if len(a.address) > 500 {
		return fmt.Errorf("shipping address field %q cannot exceed 500 characters", "address")
	}
	return nil
}

// IsZero returns true if no field has been set
func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}

// Name returns the recipient name
func (a ShippingAddress) Name() string { return a.name }

// Address returns the street address
func (a ShippingAddress) Address() string { return a.address }

// City returns the city
func (a ShippingAddress) City() string { return a.city }

// State returns the state or province
func (a ShippingAddress) State() string { return a.state }

// Zip returns the postal code
func (a ShippingAddress) Zip() string { return a.zip }

// Country returns the country
func (a ShippingAddress) Country() string { return a.country }

// String returns a single-line representation
func (a ShippingAddress) String() string {
	return fmt.Sprintf("%s, %s, %s, %s %s, %s", a.name, a.address, a.city, a.state, a.zip, a.country)
}

// shippingAddressJSON is the serialized form of ShippingAddress
type shippingAddressJSON struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a ShippingAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(shippingAddressJSON{
		Name:    a.name,
		Address: a.address,
		City:    a.city,
		State:   a.state,
		Zip:     a.zip,
		Country: a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *ShippingAddress) UnmarshalJSON(data []byte) error {
	var raw shippingAddressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.name = raw.Name
	a.address = raw.Address
	a.city = raw.City
	a.state = raw.State
	a.zip = raw.Zip
	a.country = raw.Country
	return nil
}

// Value implements driver.Valuer for database storage
func (a ShippingAddress) Value() (driver.Value, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (a *ShippingAddress) Scan(value interface{}) error {
	if value == nil {
		*a = ShippingAddress{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into ShippingAddress", value)
	}
}
