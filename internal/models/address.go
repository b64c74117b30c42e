package models

import (
	"fmt"
	"strings"
)

type Address struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// fields returns the comparable address fields in a fixed order.
func (a Address) fields() [7]string {
	return [7]string{a.FullName, a.Street, a.City, a.State, a.Zip, a.Country, a.Phone}
}

var addressFieldNames = [7]string{"fullName", "street", "city", "state", "zip", "country", "phone"}

// Validate reports the first missing field of a new address. Every field is
// required non-empty after trimming.
func (a Address) Validate() error {
	for i, v := range a.fields() {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("missing %s", addressFieldNames[i])
		}
	}
	return nil
}

// SameAs compares two addresses field by field, trimmed and case-insensitive.
// Identity columns (ID, Email) do not participate.
func (a Address) SameAs(other Address) bool {
	af, bf := a.fields(), other.fields()
	for i := range af {
		if !strings.EqualFold(strings.TrimSpace(af[i]), strings.TrimSpace(bf[i])) {
			return false
		}
	}
	return true
}
