package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookverse/bookverse-api/internal/models"
)

func validAddress() models.Address {
	return models.Address{
		FullName: "A", Street: "B", City: "C", State: "D",
		Zip: "1", Country: "E", Phone: "9",
	}
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, validAddress().Validate())

	missingCity := validAddress()
	missingCity.City = "   "
	err := missingCity.Validate()
	assert.EqualError(t, err, "missing city")
}

func TestAddressSameAs_CaseAndWhitespaceInsensitive(t *testing.T) {
	saved := validAddress()

	entered := models.Address{
		FullName: " a ", Street: "b", City: " C", State: "d",
		Zip: "1 ", Country: "e", Phone: " 9",
	}
	assert.True(t, entered.SameAs(saved))
}

func TestAddressSameAs_SingleFieldDifference(t *testing.T) {
	saved := validAddress()

	entered := validAddress()
	entered.Zip = "2"
	assert.False(t, entered.SameAs(saved))
}
