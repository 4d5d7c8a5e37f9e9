package enabler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	valid := []string{"E1", "665f1c2e9b1d4a0012ab34cd", "enabler_42", "a-b"}
	for _, id := range valid {
		assert.NoError(t, ValidateID(id), id)
	}

	invalid := []string{"", "   ", "undefined", "NULL", "[object Object]", ":id", " E1", "E1/../x", "e 1"}
	for _, id := range invalid {
		assert.ErrorIs(t, ValidateID(id), ErrInvalidID, id)
	}
	assert.NotErrorIs(t, ValidateID(""), ErrNotFound)
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsVenueCategory("Venue"))
	assert.True(t, IsVenueCategory("event-venue"))
	assert.True(t, IsVenueCategory("Banquet Hall"))
	assert.False(t, IsVenueCategory("caterer"))

	assert.True(t, IsLocationDependent("caterer"))
	assert.True(t, IsLocationDependent("Photographer"))
	assert.False(t, IsLocationDependent("venue"))
	assert.False(t, IsLocationDependent("invitations"))
	assert.False(t, IsLocationDependent(""))
}

func TestPriceAndGuestBounds(t *testing.T) {
	e := Enabler{
		BasePrice: 900,
		MaxGuests: 50,
		Packages: []Package{
			{Price: 400, MinGuests: 10, MaxGuests: 40},
			{Price: 2500, MinGuests: 30, MaxGuests: 150},
			{Price: 0},
		},
	}
	lo, hi := e.PriceBounds()
	assert.Equal(t, 400.0, lo)
	assert.Equal(t, 2500.0, hi)

	minG, maxG := e.GuestBounds()
	assert.Equal(t, 10, minG)
	assert.Equal(t, 150, maxG)

	lo, hi = Enabler{}.PriceBounds()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
