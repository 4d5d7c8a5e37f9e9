package enabler

import (
	"errors"
	"fmt"
	"strings"

	"enablers/internal/domain/shared/ident"
)

var (
	ErrInvalidID = errors.New("enabler: invalid id")
	ErrNotFound  = errors.New("enabler: not found")
)

// Enabler is a vendor profile offering a service for events.
type Enabler struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Category      string    `bson:"category" json:"category"`
	Industry      string    `bson:"industry" json:"industry"`
	ServiceArea   string    `bson:"service_area" json:"service_area"`
	BasePrice     float64   `bson:"base_price" json:"base_price"`
	AverageRating float64   `bson:"average_rating" json:"average_rating"`
	MinGuests     int       `bson:"min_guests" json:"min_guests"`
	MaxGuests     int       `bson:"max_guests" json:"max_guests"`
	Packages      []Package `bson:"packages" json:"packages"`
}

// Package is a priced bundle an enabler offers.
type Package struct {
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	MinGuests int     `bson:"min_guests" json:"min_guests"`
	MaxGuests int     `bson:"max_guests" json:"max_guests"`
}

// ValidateID rejects empty, placeholder and malformed identifiers before any
// store is consulted. The error is distinct from ErrNotFound.
func ValidateID(id string) error {
	if err := ident.Check(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return nil
}

// IsVenue reports whether the enabler rents out the event location itself.
func (e Enabler) IsVenue() bool {
	return IsVenueCategory(e.Category)
}

// ServesLocation matches the declared service area against a free-form event
// location, case-insensitively. Empty and global areas serve everywhere.
func (e Enabler) ServesLocation(location string) bool {
	area := strings.ToLower(strings.TrimSpace(e.ServiceArea))
	if area == "" || area == "global" || area == "worldwide" {
		return true
	}
	return strings.Contains(strings.ToLower(location), area)
}

// PriceBounds returns the cheapest and the most expensive offer. Zero means unknown.
func (e Enabler) PriceBounds() (lowest, highest float64) {
	prices := make([]float64, 0, len(e.Packages)+1)
	if e.BasePrice > 0 {
		prices = append(prices, e.BasePrice)
	}
	for _, p := range e.Packages {
		if p.Price > 0 {
			prices = append(prices, p.Price)
		}
	}
	for i, p := range prices {
		if i == 0 || p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
	}
	return lowest, highest
}

// GuestBounds returns the guest capacity the enabler can serve. Zero means unbounded.
func (e Enabler) GuestBounds() (minGuests, maxGuests int) {
	minGuests, maxGuests = e.MinGuests, e.MaxGuests
	for _, p := range e.Packages {
		if p.MinGuests > 0 && (minGuests == 0 || p.MinGuests < minGuests) {
			minGuests = p.MinGuests
		}
		if p.MaxGuests > maxGuests {
			maxGuests = p.MaxGuests
		}
	}
	return minGuests, maxGuests
}
