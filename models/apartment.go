package models

import "time"

// Apartment is one rental unit as rendered on the listing page. Address is
// the identity key: two records with the same address are the same apartment
// regardless of price or availability differences. Field values are kept
// verbatim as extracted, no trimming or reformatting.
type Apartment struct {
	Address      string    `json:"address"`
	Price        string    `json:"price"`
	Bedrooms     string    `json:"bedrooms,omitempty"`
	Availability string    `json:"availability,omitempty"`
	URL          string    `json:"url,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// KnownSet maps an address key to the apartment first seen under it.
// Entries are insert-only: an apartment that disappears from the site stays
// in the set, and a later listing with a different price under a known
// address never updates the stored record.
type KnownSet map[string]Apartment
