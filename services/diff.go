package services

import (
	"log"
	"time"

	"stuywatch/identity"
	"stuywatch/models"
)

// DiffService partitions an extracted batch against the known set. It is
// insert-only: addresses already in the set are left exactly as stored, and
// nothing is ever removed, so apartments that drop off the site stay known.
type DiffService struct {
	normalize bool
	now       func() time.Time
}

func NewDiffService(normalize bool) *DiffService {
	return &DiffService{normalize: normalize, now: time.Now}
}

// Diff returns the extracted apartments whose address is not yet known, in
// extraction order, stamped with the discovery time, and inserts them into
// the known set. A second call with unchanged inputs returns nothing.
func (s *DiffService) Diff(extracted []models.Apartment, known models.KnownSet) []models.Apartment {
	var newApartments []models.Apartment

	for _, apt := range extracted {
		key := identity.Key(apt.Address, s.normalize)
		if _, ok := known[key]; ok {
			continue
		}

		apt.DiscoveredAt = s.now()
		known[key] = apt
		newApartments = append(newApartments, apt)
		log.Printf("New apartment found: %s - %s", apt.Address, apt.Price)
	}

	return newApartments
}

// Snapshot builds a fresh known set from an extracted batch, for baseline
// runs that seed the store wholesale.
func (s *DiffService) Snapshot(extracted []models.Apartment) models.KnownSet {
	set := models.KnownSet{}
	now := s.now()

	for _, apt := range extracted {
		apt.DiscoveredAt = now
		set[identity.Key(apt.Address, s.normalize)] = apt
	}

	return set
}
