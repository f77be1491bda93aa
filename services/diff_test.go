package services

import (
	"testing"
	"time"

	"stuywatch/models"
)

func fixedDiffService(normalize bool, now time.Time) *DiffService {
	s := NewDiffService(normalize)
	s.now = func() time.Time { return now }
	return s
}

func TestDiff_FirstDiscovery(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	svc := fixedDiffService(false, now)
	known := models.KnownSet{}

	extracted := []models.Apartment{
		{Address: "20 Avenue C, Apt 12A", Price: "$3,200/month"},
	}

	newApartments := svc.Diff(extracted, known)
	if len(newApartments) != 1 {
		t.Fatalf("expected 1 new apartment, got %d", len(newApartments))
	}
	if !newApartments[0].DiscoveredAt.Equal(now) {
		t.Fatalf("expected DiscoveredAt %v, got %v", now, newApartments[0].DiscoveredAt)
	}

	stored, ok := known["20 Avenue C, Apt 12A"]
	if !ok {
		t.Fatal("apartment not inserted into known set")
	}
	if !stored.DiscoveredAt.Equal(now) {
		t.Fatalf("stored DiscoveredAt %v, want %v", stored.DiscoveredAt, now)
	}
}

func TestDiff_Idempotent(t *testing.T) {
	svc := NewDiffService(false)
	known := models.KnownSet{}
	extracted := []models.Apartment{
		{Address: "A", Price: "$1,000"},
		{Address: "B", Price: "$2,000"},
	}

	first := svc.Diff(extracted, known)
	if len(first) != 2 {
		t.Fatalf("expected 2 new on first pass, got %d", len(first))
	}

	second := svc.Diff(extracted, known)
	if len(second) != 0 {
		t.Fatalf("expected 0 new on second pass, got %d", len(second))
	}
}

func TestDiff_KnownEntriesNeverUpdated(t *testing.T) {
	discovered := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewDiffService(false)
	known := models.KnownSet{
		"A": {Address: "A", Price: "$1,000", DiscoveredAt: discovered},
	}

	extracted := []models.Apartment{
		{Address: "A", Price: "$1,500"}, // price changed, still the same apartment
		{Address: "B", Price: "$2,000"},
	}

	newApartments := svc.Diff(extracted, known)
	if len(newApartments) != 1 || newApartments[0].Address != "B" {
		t.Fatalf("expected only B to be new, got %+v", newApartments)
	}

	a := known["A"]
	if a.Price != "$1,000" {
		t.Fatalf("known price must not be updated, got %q", a.Price)
	}
	if !a.DiscoveredAt.Equal(discovered) {
		t.Fatalf("DiscoveredAt must never change, got %v", a.DiscoveredAt)
	}
	if len(known) != 2 {
		t.Fatalf("expected 2 entries in known set, got %d", len(known))
	}
}

func TestDiff_NeverRemoves(t *testing.T) {
	svc := NewDiffService(false)
	known := models.KnownSet{
		"gone": {Address: "gone", Price: "$9,999"},
	}

	svc.Diff([]models.Apartment{{Address: "here", Price: "$1"}}, known)

	if _, ok := known["gone"]; !ok {
		t.Fatal("apartment that left the site must stay in the known set")
	}
}

func TestDiff_DuplicateAddressInBatch(t *testing.T) {
	svc := NewDiffService(false)
	known := models.KnownSet{}

	extracted := []models.Apartment{
		{Address: "A", Price: "$1,000"},
		{Address: "A", Price: "$1,200"},
	}

	newApartments := svc.Diff(extracted, known)
	if len(newApartments) != 1 {
		t.Fatalf("duplicate address must only be new once, got %d", len(newApartments))
	}
	if known["A"].Price != "$1,000" {
		t.Fatalf("first occurrence must win, got %q", known["A"].Price)
	}
}

func TestDiff_ExactMatchingByDefault(t *testing.T) {
	// Default behavior: formatting differences make distinct apartments.
	// This fragility is deliberate; see the identity package.
	svc := NewDiffService(false)
	known := models.KnownSet{
		"20 Avenue C, Apt 12A": {Address: "20 Avenue C, Apt 12A", Price: "$3,200/month"},
	}

	extracted := []models.Apartment{
		{Address: "20 avenue c, apt 12a", Price: "$3,200/month"},
		{Address: "20 Avenue C,  Apt 12A", Price: "$3,200/month"},
	}

	newApartments := svc.Diff(extracted, known)
	if len(newApartments) != 2 {
		t.Fatalf("exact matching must treat reformatted addresses as new, got %d", len(newApartments))
	}
}

func TestDiff_NormalizedMatchingOptIn(t *testing.T) {
	svc := NewDiffService(true)
	known := models.KnownSet{}

	svc.Diff([]models.Apartment{{Address: "20 Avenue C, Apt 12A", Price: "$1"}}, known)
	newApartments := svc.Diff([]models.Apartment{{Address: "20 avenue c  apt 12a", Price: "$1"}}, known)

	if len(newApartments) != 0 {
		t.Fatalf("normalized matching must fold formatting differences, got %d new", len(newApartments))
	}
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	svc := fixedDiffService(false, now)

	set := svc.Snapshot([]models.Apartment{
		{Address: "A", Price: "$1,000"},
		{Address: "B", Price: "$2,000"},
	})

	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
	for key, apt := range set {
		if !apt.DiscoveredAt.Equal(now) {
			t.Fatalf("%s: DiscoveredAt %v, want %v", key, apt.DiscoveredAt, now)
		}
	}
}
