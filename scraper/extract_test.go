package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"stuywatch/config"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func testSite() *config.SiteConfig {
	return &config.SiteConfig{
		ID:      "stuytown",
		URL:     "https://www.stuytown.com/nyc-apartments-for-rent/",
		BaseURL: "https://www.stuytown.com",
		Selectors: config.Selectors{
			Container:    ".bG_cM",
			Address:      ".bG_cQ",
			Price:        ".bG_jY",
			Bedrooms:     ".bG_2",
			Availability: ".bG_bz",
			URL:          ".bG_ct",
		},
	}
}

func TestExtract_Basic(t *testing.T) {
	html := loadFixture(t, "stuytown_listings.html")
	extractor := NewExtractor(testSite())

	apartments, skipped, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	// Five containers, one missing price, one missing address.
	if len(apartments) != 3 {
		t.Fatalf("expected 3 apartments, got %d", len(apartments))
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped containers, got %d", skipped)
	}

	first := apartments[0]
	if first.Address != "20 Avenue C, Apt 12A" {
		t.Fatalf("unexpected address %q", first.Address)
	}
	if first.Price != "$3,200/month" {
		t.Fatalf("unexpected price %q", first.Price)
	}
	if first.Bedrooms != "1 Bed, 1 Bath" {
		t.Fatalf("unexpected bedrooms %q", first.Bedrooms)
	}
	if first.Availability != "Available Now" {
		t.Fatalf("unexpected availability %q", first.Availability)
	}
	if !first.DiscoveredAt.IsZero() {
		t.Fatalf("DiscoveredAt must stay zero at extraction time, got %v", first.DiscoveredAt)
	}
}

func TestExtract_PreservesDOMOrder(t *testing.T) {
	html := loadFixture(t, "stuytown_listings.html")
	extractor := NewExtractor(testSite())

	apartments, _, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	want := []string{
		"20 Avenue C, Apt 12A",
		"453 East 14th Street, Apt 8F",
		"272 First Avenue, Apt 15G",
	}
	for i, addr := range want {
		if apartments[i].Address != addr {
			t.Fatalf("position %d: expected %q, got %q", i, addr, apartments[i].Address)
		}
	}
}

func TestExtract_URLResolution(t *testing.T) {
	html := loadFixture(t, "stuytown_listings.html")
	extractor := NewExtractor(testSite())

	apartments, _, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	// Relative href gets the base URL prefixed.
	if apartments[0].URL != "https://www.stuytown.com/apartment/20-avenue-c-12a" {
		t.Fatalf("unexpected resolved URL %q", apartments[0].URL)
	}
	// Absolute href passes through.
	if apartments[1].URL != "https://www.stuytown.com/apartment/453-east-14th-8f" {
		t.Fatalf("unexpected absolute URL %q", apartments[1].URL)
	}
	// No link element falls back to the search URL.
	if apartments[2].URL != "https://www.stuytown.com/nyc-apartments-for-rent/" {
		t.Fatalf("unexpected fallback URL %q", apartments[2].URL)
	}
}

func TestExtract_KeepsTextVerbatim(t *testing.T) {
	// Addresses differing only in whitespace are distinct apartments; the
	// extractor must not trim or collapse anything.
	html := `<div class="bG_cM">
		<div class="bG_cQ"> 20 Avenue C,  Apt 12A </div>
		<div class="bG_jY">$3,200/month</div>
	</div>`
	extractor := NewExtractor(testSite())

	apartments, _, err := extractor.Extract(html)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(apartments) != 1 {
		t.Fatalf("expected 1 apartment, got %d", len(apartments))
	}
	if apartments[0].Address != " 20 Avenue C,  Apt 12A " {
		t.Fatalf("address was altered: %q", apartments[0].Address)
	}
}

func TestExtract_NoContainers(t *testing.T) {
	extractor := NewExtractor(testSite())

	apartments, skipped, err := extractor.Extract("<html><body><p>maintenance</p></body></html>")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(apartments) != 0 || skipped != 0 {
		t.Fatalf("expected nothing, got %d apartments, %d skipped", len(apartments), skipped)
	}
}
