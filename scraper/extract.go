package scraper

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"stuywatch/config"
	"stuywatch/models"
)

// Extractor turns a fully-scrolled page's HTML into apartment records using
// the selector map from the site config.
type Extractor struct {
	site *config.SiteConfig
}

func NewExtractor(site *config.SiteConfig) *Extractor {
	return &Extractor{site: site}
}

// Extract walks every listing container and reads the configured fields.
// Field text is kept verbatim: the known set keys on the exact rendered
// address string, so trimming here would silently change identities.
// Containers missing address or price are dropped and counted, never an
// error. Returns the records in DOM order plus the skipped count.
func (e *Extractor) Extract(html string) ([]models.Apartment, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse page: %w", err)
	}

	sel := e.site.Selectors
	containers := doc.Find(sel.Container)
	log.Printf("Found %d apartment containers", containers.Length())

	var apartments []models.Apartment
	skipped := 0

	containers.Each(func(i int, container *goquery.Selection) {
		address := fieldText(container, sel.Address)
		price := fieldText(container, sel.Price)

		if address == "" || price == "" {
			log.Printf("Skipping container %d, missing required data - address: %q, price: %q", i, address, price)
			skipped++
			return
		}

		apt := models.Apartment{
			Address:      address,
			Price:        price,
			Bedrooms:     fieldText(container, sel.Bedrooms),
			Availability: fieldText(container, sel.Availability),
			URL:          e.unitURL(container, sel.URL),
		}

		apartments = append(apartments, apt)
	})

	log.Printf("Extracted %d apartments (%d skipped)", len(apartments), skipped)
	return apartments, skipped, nil
}

// fieldText reads the full text content of the first match, including nodes
// outside the viewport at scrape time.
func fieldText(container *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return container.Find(selector).First().Text()
}

// unitURL resolves the listing deep link. Relative hrefs get the site base
// prefixed; a container without a link falls back to the search URL itself.
func (e *Extractor) unitURL(container *goquery.Selection, selector string) string {
	if selector == "" {
		return e.site.URL
	}

	href, ok := container.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return e.site.URL
	}
	if !strings.HasPrefix(href, "http") {
		return e.site.BaseURL + href
	}
	return href
}
