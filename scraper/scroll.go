package scraper

import (
	"log"
	"time"
)

const (
	// DefaultMaxScrolls bounds the lazy-load loop so a page that keeps
	// growing cannot hold a cycle hostage.
	DefaultMaxScrolls = 50

	DefaultScrollDelay = 2 * time.Second
)

// ScrollToExhaustion scrolls the page to the bottom until the document
// height stops changing between two consecutive scrolls, or until maxScrolls
// scrolls have been issued. Hitting the ceiling is treated as done, not an
// error: by then we have whatever the site was willing to render.
func ScrollToExhaustion(page Page, delay time.Duration, maxScrolls int) error {
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}

	lastHeight, err := page.Height()
	if err != nil {
		return err
	}

	for i := 1; i <= maxScrolls; i++ {
		if err := page.ScrollToBottom(); err != nil {
			return err
		}

		time.Sleep(delay)

		height, err := page.Height()
		if err != nil {
			return err
		}

		log.Printf("Scroll %d: height %d -> %d", i, lastHeight, height)

		if height == lastHeight {
			log.Println("No more content to load, scrolling complete")
			return nil
		}
		lastHeight = height
	}

	log.Printf("Reached maximum scroll attempts (%d)", maxScrolls)
	return nil
}
