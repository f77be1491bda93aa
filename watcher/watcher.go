package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"stuywatch/config"
	"stuywatch/models"
	"stuywatch/notify"
	"stuywatch/scraper"
	"stuywatch/services"
	"stuywatch/storage"
)

// Browser opens the listing page in a rendered browser.
type Browser interface {
	Open(url string) (scraper.Page, error)
}

// Watcher sequences the scrape cycle: render, scroll, extract, diff, notify,
// persist, sleep. The known set is loaded once at start and retained in
// memory across cycles; the JSON document is rewritten after each one.
type Watcher struct {
	cfg        *config.Config
	browser    Browser
	extractor  *scraper.Extractor
	apartments *storage.ApartmentStore
	runs       *storage.SQLiteStore       // nil disables run history
	links      *services.LinkCheckService // nil disables link checks
	notifier   notify.Notifier
	diff       *services.DiffService

	known models.KnownSet
}

func New(
	cfg *config.Config,
	browser Browser,
	apartments *storage.ApartmentStore,
	runs *storage.SQLiteStore,
	links *services.LinkCheckService,
	notifier notify.Notifier,
) *Watcher {
	return &Watcher{
		cfg:        cfg,
		browser:    browser,
		extractor:  scraper.NewExtractor(cfg.Site),
		apartments: apartments,
		runs:       runs,
		links:      links,
		notifier:   notifier,
		diff:       services.NewDiffService(cfg.Watch.NormalizeAddresses),
	}
}

// Run is monitoring mode: cycle immediately, then on the fixed interval (or
// the cron schedule when one is configured) until the context is cancelled.
// A failed cycle is logged and retried next cycle, never fatal. Interrupts
// take effect between cycles.
func (w *Watcher) Run(ctx context.Context) error {
	w.known = w.apartments.Load()

	if w.cfg.Watch.Cron != "" {
		log.Printf("Starting watcher with cron: %s", w.cfg.Watch.Cron)
		c := cron.New()
		_, err := c.AddFunc(w.cfg.Watch.Cron, func() {
			w.cycle(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	}

	log.Printf("Starting watcher with interval: %s", w.cfg.Watch.Interval)
	for {
		w.cycle(ctx)

		log.Printf("Waiting %s before next check...", w.cfg.Watch.Interval)
		select {
		case <-time.After(w.cfg.Watch.Interval):
		case <-ctx.Done():
			return nil
		}
	}
}

// RunOnce performs a single monitoring cycle against the persisted known set.
func (w *Watcher) RunOnce(ctx context.Context) {
	w.known = w.apartments.Load()
	w.cycle(ctx)
}

// Baseline scrapes once and replaces the known set wholesale with whatever
// is currently listed. Never notifies.
func (w *Watcher) Baseline(ctx context.Context) error {
	log.Println("Saving baseline apartments (no notifications)")

	apartments, _, err := w.scrape()
	if err != nil {
		return err
	}
	if len(apartments) == 0 {
		return fmt.Errorf("no apartments found - check selectors in site config")
	}

	set := w.diff.Snapshot(apartments)
	if err := w.apartments.Save(set); err != nil {
		return err
	}

	log.Printf("Saved %d apartments as initial baseline", len(apartments))
	return nil
}

// TestNotify exercises the configured notification channels with a fixed
// probe message. No scraping, no diffing, no persistence.
func (w *Watcher) TestNotify() error {
	log.Println("Sending test notification")
	return w.notifier.Test()
}

// cycle runs one check. Every failure inside it is a cycle-level event: log,
// mark the run, move on. The known set is only persisted after notifying, so
// an interrupt mid-cycle loses at worst this cycle's notifications, never
// already-persisted state.
func (w *Watcher) cycle(ctx context.Context) {
	log.Println("Starting apartment check")

	run := &models.CheckRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	w.recordStart(run)

	apartments, skipped, err := w.scrape()
	run.SkippedInvalid = skipped
	run.ListingsFound = len(apartments)
	if err != nil {
		log.Printf("Error during apartment check: %v", err)
		w.finish(run, models.RunStatusFailed, err)
		return
	}
	if len(apartments) == 0 {
		log.Println("No apartments found - check selectors")
		w.finish(run, models.RunStatusCompleted, nil)
		return
	}

	newApartments := w.diff.Diff(apartments, w.known)
	run.ListingsNew = len(newApartments)

	if len(newApartments) > 0 {
		log.Printf("Found %d new apartments!", len(newApartments))

		if w.links != nil {
			w.links.Check(ctx, newApartments)
		}

		if w.notifier != nil {
			err := w.notifier.Notify(newApartments)
			if err != nil {
				// At-most-once: the apartments are persisted as known below
				// even though this notification was lost.
				log.Printf("Notification failed (will not retry): %v", err)
			} else {
				run.Notified = len(newApartments)
			}
			w.recordNotifications(run, newApartments, err == nil)
		}
	} else {
		log.Println("No new apartments found")
	}

	if err := w.apartments.Save(w.known); err != nil {
		log.Printf("Warning: failed to save apartments: %v", err)
		w.log(run.ID, models.LogLevelWarn, fmt.Sprintf("save failed: %v", err))
	}

	w.finish(run, models.RunStatusCompleted, nil)
}

// scrape renders the listing page, scrolls it to exhaustion, and extracts
// apartment records from the final HTML.
func (w *Watcher) scrape() ([]models.Apartment, int, error) {
	site := w.cfg.Site

	page, err := w.browser.Open(site.URL)
	if err != nil {
		return nil, 0, fmt.Errorf("load page: %w", err)
	}
	defer page.Close()
	log.Printf("Loaded page: %s", site.URL)

	if err := scraper.ScrollToExhaustion(page, site.ScrollDelay(), site.MaxScrolls); err != nil {
		return nil, 0, fmt.Errorf("scroll page: %w", err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, 0, fmt.Errorf("read page content: %w", err)
	}

	return w.extractor.Extract(html)
}

func (w *Watcher) recordStart(run *models.CheckRun) {
	if w.runs == nil {
		return
	}
	if err := w.runs.CreateRun(run); err != nil {
		log.Printf("Warning: failed to record run start: %v", err)
	}
}

func (w *Watcher) finish(run *models.CheckRun, status models.RunStatus, cause error) {
	run.Status = status
	if cause != nil {
		run.Error = cause.Error()
	}
	if w.runs == nil {
		return
	}
	if err := w.runs.FinishRun(run); err != nil {
		log.Printf("Warning: failed to record run finish: %v", err)
	}
}

func (w *Watcher) log(runID string, level models.LogLevel, message string) {
	if w.runs == nil {
		return
	}
	if err := w.runs.Log(runID, level, message); err != nil {
		log.Printf("Warning: failed to record run log: %v", err)
	}
}

func (w *Watcher) recordNotifications(run *models.CheckRun, apartments []models.Apartment, ok bool) {
	if w.runs == nil {
		return
	}
	for i := range apartments {
		err := w.runs.RecordNotification(uuid.NewString(), run.ID, &apartments[i], w.notifier.Name(), ok)
		if err != nil {
			log.Printf("Warning: failed to record notification: %v", err)
		}
	}
}
