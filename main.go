package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stuywatch/config"
	"stuywatch/logging"
	"stuywatch/notify"
	"stuywatch/scraper"
	"stuywatch/services"
	"stuywatch/storage"
	"stuywatch/watcher"
)

var (
	baseline  = flag.Bool("baseline", false, "Save the current apartments as the known set without notifying (initial setup)")
	testEmail = flag.Bool("test-email", false, "Send a test notification to verify configuration, then exit")
	once      = flag.Bool("once", false, "Run a single check cycle and exit")
	sound     = flag.Bool("sound", false, "Also play a sound when new apartments are found")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("stuywatch.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting stuywatch...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Watching %s (%s)", cfg.Site.Name, cfg.Site.URL)

	notifier := buildNotifier(cfg)

	if *testEmail {
		w := watcher.New(cfg, nil, nil, nil, nil, notifier)
		if err := w.TestNotify(); err != nil {
			log.Fatalf("Test notification failed: %v", err)
		}
		return
	}

	apartments := storage.NewApartmentStore(cfg.StatePath)

	runs, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Printf("Warning: could not open run history database: %v (continuing without it)", err)
		runs = nil
	} else {
		defer runs.Close()
	}

	browser := scraper.NewBrowser()
	defer browser.Close()

	links := services.NewLinkCheckService(nil)

	w := watcher.New(cfg, browser, apartments, runs, links, notifier)

	if *baseline {
		if err := w.Baseline(context.Background()); err != nil {
			log.Fatalf("Baseline save failed: %v", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	if *once {
		w.RunOnce(ctx)
		return
	}

	if err := w.Run(ctx); err != nil {
		log.Fatalf("Watcher stopped: %v", err)
	}
	log.Println("Goodbye!")
}

// buildNotifier assembles the notification channels. Missing SMTP settings
// are fatal in test mode, where verifying delivery is the whole point, and a
// logged warning otherwise.
func buildNotifier(cfg *config.Config) notify.Notifier {
	var channels []notify.Notifier

	if cfg.SMTP.Configured() {
		channels = append(channels, notify.NewEmailNotifier(cfg.SMTP))
	} else if *testEmail {
		log.Fatal("SMTP is not configured: set SMTP_HOST, EMAIL_FROM, EMAIL_PASSWORD and EMAIL_TO")
	} else {
		log.Println("Warning: SMTP not configured, email notifications disabled")
	}

	if *sound {
		sn, err := notify.NewSoundNotifier(cfg.Watch.SoundPlayer, cfg.Watch.SoundFile)
		if err != nil {
			log.Printf("Warning: sound notifications unavailable: %v", err)
		} else {
			channels = append(channels, sn)
		}
	}

	return notify.NewMulti(channels...)
}
