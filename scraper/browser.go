package scraper

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Browser owns the headless Chromium instance. It is launched lazily on the
// first Open and reused across cycles; Close tears the whole thing down.
type Browser struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	initialized bool
}

func NewBrowser() *Browser {
	return &Browser{}
}

func (b *Browser) ensureBrowser() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	var err error
	b.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	b.browser, err = b.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--window-size=1920,1080",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	b.initialized = true
	return nil
}

// Open navigates a fresh page to url and waits for the initial DOM. The
// caller owns the returned page and must Close it.
func (b *Browser) Open(url string) (Page, error) {
	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	_, err = page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(60000),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}

	return &playwrightPage{page: page}, nil
}

func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		b.browser.Close()
		b.browser = nil
	}
	if b.pw != nil {
		b.pw.Stop()
		b.pw = nil
	}
	b.initialized = false
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) ScrollToBottom() error {
	_, err := p.page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

func (p *playwrightPage) Height() (int, error) {
	result, err := p.page.Evaluate(`document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	switch v := result.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("unexpected scrollHeight type %T", result)
	}
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
