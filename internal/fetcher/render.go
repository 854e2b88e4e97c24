package fetcher

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/pfrederiksen/tvfixtures/internal/config"
	"github.com/pfrederiksen/tvfixtures/internal/logger"
)

const scrollToBottom = `() => window.scrollTo(0, document.body.scrollHeight)`

// RodRenderer renders pages in a fresh headless Chrome per call. The browser
// is launched, used and torn down inside Render; nothing outlives the call.
type RodRenderer struct {
	cfg config.RenderConfig
	log *logger.Logger
}

// NewRodRenderer creates a renderer. A nil logger uses the package default.
func NewRodRenderer(cfg config.RenderConfig, log *logger.Logger) *RodRenderer {
	if log == nil {
		log = logger.Default()
	}
	return &RodRenderer{cfg: cfg, log: log}
}

// Render navigates to pageURL, waits for the settle interval, scrolls to the
// bottom to trigger lazy rows and returns the document's outer HTML.
func (r *RodRenderer) Render(ctx context.Context, pageURL string) ([]byte, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-gpu").
		Set("window-size", "1366,900").
		Set("disable-blink-features", "AutomationControlled")
	if r.cfg.ChromeBin != "" {
		l = l.Bin(r.cfg.ChromeBin)
	}

	wsURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	// Kill runs first, then Cleanup waits for the process and removes the profile dir.
	defer l.Cleanup()
	defer l.Kill()
	r.log.Debug("browser: launched local chrome", logger.Fields{"url": wsURL})

	browser := rod.New().Context(ctx).ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	defer browser.Close() // nolint:errcheck

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		r.log.Warn("browser: wait load timeout", logger.Fields{"url": pageURL, "error": err.Error()})
	}

	if err := sleepCtx(ctx, r.cfg.Settle); err != nil {
		return nil, fmt.Errorf("browser: settle: %w", err)
	}
	if _, err := page.Eval(scrollToBottom); err != nil {
		return nil, fmt.Errorf("browser: scroll: %w", err)
	}
	if err := sleepCtx(ctx, r.cfg.ScrollSettle); err != nil {
		return nil, fmt.Errorf("browser: scroll settle: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("browser: get DOM: %w", err)
	}
	return []byte(html), nil
}
