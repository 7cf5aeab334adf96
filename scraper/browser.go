package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/alexpolo1/newolddkprice/config"
	"github.com/alexpolo1/newolddkprice/utils"
)

// Renderer loads pages in headless Chrome so script-built listings are
// present in the returned HTML.
type Renderer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewRenderer creates a Renderer. Chrome is only started by Fetch.
func NewRenderer(cfg *config.Config, logger *utils.Logger) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

// Fetch navigates to url, waits for the configured render delay and returns
// the rendered document. Each call starts and stops its own browser.
func (r *Renderer) Fetch(ctx context.Context, url string) (string, error) {
	chromeBin := findChromeBinary(r.cfg.ChromeBin)
	r.logger.Debug("[browser] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(r.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	timeout := 2*time.Duration(r.cfg.HTTPTimeoutSeconds)*time.Second + 2*time.Duration(r.cfg.RenderWaitMs)*time.Millisecond
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	wait := time.Duration(r.cfg.RenderWaitMs) * time.Millisecond

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(wait),
		// lazy-loaded result cards only render once scrolled into view
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(wait/4),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp render %s: %w", url, err)
	}
	return html, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
