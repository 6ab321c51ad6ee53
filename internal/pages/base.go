// Package pages contains the Page Object Model wrappers for the application
// under test. Each page object composes the shared BasePage helpers, which are
// thin delegates to Playwright primitives; Playwright's own waiting and
// timeout behavior is the only retry mechanism.
package pages

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/webcheck/internal/config"
	"github.com/kuitang/webcheck/internal/logging"
)

const screenshotDir = "screenshots"

// BasePage provides shared element-interaction helpers for all page objects.
type BasePage struct {
	Page playwright.Page
	Cfg  *config.Config
	log  *logging.Logger
}

// NewBasePage wraps a Playwright page with the shared helpers. The name is
// used for the page object's logger (e.g. "pages.LoginPage").
func NewBasePage(page playwright.Page, cfg *config.Config, name string) BasePage {
	return BasePage{
		Page: page,
		Cfg:  cfg,
		log:  logging.New("pages." + name),
	}
}

// Navigate opens the given URL, or the configured base URL when url is empty.
func (b *BasePage) Navigate(url string) error {
	target := url
	if target == "" {
		target = b.Cfg.BaseURL
	}
	b.log.Infof("navigating to %s", target)
	if _, err := b.Page.Goto(target); err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	b.log.Action("navigate", target)
	return nil
}

// WaitForLoad waits until the page reaches network idle.
func (b *BasePage) WaitForLoad() error {
	b.log.Debugf("waiting for page load")
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// Click clicks the element matching selector.
func (b *BasePage) Click(selector string) error {
	b.log.Debugf("clicking %q", selector)
	if err := b.Page.Locator(selector).Click(); err != nil {
		b.log.Errorf("failed to click %q: %v", selector, err)
		return err
	}
	b.log.Action("click", selector)
	return nil
}

// Fill fills the input matching selector with text.
func (b *BasePage) Fill(selector, text string) error {
	b.log.Debugf("filling %q", selector)
	if err := b.Page.Locator(selector).Fill(text); err != nil {
		b.log.Errorf("failed to fill %q: %v", selector, err)
		return err
	}
	b.log.Action("fill", selector)
	return nil
}

// Text returns the text content of the element matching selector.
func (b *BasePage) Text(selector string) (string, error) {
	text, err := b.Page.Locator(selector).TextContent()
	if err != nil {
		b.log.Errorf("failed to get text from %q: %v", selector, err)
		return "", err
	}
	b.log.Action("get text", selector)
	return text, nil
}

// IsVisible reports whether the element matching selector is currently
// visible. Lookup errors are treated as "not visible".
func (b *BasePage) IsVisible(selector string) bool {
	visible, err := b.Page.Locator(selector).IsVisible()
	if err != nil {
		b.log.Debugf("element %q not found: %v", selector, err)
		return false
	}
	b.log.Debugf("element %q visible: %v", selector, visible)
	return visible
}

// WaitFor waits until the element matching selector becomes visible, using
// the configured timeout when timeoutMS is zero.
func (b *BasePage) WaitFor(selector string, timeoutMS float64) error {
	if timeoutMS == 0 {
		timeoutMS = float64(b.Cfg.Timeout)
	}
	b.log.Debugf("waiting for %q (timeout %.0fms)", selector, timeoutMS)
	err := b.Page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(timeoutMS),
	})
	if err != nil {
		b.log.Errorf("element %q did not appear within %.0fms: %v", selector, timeoutMS, err)
		return err
	}
	b.log.Action("element appeared", selector)
	return nil
}

// Screenshot captures the page into screenshots/<name>.png.
func (b *BasePage) Screenshot(name string) (string, error) {
	if err := os.MkdirAll(screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot directory: %w", err)
	}
	path := filepath.Join(screenshotDir, name+".png")
	if _, err := b.Page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		b.log.Errorf("failed to take screenshot %s: %v", path, err)
		return "", err
	}
	b.log.Screenshot(path)
	return path, nil
}

// Title returns the page title.
func (b *BasePage) Title() (string, error) {
	title, err := b.Page.Title()
	if err != nil {
		return "", err
	}
	b.log.Debugf("page title: %s", title)
	return title, nil
}

// URL returns the current page URL.
func (b *BasePage) URL() string {
	return b.Page.URL()
}
