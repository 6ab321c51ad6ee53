// Package browser owns the Playwright lifecycle for the framework: driver
// startup, browser launch, context and page creation. Everything else
// (waiting, retries, parallel workers) is delegated to Playwright and go test.
package browser

import (
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/webcheck/internal/config"
	"github.com/kuitang/webcheck/internal/logging"
)

// slowMoHeadedMS slows interactions when running headed so a human can follow.
const slowMoHeadedMS = 50

// deviceDescriptor holds the emulation parameters for a device preset.
type deviceDescriptor struct {
	Viewport          playwright.Size
	UserAgent         string
	DeviceScaleFactor float64
	IsMobile          bool
	HasTouch          bool
}

// deviceDescriptors mirrors Playwright's device registry for the presets the
// framework supports (config.Devices).
var deviceDescriptors = map[string]deviceDescriptor{
	"iPhone 12": {
		Viewport:          playwright.Size{Width: 390, Height: 844},
		UserAgent:         "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1",
		DeviceScaleFactor: 3,
		IsMobile:          true,
		HasTouch:          true,
	},
	"iPad": {
		Viewport:          playwright.Size{Width: 810, Height: 1080},
		UserAgent:         "Mozilla/5.0 (iPad; CPU OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Mobile/15E148 Safari/604.1",
		DeviceScaleFactor: 2,
		IsMobile:          true,
		HasTouch:          true,
	},
	"Pixel 5": {
		Viewport:          playwright.Size{Width: 393, Height: 851},
		UserAgent:         "Mozilla/5.0 (Linux; Android 11; Pixel 5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.91 Mobile Safari/537.36",
		DeviceScaleFactor: 2.75,
		IsMobile:          true,
		HasTouch:          true,
	},
}

// Driver wraps a running Playwright instance and a launched browser.
type Driver struct {
	cfg     *config.Config
	log     *logging.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Install downloads the Playwright driver and the given browser engines.
// With no arguments it installs every supported browser.
func Install(browsers ...string) error {
	if len(browsers) == 0 {
		browsers = config.SupportedBrowsers
	}
	return playwright.Install(&playwright.RunOptions{
		Browsers: browsers,
	})
}

// Start launches Playwright and the configured browser engine.
func Start(cfg *config.Config) (*Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	var slowMo float64
	if !cfg.Headless {
		slowMo = slowMoHeadedMS
	}
	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(slowMo),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch %s (headless=%v): %w", cfg.Browser, cfg.Headless, err)
	}

	d := &Driver{
		cfg:     cfg,
		log:     logging.New("browser"),
		pw:      pw,
		browser: browser,
	}
	d.log.Infof("launched %s (headless=%v, device=%s)", cfg.Browser, cfg.Headless, cfg.Device)
	return d, nil
}

// NewContext creates a browser context with the configured viewport, device
// emulation and (optionally) video recording. Each context has isolated
// cookies and storage.
func (d *Driver) NewContext() (playwright.BrowserContext, error) {
	options := playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: 1920, Height: 1080},
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if name := d.cfg.DeviceDescriptor(); name != "" {
		if desc, ok := deviceDescriptors[name]; ok {
			options.Viewport = &playwright.Size{Width: desc.Viewport.Width, Height: desc.Viewport.Height}
			options.UserAgent = playwright.String(desc.UserAgent)
			options.DeviceScaleFactor = playwright.Float(desc.DeviceScaleFactor)
			options.IsMobile = playwright.Bool(desc.IsMobile)
			options.HasTouch = playwright.Bool(desc.HasTouch)
			d.log.Debugf("emulating device %q", name)
		}
	}

	if os.Getenv("RECORD_VIDEO") != "" {
		options.RecordVideo = &playwright.RecordVideo{
			Dir: "test-results/videos",
		}
	}

	ctx, err := d.browser.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(d.cfg.Timeout))
	ctx.SetDefaultNavigationTimeout(float64(d.cfg.Timeout))
	return ctx, nil
}

// NewPage creates a page in the given context with default timeouts applied.
func (d *Driver) NewPage(ctx playwright.BrowserContext) (playwright.Page, error) {
	page, err := ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	page.SetDefaultTimeout(float64(d.cfg.Timeout))
	page.SetDefaultNavigationTimeout(float64(d.cfg.Timeout))
	return page, nil
}

// Stop closes the browser and stops the Playwright driver.
func (d *Driver) Stop() {
	if d.browser != nil {
		_ = d.browser.Close()
	}
	if d.pw != nil {
		_ = d.pw.Stop()
	}
}
