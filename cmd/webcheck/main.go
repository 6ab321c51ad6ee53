// webcheck is the test-framework runner: it maps CLI flags to environment
// variables and `go test` arguments, then invokes the browser test suite.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/kuitang/webcheck/internal/config"
	"github.com/kuitang/webcheck/internal/logging"
	"github.com/kuitang/webcheck/internal/runner"
)

var version = "0.1.0"

func main() {
	// Load environment variables from .env file before anything reads them.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "webcheck",
		Usage:   "Run the Playwright browser test suite",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "install",
				Usage: "Install the Playwright driver and browsers",
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "Run tests in parallel",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel workers (default: auto-detect)",
			},
			&cli.StringFlag{
				Name:  "markers",
				Usage: "Run tests with specific markers (smoke, regression, slow)",
			},
			&cli.StringFlag{
				Name:  "test-file",
				Usage: "Run a specific test file or package",
			},
			&cli.StringFlag{
				Name:  "browser",
				Usage: "Browser to use (chromium, firefox, webkit)",
			},
			&cli.StringFlag{
				Name:  "headless",
				Usage: "Run in headless mode (true/false)",
			},
			&cli.StringFlag{
				Name:  "device",
				Usage: "Device to emulate (iPhone 12, iPad, Pixel 5)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Logging level (DEBUG, INFO, WARNING, ERROR)",
			},
			&cli.BoolFlag{
				Name:  "show-logs",
				Usage: "Show detailed logs in console during test execution",
			},
			&cli.BoolFlag{
				Name:  "allure",
				Usage: "Write Allure results and generate a report after the run",
			},
			&cli.IntFlag{
				Name:  "serve-allure",
				Usage: "Serve the Allure report on the given port",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	opts := runner.Options{
		Install:     c.Bool("install"),
		Parallel:    c.Bool("parallel"),
		Workers:     c.Int("workers"),
		Markers:     c.String("markers"),
		TestFile:    c.String("test-file"),
		Browser:     c.String("browser"),
		Headless:    c.String("headless"),
		Device:      c.String("device"),
		LogLevel:    c.String("log-level"),
		ShowLogs:    c.Bool("show-logs"),
		Allure:      c.Bool("allure"),
		ServeAllure: c.Int("serve-allure"),
	}

	if opts.Browser != "" && !config.IsSupportedBrowser(opts.Browser) {
		return fmt.Errorf("unsupported browser %q (supported: chromium, firefox, webkit)", opts.Browser)
	}
	if opts.Device != "" && !config.IsSupportedDevice(opts.Device) {
		return fmt.Errorf("unsupported device %q (supported: %s)", opts.Device, strings.Join(config.DeviceNames(), ", "))
	}

	// The runner's own env overrides must be visible to config.Load so the
	// startup summary and the test process agree.
	applyOverrides(opts)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.ClearLogFile(cfg); err != nil {
		return fmt.Errorf("clear log file: %w", err)
	}
	if err := logging.Setup(cfg); err != nil {
		return err
	}
	defer logging.Close()

	r := runner.New(cfg)

	if opts.Install {
		if err := r.InstallDeps(opts); err != nil {
			return fmt.Errorf("install dependencies: %w", err)
		}
		fmt.Println("Dependencies installed successfully")
		return nil
	}

	if opts.ServeAllure > 0 {
		return r.ServeAllureReport(opts.ServeAllure)
	}

	cfg.PrintStartupSummary()
	logging.SessionBanner(cfg)

	results, err := r.Run(c.Context, opts)
	if err != nil {
		return err
	}
	if !results.OK() {
		return cli.Exit("tests failed", 1)
	}
	return nil
}

// applyOverrides mirrors the flag overrides into this process's environment
// so config.Load observes the same values the test process will.
func applyOverrides(opts runner.Options) {
	set := func(key, value string) {
		if value != "" {
			os.Setenv(key, value)
		}
	}
	set("BROWSER", opts.Browser)
	set("HEADLESS", opts.Headless)
	set("DEVICE", opts.Device)
	set("LOG_LEVEL", opts.LogLevel)
	if opts.ShowLogs {
		set("LOG_TO_CONSOLE", "true")
	}
	if opts.Allure {
		set("ALLURE_ENABLED", "true")
	}
}
