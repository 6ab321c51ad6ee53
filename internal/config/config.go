// Package config provides centralized configuration management for the
// webcheck test framework. It loads settings from environment variables
// (with .env support in the CLI), validates required fields, and provides
// sensible defaults.
//
// The configuration is read once per run and passed by reference to the
// browser fixture and page objects; it is read-only for the life of the
// process.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// SupportedBrowsers lists the browser engines we can launch, matching
// Playwright's browser types.
var SupportedBrowsers = []string{"chromium", "firefox", "webkit"}

// Devices maps friendly device names to Playwright device descriptor names.
// An empty descriptor means no emulation (plain desktop viewport).
var Devices = map[string]string{
	"Desktop Chrome": "",
	"iPhone 12":      "iPhone 12",
	"iPad":           "iPad",
	"Pixel 5":        "Pixel 5",
}

// LogLevels lists the levels accepted by LOG_LEVEL and --log-level.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR"}

// Config holds all test framework configuration.
type Config struct {
	// Target application
	BaseURL string

	// Timeouts (milliseconds, Playwright convention)
	Timeout int

	// Browser settings
	Browser  string
	Headless bool
	Device   string

	// Test environment and credentials
	TestEnv      string
	TestUser     string
	TestPassword string

	// Logging
	LogLevel     string
	LogToFile    bool
	LogToConsole bool
	LogFilePath  string

	// Allure reporting
	AllureResultsDir string
	AllureReportDir  string
	AllureEnabled    bool
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL: getEnvOrDefault("BASE_URL", "https://example.com"),
		Timeout: parseIntOrDefault("TIMEOUT", 30000),

		Browser:  strings.ToLower(getEnvOrDefault("BROWSER", "chromium")),
		Headless: parseBoolOrDefault("HEADLESS", true),
		Device:   getEnvOrDefault("DEVICE", "Desktop Chrome"),

		TestEnv:      getEnvOrDefault("TEST_ENV", "dev"),
		TestUser:     getEnvOrDefault("TEST_USER", "standard_user"),
		TestPassword: os.Getenv("TEST_PASSWORD"),

		LogLevel:     strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		LogToFile:    parseBoolOrDefault("LOG_TO_FILE", true),
		LogToConsole: parseBoolOrDefault("LOG_TO_CONSOLE", true),
		LogFilePath:  getEnvOrDefault("LOG_FILE_PATH", "logs/test_execution.log"),

		AllureResultsDir: getEnvOrDefault("ALLURE_RESULTS_DIR", "allure-results"),
		AllureReportDir:  getEnvOrDefault("ALLURE_REPORT_DIR", "allure-report"),
		AllureEnabled:    parseBoolOrDefault("ALLURE_ENABLED", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.BaseURL) == "" {
		errs = append(errs, "BASE_URL is required")
	}
	if c.Timeout <= 0 {
		errs = append(errs, "TIMEOUT must be a positive number of milliseconds")
	}
	if !IsSupportedBrowser(c.Browser) {
		errs = append(errs, fmt.Sprintf("BROWSER must be one of %s (got %q)",
			strings.Join(SupportedBrowsers, ", "), c.Browser))
	}
	if !IsSupportedDevice(c.Device) {
		errs = append(errs, fmt.Sprintf("DEVICE must be one of %s (got %q)",
			strings.Join(DeviceNames(), ", "), c.Device))
	}
	if !isValidLogLevel(c.LogLevel) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of %s (got %q)",
			strings.Join(LogLevels, ", "), c.LogLevel))
	}
	if c.LogToFile && strings.TrimSpace(c.LogFilePath) == "" {
		errs = append(errs, "LOG_FILE_PATH is required when LOG_TO_FILE is enabled")
	}
	if c.AllureEnabled && strings.TrimSpace(c.AllureResultsDir) == "" {
		errs = append(errs, "ALLURE_RESULTS_DIR is required when ALLURE_ENABLED is set")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// IsSupportedBrowser reports whether name is a browser engine we can launch.
func IsSupportedBrowser(name string) bool {
	for _, b := range SupportedBrowsers {
		if name == b {
			return true
		}
	}
	return false
}

// IsSupportedDevice reports whether name is a known device preset.
func IsSupportedDevice(name string) bool {
	_, ok := Devices[name]
	return ok
}

// DeviceNames returns the supported device preset names in sorted order.
func DeviceNames() []string {
	names := make([]string, 0, len(Devices))
	for name := range Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isValidLogLevel(level string) bool {
	for _, l := range LogLevels {
		if level == l {
			return true
		}
	}
	return false
}

// DeviceDescriptor returns the Playwright device descriptor name for the
// configured device, or "" when no emulation should be applied.
func (c *Config) DeviceDescriptor() string {
	return Devices[c.Device]
}

// PrintStartupSummary prints a human-readable summary of the configuration to
// stderr. Credentials are never included.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "webcheck starting...")
	fmt.Fprintf(os.Stderr, "  Base URL: %s\n", c.BaseURL)
	fmt.Fprintf(os.Stderr, "  Browser:  %s (headless: %v)\n", c.Browser, c.Headless)
	fmt.Fprintf(os.Stderr, "  Device:   %s\n", c.Device)
	fmt.Fprintf(os.Stderr, "  Env:      %s (user: %s)\n", c.TestEnv, c.TestUser)
	fmt.Fprintf(os.Stderr, "  Timeout:  %dms\n", c.Timeout)
	if c.AllureEnabled {
		fmt.Fprintf(os.Stderr, "  Allure:   %s -> %s\n", c.AllureResultsDir, c.AllureReportDir)
	}
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables.
// Invalid values fall back to defaults rather than failing the run.

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return ParseBool(value)
}

// ParseBool parses the truthy spellings the framework has always accepted:
// true/1/yes/on (case-insensitive). Anything else is false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
