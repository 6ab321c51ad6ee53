// Package runner invokes the Go test toolchain with the configuration the
// CLI selected: it maps flags to `go test` arguments and environment
// variables, streams the -json event output into the report package, and
// writes the run artifacts (JUnit XML, HTML report, Allure results).
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/kuitang/webcheck/internal/config"
	"github.com/kuitang/webcheck/internal/logging"
	"github.com/kuitang/webcheck/internal/report"
)

// Default artifact locations, matching the documented output contract.
const (
	JUnitPath      = "test-results/junit.xml"
	HTMLReportPath = "test-results/report.html"
	DefaultTarget  = "./tests/..."
)

// artifactDirs are created before every run.
var artifactDirs = []string{
	"test-results",
	"test-results/videos",
	"screenshots",
	"allure-results",
	"allure-report",
	"logs",
}

// Markers maps marker names to the test-name regex they select. Tests opt in
// by prefix: smoke tests are named TestSmoke_*, regression tests
// TestRegression_*, slow tests TestSlow_*.
var Markers = map[string]string{
	"smoke":      "^TestSmoke_",
	"regression": "^TestRegression_",
	"slow":       "^TestSlow_",
}

// Options mirrors the CLI flags.
type Options struct {
	Install  bool
	Parallel bool
	Workers  int    // 0 = auto (GOMAXPROCS)
	Markers  string // comma-separated marker names
	TestFile string // specific test package or file; empty = all tests

	Browser  string
	Headless string // "", "true" or "false"; empty = keep env/config default
	Device   string

	LogLevel string
	ShowLogs bool

	Allure      bool
	ServeAllure int // port; 0 = disabled
}

// MarkerRegex builds the -run regex for the requested markers. Unknown
// markers are an error so typos fail loudly instead of silently selecting
// nothing.
func MarkerRegex(markers string) (string, error) {
	if strings.TrimSpace(markers) == "" {
		return "", nil
	}
	var patterns []string
	for _, m := range strings.Split(markers, ",") {
		name := strings.ToLower(strings.TrimSpace(m))
		if name == "" {
			continue
		}
		pattern, ok := Markers[name]
		if !ok {
			known := make([]string, 0, len(Markers))
			for k := range Markers {
				known = append(known, k)
			}
			return "", fmt.Errorf("unknown marker %q (known markers: %s)", name, strings.Join(known, ", "))
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) == 0 {
		return "", nil
	}
	if len(patterns) == 1 {
		return patterns[0], nil
	}
	return "(" + strings.Join(patterns, ")|(") + ")", nil
}

// BuildArgs maps the options to `go test` arguments. The -json flag is
// always present so the report package can consume the event stream.
func BuildArgs(opts Options) ([]string, error) {
	args := []string{"test", "-json", "-v", "-count=1"}

	runRegex, err := MarkerRegex(opts.Markers)
	if err != nil {
		return nil, err
	}
	if runRegex != "" {
		args = append(args, "-run", runRegex)
	}

	if opts.Parallel {
		workers := opts.Workers
		if workers > 0 {
			args = append(args, "-parallel", strconv.Itoa(workers))
		} else {
			args = append(args, "-parallel", strconv.Itoa(runtimeWorkers()))
		}
	}

	args = append(args, runTarget(opts))

	return args, nil
}

// runTarget resolves the test target for the run. Go cannot build a single
// file out of a multi-file test package, so a *_test.go path selects its
// containing package instead of the bare file.
func runTarget(opts Options) string {
	target := opts.TestFile
	if target == "" {
		return DefaultTarget
	}
	if strings.HasSuffix(target, ".go") {
		dir := filepath.Dir(target)
		if dir != "." && !strings.HasPrefix(dir, "./") && !strings.HasPrefix(dir, "../") {
			dir = "./" + dir
		}
		return dir
	}
	return target
}

// BuildEnv returns the environment for the test process: the parent
// environment with the browser/logging flags layered on top.
func BuildEnv(opts Options, base []string) []string {
	env := append([]string(nil), base...)

	set := func(key, value string) {
		if value == "" {
			return
		}
		env = append(env, key+"="+value)
	}

	set("BROWSER", opts.Browser)
	set("HEADLESS", opts.Headless)
	set("DEVICE", opts.Device)
	set("LOG_LEVEL", strings.ToUpper(opts.LogLevel))
	if opts.ShowLogs {
		set("LOG_TO_CONSOLE", "true")
		if opts.LogLevel == "" {
			set("LOG_LEVEL", "DEBUG")
		}
	}
	return env
}

// EnsureDirectories creates every artifact directory the run writes into.
func EnsureDirectories() error {
	for _, dir := range artifactDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Runner executes test runs.
type Runner struct {
	cfg *config.Config
	log *logging.Logger

	// Stdout is where console output (command echo, summary) is written.
	Stdout io.Writer
	// Stderr receives the raw stderr of the test process.
	Stderr io.Writer
}

// New creates a Runner writing console output to stdout/stderr.
func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		log:    logging.New("runner"),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// InstallDeps installs the Playwright driver and browsers. When a specific
// browser was requested only that engine is installed.
func (r *Runner) InstallDeps(opts Options) error {
	r.log.Infof("installing Playwright browsers")
	if opts.Browser != "" {
		return installBrowsers(opts.Browser)
	}
	return installBrowsers()
}

// Run executes `go test` with the mapped arguments and environment, streams
// the results, writes artifacts, and returns the run results. A non-nil
// error means the run could not be executed; test failures are reported via
// Results.OK(), mirroring the exit-status contract of go test itself.
func (r *Runner) Run(ctx context.Context, opts Options) (*report.Results, error) {
	if err := EnsureDirectories(); err != nil {
		return nil, err
	}

	args, err := BuildArgs(opts)
	if err != nil {
		return nil, err
	}
	base := os.Environ()
	env := BuildEnv(opts, base)

	fmt.Fprintf(r.Stdout, "Running: %s\n", printableCommand("go", args))
	r.log.Infof("test environment overrides: %s",
		strings.Join(logging.RedactEnv(env[len(base):]), " "))

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Env = env
	cmd.Stderr = r.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start go test: %w", err)
	}

	var passthrough io.Writer
	if opts.ShowLogs {
		passthrough = r.Stdout
	}
	results, parseErr := report.Parse(stdout, passthrough)

	waitErr := cmd.Wait()
	if parseErr != nil {
		return results, parseErr
	}
	if err := applyExitStatus(results, runTarget(opts), waitErr); err != nil {
		return results, err
	}

	if err := r.writeArtifacts(results, opts); err != nil {
		return results, err
	}

	report.PrintResults(r.Stdout, results)
	fmt.Fprintf(r.Stdout, "\nHTML report: %s\n", HTMLReportPath)
	fmt.Fprintf(r.Stdout, "JUnit XML:   %s\n", JUnitPath)

	return results, nil
}

func (r *Runner) writeArtifacts(results *report.Results, opts Options) error {
	if err := report.WriteJUnit(results, JUnitPath); err != nil {
		return err
	}
	if err := report.WriteHTML(results, HTMLReportPath); err != nil {
		return err
	}

	if opts.Allure || r.cfg.AllureEnabled {
		if err := report.WriteAllureResults(results, r.cfg.AllureResultsDir); err != nil {
			return err
		}
		if CheckAllureCLI() {
			if err := r.GenerateAllureReport(); err != nil {
				r.log.Warningf("allure report generation failed: %v", err)
			} else {
				fmt.Fprintf(r.Stdout, "Allure report: %s/index.html\n", r.cfg.AllureReportDir)
			}
		} else {
			fmt.Fprintln(r.Stdout, "allure CLI not found, skipping report generation (npm install -g allure-commandline)")
		}
	}
	return nil
}

// applyExitStatus reconciles the go test exit status with the parsed results.
// go test exits non-zero when tests fail, which the parsed fail events already
// capture; a non-zero exit with no recorded failures means the run died before
// any test could report (build error, panic outside a test body, TestMain
// exiting non-zero) and is recorded as a failure of the target itself.
func applyExitStatus(results *report.Results, target string, waitErr error) error {
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("run go test: %w", waitErr)
	}
	if results.OK() {
		failure := report.TestResult{
			Package: target,
			Name:    "go test",
			Status:  report.StatusFailed,
			Start:   results.Started,
			Stop:    results.Finished,
			Output: []string{
				fmt.Sprintf("go test exited with %v but reported no test failures; the target failed to build or crashed before tests ran\n", exitErr),
			},
		}
		results.Tests = append(results.Tests, failure)
		results.Failures = append(results.Failures, failure)
	}
	return nil
}

// printableCommand renders a command line with shell quoting for display.
func printableCommand(name string, args []string) string {
	parts := []string{name}
	for _, a := range args {
		parts = append(parts, shellescape.Quote(a))
	}
	return strings.Join(parts, " ")
}
