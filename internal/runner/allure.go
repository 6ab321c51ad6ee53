package runner

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// CheckAllureCLI reports whether the allure CLI is on PATH and runnable.
func CheckAllureCLI() bool {
	out, err := exec.Command("allure", "--version").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// GenerateAllureReport runs `allure generate` over the results directory.
// It fails when no results have been written yet.
func (r *Runner) GenerateAllureReport() error {
	entries, err := os.ReadDir(r.cfg.AllureResultsDir)
	if err != nil || len(entries) == 0 {
		return fmt.Errorf("no allure results found in %s", r.cfg.AllureResultsDir)
	}

	cmd := exec.Command("allure", "generate", r.cfg.AllureResultsDir,
		"-o", r.cfg.AllureReportDir, "--clean")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("allure generate: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ServeAllureReport runs `allure serve` on the given port, blocking until the
// server exits.
func (r *Runner) ServeAllureReport(port int) error {
	if !CheckAllureCLI() {
		return fmt.Errorf("allure CLI not found (npm install -g allure-commandline)")
	}
	r.log.Infof("serving allure report on port %d", port)
	cmd := exec.Command("allure", "serve", r.cfg.AllureResultsDir,
		"--port", strconv.Itoa(port))
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
