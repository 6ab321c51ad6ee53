// Package report consumes the event stream emitted by `go test -json` and
// renders it as console output, a JUnit XML file, a self-contained HTML
// report, and Allure result files.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Status is the outcome of a single test case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// TestResult is one finished test case.
type TestResult struct {
	Package string
	Name    string
	Status  Status
	Elapsed time.Duration
	Output  []string
	Start   time.Time
	Stop    time.Time
}

// FullName returns "package/TestName".
func (r TestResult) FullName() string {
	return r.Package + "/" + r.Name
}

// Results aggregates a whole run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Started  time.Time
	Finished time.Time
}

// OK reports whether the run had no failures.
func (r *Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns passed, failed, skipped totals.
func (r *Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch t.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// event is one line of `go test -json` output (see cmd/test2json).
type event struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// Parse reads a `go test -json` stream into Results. Lines that are not JSON
// (toolchain warnings, build errors) are forwarded to passthrough untouched.
// Subtests are recorded individually; parent tests that merely group subtests
// are recorded too, matching go test's own accounting.
func Parse(r io.Reader, passthrough io.Writer) (*Results, error) {
	results := &Results{}
	open := map[string]*TestResult{} // package/test -> in-flight result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()

		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			if passthrough != nil {
				fmt.Fprintln(passthrough, string(line))
			}
			continue
		}

		if results.Started.IsZero() && !ev.Time.IsZero() {
			results.Started = ev.Time
		}
		if !ev.Time.IsZero() {
			results.Finished = ev.Time
		}

		if ev.Test == "" {
			continue // package-level event
		}
		key := ev.Package + "/" + ev.Test

		switch ev.Action {
		case "run":
			open[key] = &TestResult{
				Package: ev.Package,
				Name:    ev.Test,
				Start:   ev.Time,
			}
		case "output":
			if t, ok := open[key]; ok {
				t.Output = append(t.Output, ev.Output)
			}
		case "pass", "fail", "skip":
			t, ok := open[key]
			if !ok {
				t = &TestResult{Package: ev.Package, Name: ev.Test}
			}
			delete(open, key)

			switch ev.Action {
			case "pass":
				t.Status = StatusPassed
			case "fail":
				t.Status = StatusFailed
			case "skip":
				t.Status = StatusSkipped
			}
			t.Elapsed = time.Duration(ev.Elapsed * float64(time.Second))
			t.Stop = ev.Time

			results.Tests = append(results.Tests, *t)
			if t.Status == StatusFailed {
				results.Failures = append(results.Failures, *t)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("read test output: %w", err)
	}

	sort.Slice(results.Tests, func(i, j int) bool {
		return results.Tests[i].FullName() < results.Tests[j].FullName()
	})
	return results, nil
}

// PrintResults writes a colored summary of the run to w.
func PrintResults(w io.Writer, results *Results) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	passed, failed, skipped := results.Counts()

	fmt.Fprintln(w)
	for _, t := range results.Tests {
		switch t.Status {
		case StatusPassed:
			green.Fprintf(w, "  PASS  %s (%.2fs)\n", t.FullName(), t.Elapsed.Seconds())
		case StatusSkipped:
			yellow.Fprintf(w, "  SKIP  %s\n", t.FullName())
		case StatusFailed:
			red.Fprintf(w, "  FAIL  %s (%.2fs)\n", t.FullName(), t.Elapsed.Seconds())
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d tests: ", len(results.Tests))
	green.Fprintf(w, "%d passed", passed)
	fmt.Fprint(w, ", ")
	if failed > 0 {
		red.Fprintf(w, "%d failed", failed)
	} else {
		fmt.Fprintf(w, "%d failed", failed)
	}
	fmt.Fprintf(w, ", %d skipped\n", skipped)

	if failed > 0 {
		fmt.Fprintln(w)
		red.Fprintln(w, "Failures:")
		for _, t := range results.Failures {
			red.Fprintf(w, "  %s\n", t.FullName())
			for _, line := range t.Output {
				trimmed := strings.TrimRight(line, "\n")
				if trimmed == "" {
					continue
				}
				fmt.Fprintf(w, "    %s\n", trimmed)
			}
		}
	}
}
