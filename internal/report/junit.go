package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JUnit XML document structure, the subset understood by common CI systems.

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnit renders the results as JUnit XML, one testsuite per package.
func WriteJUnit(results *Results, path string) error {
	byPackage := map[string][]TestResult{}
	var packages []string
	for _, t := range results.Tests {
		if _, seen := byPackage[t.Package]; !seen {
			packages = append(packages, t.Package)
		}
		byPackage[t.Package] = append(byPackage[t.Package], t)
	}

	doc := junitTestSuites{}
	for _, pkg := range packages {
		suite := junitTestSuite{Name: pkg}
		var suiteSeconds float64
		for _, t := range byPackage[pkg] {
			c := junitTestCase{
				Name:      t.Name,
				ClassName: t.Package,
				Time:      fmt.Sprintf("%.3f", t.Elapsed.Seconds()),
			}
			switch t.Status {
			case StatusFailed:
				c.Failure = &junitFailure{
					Message: "test failed",
					Body:    strings.Join(t.Output, ""),
				}
				suite.Failures++
			case StatusSkipped:
				c.Skipped = &junitSkipped{}
				suite.Skipped++
			}
			suite.Tests++
			suiteSeconds += t.Elapsed.Seconds()
			suite.Cases = append(suite.Cases, c)
		}
		suite.Time = fmt.Sprintf("%.3f", suiteSeconds)

		doc.Tests += suite.Tests
		doc.Failures += suite.Failures
		doc.Skipped += suite.Skipped
		doc.Suites = append(doc.Suites, suite)
	}
	doc.Time = fmt.Sprintf("%.3f", results.Finished.Sub(results.Started).Seconds())

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal junit xml: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	return os.WriteFile(path, append([]byte(xml.Header), data...), 0o644)
}
