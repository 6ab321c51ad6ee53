package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var htmlReportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>webcheck test report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2em; color: #222; }
  h1 { font-size: 1.4em; }
  .summary span { margin-right: 1.5em; font-weight: 600; }
  .passed { color: #0a7d33; }
  .failed { color: #c0261f; }
  .skipped { color: #9a6700; }
  table { border-collapse: collapse; margin-top: 1em; width: 100%; }
  th, td { text-align: left; padding: 0.4em 0.8em; border-bottom: 1px solid #ddd; }
  pre { background: #f6f8fa; padding: 0.8em; overflow-x: auto; font-size: 0.85em; }
</style>
</head>
<body>
<h1>webcheck test report</h1>
<p>Generated {{.Generated}} &middot; duration {{.Duration}}</p>
<p class="summary">
  <span class="passed">{{.Passed}} passed</span>
  <span class="failed">{{.Failed}} failed</span>
  <span class="skipped">{{.Skipped}} skipped</span>
</p>
<table>
<tr><th>Test</th><th>Package</th><th>Status</th><th>Duration</th></tr>
{{range .Tests}}
<tr>
  <td>{{.Name}}</td>
  <td>{{.Package}}</td>
  <td class="{{.Status}}">{{.Status}}</td>
  <td>{{.Elapsed}}</td>
</tr>
{{end}}
</table>
{{if .Failures}}
<h2>Failure output</h2>
{{range .Failures}}
<h3 class="failed">{{.FullName}}</h3>
<pre>{{.Output}}</pre>
{{end}}
{{end}}
</body>
</html>
`))

type htmlTest struct {
	Name    string
	Package string
	Status  Status
	Elapsed string
}

type htmlFailure struct {
	FullName string
	Output   string
}

type htmlData struct {
	Generated string
	Duration  string
	Passed    int
	Failed    int
	Skipped   int
	Tests     []htmlTest
	Failures  []htmlFailure
}

// WriteHTML renders the results as a self-contained HTML report.
func WriteHTML(results *Results, path string) error {
	passed, failed, skipped := results.Counts()
	data := htmlData{
		Generated: time.Now().Format(time.RFC1123),
		Duration:  results.Finished.Sub(results.Started).Round(time.Millisecond).String(),
		Passed:    passed,
		Failed:    failed,
		Skipped:   skipped,
	}
	for _, t := range results.Tests {
		data.Tests = append(data.Tests, htmlTest{
			Name:    t.Name,
			Package: t.Package,
			Status:  t.Status,
			Elapsed: t.Elapsed.Round(time.Millisecond).String(),
		})
	}
	for _, t := range results.Failures {
		data.Failures = append(data.Failures, htmlFailure{
			FullName: t.FullName(),
			Output:   strings.Join(t.Output, ""),
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html report: %w", err)
	}
	defer f.Close()
	return htmlReportTemplate.Execute(f, data)
}
