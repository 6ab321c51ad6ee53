package runner

import (
	"runtime"

	"github.com/kuitang/webcheck/internal/browser"
)

// runtimeWorkers is the worker count used for --parallel without --workers.
func runtimeWorkers() int {
	return runtime.NumCPU()
}

// installBrowsers is indirected for the Runner so install stays a one-line
// delegate to the browser package.
func installBrowsers(browsers ...string) error {
	return browser.Install(browsers...)
}
