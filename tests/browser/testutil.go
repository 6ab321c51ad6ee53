// Package browser contains the Playwright end-to-end suite. All test files
// use TestEnv via SetupTestEnv(t), which shares one browser process and one
// target server across the package.
package browser

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/webcheck/internal/browser"
	"github.com/kuitang/webcheck/internal/config"
	"github.com/kuitang/webcheck/internal/logging"
)

const (
	demoUser     = "standard_user"
	demoPassword = "secret_sauce"

	// Never introduce a larger timeout value anywhere in tests/browser.
	maxTimeoutMS = 5000
	maxTimeout   = 5 * time.Second
)

var fixtureMu sync.Mutex
var sharedFixture *TestEnv

// TestEnv is the shared environment for all browser tests. When BASE_URL is
// not set, a local demo server stands in for the target application so the
// suite runs self-contained.
type TestEnv struct {
	Cfg     *config.Config
	BaseURL string

	demoServer *httptest.Server

	driver   *browser.Driver
	driverMu sync.Mutex
}

// SetupTestEnv returns the shared test environment, creating it on first use.
// Every test is bracketed with start/end lines in the execution log.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	fixtureMu.Lock()
	defer fixtureMu.Unlock()

	if sharedFixture == nil {
		sharedFixture = createTestEnv(t)
	}

	start := time.Now()
	logging.TestStart(t.Name())
	t.Cleanup(func() {
		status := "PASSED"
		switch {
		case t.Failed():
			status = "FAILED"
		case t.Skipped():
			status = "SKIPPED"
		}
		logging.TestEnd(t.Name(), status, time.Since(start))
	})
	return sharedFixture
}

func createTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	// Keep individual waits short so a broken selector fails fast.
	if cfg.Timeout > maxTimeoutMS {
		cfg.Timeout = maxTimeoutMS
	}
	if err := logging.Setup(cfg); err != nil {
		t.Fatalf("Failed to set up logging: %v", err)
	}

	env := &TestEnv{Cfg: cfg}

	if os.Getenv("BASE_URL") == "" {
		env.demoServer = httptest.NewServer(demoAppHandler())
		cfg.BaseURL = env.demoServer.URL
		cfg.TestUser = demoUser
		if cfg.TestPassword == "" {
			cfg.TestPassword = demoPassword
		}
	}
	env.BaseURL = cfg.BaseURL
	return env
}

func cleanupSharedTestEnv() {
	fixtureMu.Lock()
	defer fixtureMu.Unlock()

	if sharedFixture == nil {
		return
	}
	if sharedFixture.driver != nil {
		sharedFixture.driver.Stop()
	}
	if sharedFixture.demoServer != nil {
		sharedFixture.demoServer.Close()
	}
	logging.Close()
	sharedFixture = nil
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedTestEnv()
	os.Exit(code)
}

// =============================================================================
// Browser lifecycle helpers
// =============================================================================

// InitBrowser launches the configured browser engine. Skips the test if the
// Playwright driver or browsers are not installed.
func (env *TestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	env.driverMu.Lock()
	defer env.driverMu.Unlock()

	if env.driver != nil {
		return
	}

	d, err := browser.Start(env.Cfg)
	if err != nil {
		t.Skip("Playwright not available:", err)
	}
	env.driver = d
}

// NewPage creates a page in a fresh browser context. Both are closed when the
// test finishes.
func (env *TestEnv) NewPage(t *testing.T) playwright.Page {
	t.Helper()

	ctx, err := env.driver.NewContext()
	if err != nil {
		t.Fatalf("could not create browser context: %v", err)
	}
	t.Cleanup(func() { _ = ctx.Close() })

	page, err := env.driver.NewPage(ctx)
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return page
}

// =============================================================================
// Demo application
// =============================================================================

// demoAppHandler serves a two-page stand-in for the target application: a
// login form at / and an inventory page at /inventory.html, using the same
// element IDs and data-test attributes the page objects select on.
func demoAppHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeLoginPage(w, "")
	})

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		user := r.FormValue("user-name")
		pass := r.FormValue("password")
		if user == demoUser && pass == demoPassword {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "demo", Path: "/"})
			http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
			return
		}
		writeLoginPage(w, "Epic sadface: Username and password do not match any user in this service")
	})

	mux.HandleFunc("GET /inventory.html", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, inventoryPageHTML)
	})

	mux.HandleFunc("GET /logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	return mux
}

func writeLoginPage(w http.ResponseWriter, errorMsg string) {
	errorBlock := ""
	if errorMsg != "" {
		errorBlock = fmt.Sprintf(`<h3 data-test="error">%s</h3>`, errorMsg)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, strings.Replace(loginPageHTML, "{{ERROR}}", errorBlock, 1))
}

const loginPageHTML = `<!DOCTYPE html>
<html>
<head><title>Swag Labs</title></head>
<body>
  <div class="login_logo">Swag Labs</div>
  <form action="/login" method="post">
    {{ERROR}}
    <input type="text" id="user-name" name="user-name" placeholder="Username">
    <input type="password" id="password" name="password" placeholder="Password">
    <input type="submit" id="login-button" value="Login">
  </form>
</body>
</html>`

const inventoryPageHTML = `<!DOCTYPE html>
<html>
<head><title>Swag Labs</title></head>
<body>
  <button id="react-burger-menu-btn" onclick="document.getElementById('menu').style.display='block'">Open Menu</button>
  <nav id="menu" style="display:none">
    <a id="logout_sidebar_link" href="/logout">Logout</a>
  </nav>
  <a class="shopping_cart_link" href="/cart.html">Cart</a>
  <span data-test="title" class="title">Products</span>
  <div class="inventory_list">
    <div class="inventory_item">Sauce Labs Backpack</div>
    <div class="inventory_item">Sauce Labs Bike Light</div>
  </div>
</body>
</html>`
