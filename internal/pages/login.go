package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/webcheck/internal/config"
)

// LoginPage wraps the login screen.
type LoginPage struct {
	BasePage

	// Selectors
	Logo          string
	UsernameInput string
	PasswordInput string
	LoginButton   string
	ErrorHeading  string
	ProductTitle  string
}

// NewLoginPage creates the login page object for a Playwright page.
func NewLoginPage(page playwright.Page, cfg *config.Config) *LoginPage {
	return &LoginPage{
		BasePage: NewBasePage(page, cfg, "LoginPage"),

		Logo:          ".login_logo",
		UsernameInput: "#user-name",
		PasswordInput: "#password",
		LoginButton:   "#login-button",
		ErrorHeading:  "h3[data-test='error']",
		ProductTitle:  "[data-test='title']",
	}
}

// Open navigates to the login page (the base URL) and waits for it to load.
func (p *LoginPage) Open() error {
	if err := p.Navigate(""); err != nil {
		return err
	}
	return p.WaitForLoad()
}

// EnterUsername waits for the username field and fills it.
func (p *LoginPage) EnterUsername(username string) error {
	if err := p.WaitFor(p.UsernameInput, 0); err != nil {
		return err
	}
	return p.Fill(p.UsernameInput, username)
}

// EnterPassword waits for the password field and fills it.
func (p *LoginPage) EnterPassword(password string) error {
	if err := p.WaitFor(p.PasswordInput, 0); err != nil {
		return err
	}
	return p.Fill(p.PasswordInput, password)
}

// ClickLogin clicks the login button.
func (p *LoginPage) ClickLogin() error {
	return p.Click(p.LoginButton)
}

// Login fills both credential fields and submits. Empty arguments fall back
// to the configured TEST_USER and TEST_PASSWORD.
func (p *LoginPage) Login(username, password string) error {
	if username == "" {
		username = p.Cfg.TestUser
	}
	if password == "" {
		password = p.Cfg.TestPassword
	}

	p.log.Step("log in as " + username)
	if err := p.EnterUsername(username); err != nil {
		return err
	}
	if err := p.EnterPassword(password); err != nil {
		return err
	}
	return p.ClickLogin()
}

// VerifyLoaded checks that the login form is present.
func (p *LoginPage) VerifyLoaded() error {
	if err := p.WaitFor(p.UsernameInput, 0); err != nil {
		return fmt.Errorf("login page not loaded: %w", err)
	}
	if !p.IsVisible(p.PasswordInput) {
		return fmt.Errorf("login page not loaded: password field not visible")
	}
	if !p.IsVisible(p.LoginButton) {
		return fmt.Errorf("login page not loaded: login button not visible")
	}
	return nil
}

// ErrorMessage returns the login error text, or "" when no error is shown.
func (p *LoginPage) ErrorMessage() (string, error) {
	if !p.IsVisible(p.ErrorHeading) {
		return "", nil
	}
	return p.Text(p.ErrorHeading)
}

// IsLoginSuccessful reports whether login redirected to the inventory page.
func (p *LoginPage) IsLoginSuccessful() bool {
	// Give the redirect a chance by waiting briefly for the product title.
	_ = p.WaitFor(p.ProductTitle, 2000)
	return strings.Contains(p.URL(), "/inventory.html")
}
