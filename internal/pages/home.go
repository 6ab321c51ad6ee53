package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/webcheck/internal/config"
)

// HomePage wraps the post-login inventory screen.
type HomePage struct {
	BasePage

	// Selectors
	ProductTitle  string
	InventoryList string
	MenuButton    string
	LogoutLink    string
	CartLink      string
}

// NewHomePage creates the home page object for a Playwright page.
func NewHomePage(page playwright.Page, cfg *config.Config) *HomePage {
	return &HomePage{
		BasePage: NewBasePage(page, cfg, "HomePage"),

		ProductTitle:  "[data-test='title']",
		InventoryList: ".inventory_list",
		MenuButton:    "#react-burger-menu-btn",
		LogoutLink:    "#logout_sidebar_link",
		CartLink:      ".shopping_cart_link",
	}
}

// Open navigates directly to the inventory page and waits for it to load.
func (p *HomePage) Open() error {
	url := strings.TrimRight(p.Cfg.BaseURL, "/") + "/inventory.html"
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitForLoad()
}

// VerifyLoaded checks that the inventory content is present.
func (p *HomePage) VerifyLoaded() error {
	if err := p.WaitFor(p.ProductTitle, 0); err != nil {
		return fmt.Errorf("home page not loaded: %w", err)
	}
	if !p.IsVisible(p.InventoryList) {
		return fmt.Errorf("home page not loaded: inventory list not visible")
	}
	return nil
}

// TitleText returns the visible product title text.
func (p *HomePage) TitleText() (string, error) {
	return p.Text(p.ProductTitle)
}

// Logout opens the menu and clicks the logout link.
func (p *HomePage) Logout() error {
	p.log.Step("log out via menu")
	if err := p.Click(p.MenuButton); err != nil {
		return err
	}
	if err := p.WaitFor(p.LogoutLink, 0); err != nil {
		return err
	}
	return p.Click(p.LogoutLink)
}
