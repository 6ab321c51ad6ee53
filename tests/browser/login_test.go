package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/webcheck/internal/pages"
)

func TestSmoke_LoginPageLoads(t *testing.T) {
	env := SetupTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)

	login := pages.NewLoginPage(page, env.Cfg)
	require.NoError(t, login.Open())
	require.NoError(t, login.VerifyLoaded())

	assert.True(t, login.IsVisible(login.Logo), "login logo should be visible")

	msg, err := login.ErrorMessage()
	require.NoError(t, err)
	assert.Empty(t, msg, "no error should be shown before submitting")
}

func TestSmoke_LoginWithValidCredentials(t *testing.T) {
	env := SetupTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)

	login := pages.NewLoginPage(page, env.Cfg)
	require.NoError(t, login.Open())
	require.NoError(t, login.Login("", ""))

	require.True(t, login.IsLoginSuccessful(), "expected redirect to inventory page")

	home := pages.NewHomePage(page, env.Cfg)
	require.NoError(t, home.VerifyLoaded())

	title, err := home.TitleText()
	require.NoError(t, err)
	assert.Equal(t, "Products", title)
}

func TestSmoke_LoginWithInvalidCredentials(t *testing.T) {
	env := SetupTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)

	login := pages.NewLoginPage(page, env.Cfg)
	require.NoError(t, login.Open())
	require.NoError(t, login.Login("locked_out_user", "wrong_password"))

	require.False(t, login.IsLoginSuccessful(), "login must not succeed with bad credentials")

	require.NoError(t, login.WaitFor(login.ErrorHeading, 0))
	msg, err := login.ErrorMessage()
	require.NoError(t, err)
	assert.Contains(t, msg, "Epic sadface")
}

func TestRegression_LoginFormKeepsFocusableFields(t *testing.T) {
	env := SetupTestEnv(t)
	env.InitBrowser(t)
	page := env.NewPage(t)

	login := pages.NewLoginPage(page, env.Cfg)
	require.NoError(t, login.Open())

	require.NoError(t, login.EnterUsername("first"))
	require.NoError(t, login.EnterUsername("second"))

	value, err := page.Locator(login.UsernameInput).InputValue()
	require.NoError(t, err)
	assert.Equal(t, "second", value, "Fill should replace, not append")
}
