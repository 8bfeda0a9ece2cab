//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServer manages the auth-enabled server for auth tests
type authServer struct {
	cmd *exec.Cmd
}

// startAuthServer starts a server with authentication enabled on port 18081
func startAuthServer(t *testing.T) *authServer {
	t.Helper()

	ctx := context.Background()
	cmd := exec.CommandContext(ctx, testBinary,
		"--config="+filepath.Join(testDir, "netdiag.yml"),
		"--listen=127.0.0.1",
		"--port=18081",
		"--web.password-hash="+passwordHash,
		"--web.login-limit=100",
		"--notify.host=e2e-auth-test",
	)
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start auth server: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, authBaseURL+"/ping", http.NoBody)
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return &authServer{cmd: cmd}
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	_ = cmd.Process.Kill()
	t.Fatalf("auth server not ready after 10s")
	return nil
}

func (s *authServer) stop() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
}

// authLogin performs login with test credentials on auth server
func authLogin(t *testing.T, page playwright.Page) {
	t.Helper()
	_, err := page.Goto(authBaseURL + "/login")
	require.NoError(t, err)
	require.NoError(t, page.Locator("input[name='password']").Fill(testPassword))
	require.NoError(t, page.Locator("button[type='submit']").Click())
	require.NoError(t, page.WaitForURL(authBaseURL+"/"))
}

func TestAuth_LoginPageDisplays(t *testing.T) {
	srv := startAuthServer(t)
	defer srv.stop()

	page := newPage(t)
	_, err := page.Goto(authBaseURL + "/login")
	require.NoError(t, err)

	title, err := page.Title()
	require.NoError(t, err)
	assert.Equal(t, "netdiag login", title)

	visible, err := page.Locator("input[name='password']").IsVisible()
	require.NoError(t, err)
	assert.True(t, visible, "password input should be visible")

	visible, err = page.Locator("button[type='submit']").IsVisible()
	require.NoError(t, err)
	assert.True(t, visible, "submit button should be visible")
}

func TestAuth_LoginValid(t *testing.T) {
	srv := startAuthServer(t)
	defer srv.stop()

	page := newPage(t)
	authLogin(t, page)
	assert.Equal(t, authBaseURL+"/", page.URL(), "should be redirected to the form")

	visible, err := page.Locator("a.logout").IsVisible()
	require.NoError(t, err)
	assert.True(t, visible, "logout link should be visible after login")

	// diagnostics work with the auth cookie
	require.NoError(t, page.Locator("button", playwright.PageLocatorOptions{HasText: "Network info"}).Click())
	waitVisible(t, page.Locator("[data-testid='flash']"))
}

func TestAuth_LoginInvalid(t *testing.T) {
	srv := startAuthServer(t)
	defer srv.stop()

	page := newPage(t)
	_, err := page.Goto(authBaseURL + "/login")
	require.NoError(t, err)
	require.NoError(t, page.Locator("input[name='password']").Fill("wrongpassword"))
	require.NoError(t, page.Locator("button[type='submit']").Click())

	errorElement := page.Locator(".flash-danger")
	waitVisible(t, errorElement)
	assert.Contains(t, page.URL(), "/login", "should stay on login page")

	errorText, err := errorElement.TextContent()
	require.NoError(t, err)
	assert.Contains(t, errorText, "Invalid password")
}

func TestAuth_Logout(t *testing.T) {
	srv := startAuthServer(t)
	defer srv.stop()

	page := newPage(t)
	authLogin(t, page)

	require.NoError(t, page.Locator("a.logout").Click())
	require.NoError(t, page.WaitForURL("**/login"))
	assert.Contains(t, page.URL(), "/login", "should be redirected to login page")
}

func TestAuth_ProtectedRouteRedirects(t *testing.T) {
	srv := startAuthServer(t)
	defer srv.stop()

	page := newPage(t)
	_, err := page.Goto(authBaseURL)
	require.NoError(t, err)
	require.NoError(t, page.WaitForURL("**/login"))
	assert.Contains(t, page.URL(), "/login", "should be redirected to login page")
}
