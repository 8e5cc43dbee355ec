package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPageHTML = `<html><body>
<form method="post">
<input type="text" name="Username">
<input type="password" name="Password">
<input type="hidden" name="FirstNo" value="7">
<input type="hidden" name="SecondNo" value="5">
<input type="text" name="Answer">
</form>
</body></html>`

func TestCaptchaAddends(t *testing.T) {
	first, second, err := captchaAddends(loginPageHTML)
	require.NoError(t, err)
	assert.Equal(t, 7, first)
	assert.Equal(t, 5, second)

	_, _, err = captchaAddends("<html>no captcha here</html>")
	assert.Error(t, err)
}

func TestSessionFromSetCookie(t *testing.T) {
	got := sessionFromSetCookie([]string{
		"other=1; Path=/",
		"ASP.NET_SessionId=xyz123; path=/; HttpOnly",
	})
	assert.Equal(t, "ASP.NET_SessionId=xyz123", got)

	assert.Empty(t, sessionFromSetCookie(nil))
	assert.Empty(t, sessionFromSetCookie([]string{"other=1"}))
}

func TestFetchLoginPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Add("Set-Cookie", "ASP.NET_SessionId=fresh; path=/; HttpOnly")
		_, _ = w.Write([]byte(loginPageHTML))
	}))
	defer srv.Close()

	page, err := FetchLoginPage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ASP.NET_SessionId=fresh", page.SessionCookie)
	assert.Equal(t, 7, page.FirstNo)
	assert.Equal(t, 5, page.SecondNo)
}

func TestLoginPostsCaptchaAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "student", r.PostFormValue("Username"))
		assert.Equal(t, "7", r.PostFormValue("FirstNo"))
		assert.Equal(t, "5", r.PostFormValue("SecondNo"))
		assert.Equal(t, "12", r.PostFormValue("Answer"))
		assert.Equal(t, "ASP.NET_SessionId=fresh", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte("<html><span>Welcome</span></html>"))
	}))
	defer srv.Close()

	page := LoginPage{SessionCookie: "ASP.NET_SessionId=fresh", FirstNo: 7, SecondNo: 5}
	err := Login(context.Background(), srv.URL, page, "student", "secret")
	assert.NoError(t, err)
}

func TestLoginRejectedWithInlineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><div class="error">Invalid credentials</div></html>`))
	}))
	defer srv.Close()

	page := LoginPage{SessionCookie: "ASP.NET_SessionId=fresh", FirstNo: 1, SecondNo: 2}
	err := Login(context.Background(), srv.URL, page, "student", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}
