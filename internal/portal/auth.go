package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	appLog "ewucal/internal/log"
)

// The login form embeds an arithmetic captcha as two hidden inputs; the
// answer is their sum.
var (
	firstNoPattern  = regexp.MustCompile(`name="FirstNo"[^>]*value="(-?\d+)"`)
	secondNoPattern = regexp.MustCompile(`name="SecondNo"[^>]*value="(-?\d+)"`)
	errorMsgPattern = regexp.MustCompile(`class="error"[^>]*>([^<]+)<`)
)

// LoginPage is the portal's login page together with the fresh session
// cookie it was issued under.
type LoginPage struct {
	// SessionCookie is the "ASP.NET_SessionId=..." pair from Set-Cookie.
	SessionCookie string
	FirstNo       int
	SecondNo      int
}

// FetchLoginPage requests the portal front page, capturing the session
// cookie and the captcha addends needed to authenticate.
func FetchLoginPage(ctx context.Context, baseURL string) (LoginPage, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/", nil)
	if err != nil {
		return LoginPage{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return LoginPage{}, err
	}
	defer resp.Body.Close()

	cookie := sessionFromSetCookie(resp.Header.Values("Set-Cookie"))
	if cookie == "" {
		return LoginPage{}, errors.New("portal: no session cookie on login page")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LoginPage{}, err
	}

	first, second, err := captchaAddends(string(body))
	if err != nil {
		return LoginPage{}, err
	}

	return LoginPage{SessionCookie: cookie, FirstNo: first, SecondNo: second}, nil
}

// Login posts credentials plus the captcha answer under the page's
// session cookie. On success the same cookie becomes an authenticated
// session usable with NewClient.
func Login(ctx context.Context, baseURL string, page LoginPage, username, password string) error {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	form := url.Values{}
	form.Set("Username", username)
	form.Set("Password", password)
	form.Set("FirstNo", strconv.Itoa(page.FirstNo))
	form.Set("SecondNo", strconv.Itoa(page.SecondNo))
	form.Set("Answer", strconv.Itoa(page.FirstNo+page.SecondNo))

	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", page.SessionCookie)

	appLog.Info("portal login attempt", "user", username)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("portal: login failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// A 200 response can still carry an inline error message.
	if m := errorMsgPattern.FindStringSubmatch(string(body)); m != nil {
		msg := strings.TrimSpace(m[1])
		if msg != "" {
			return fmt.Errorf("portal: login rejected: %s", msg)
		}
	}

	return nil
}

// sessionFromSetCookie extracts the session cookie pair from Set-Cookie
// headers, dropping attributes such as Path and HttpOnly.
func sessionFromSetCookie(headers []string) string {
	for _, h := range headers {
		pair := strings.SplitN(h, ";", 2)[0]
		if strings.HasPrefix(pair, SessionCookieName+"=") {
			return pair
		}
	}
	return ""
}

func captchaAddends(html string) (int, int, error) {
	fm := firstNoPattern.FindStringSubmatch(html)
	sm := secondNoPattern.FindStringSubmatch(html)
	if fm == nil || sm == nil {
		return 0, 0, errors.New("portal: captcha fields not found on login page")
	}
	first, err := strconv.Atoi(fm[1])
	if err != nil {
		return 0, 0, err
	}
	second, err := strconv.Atoi(sm[1])
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
