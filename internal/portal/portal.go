// Package portal talks to the East West University student portal. It
// fetches semester metadata and per-semester advising rows for one
// authenticated session; all timetable interpretation happens in
// internal/timetable.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	appLog "ewucal/internal/log"
)

// DefaultBaseURL is the production portal endpoint.
const DefaultBaseURL = "https://portal.ewubd.edu"

// userAgent mirrors a desktop browser; the portal rejects unknown agents.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// SessionCookieName is the portal's session cookie.
const SessionCookieName = "ASP.NET_SessionId"

// ErrUnauthorized is returned when the portal rejects the session.
var ErrUnauthorized = errors.New("portal: unauthorized")

// Client is an HTTP client bound to one portal session.
type Client struct {
	http    *http.Client
	baseURL string
	// session is the full cookie pair, e.g. "ASP.NET_SessionId=abc".
	session string
}

// NewClient builds a client for the given session cookie pair. An empty
// baseURL selects the production portal.
func NewClient(baseURL, sessionCookie string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: sessionCookie,
	}
}

// getJSON issues an authenticated GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.decorate(req)

	appLog.Info("portal fetch start", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("portal: %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		appLog.Error("portal response decode failed", err, "path", path)
		return err
	}
	return nil
}

// decorate sets the headers the portal expects on every request.
func (c *Client) decorate(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	if c.session != "" {
		req.Header.Set("Cookie", c.session)
	}
}
