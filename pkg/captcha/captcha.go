package captcha

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultVerifyURL = "https://hcaptcha.com/siteverify"

type Client struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

func New(secret string) *Client {
	return &Client{
		secret:     secret,
		verifyURL:  defaultVerifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithURL is used by tests to point verification at a stub server.
func NewWithURL(secret, verifyURL string) *Client {
	c := New(secret)
	c.verifyURL = verifyURL
	return c
}

func (c *Client) Verify(token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	form := url.Values{
		"secret":   {c.secret},
		"response": {token},
	}

	resp, err := c.httpClient.Post(c.verifyURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode captcha response: %w", err)
	}

	return result.Success, nil
}
