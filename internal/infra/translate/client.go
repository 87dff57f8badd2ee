// Package translate talks to a LibreTranslate-compatible HTTP API.
package translate

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CacheTTL is how long a memoized translation stays valid.
const CacheTTL = 7 * 24 * time.Hour

// CacheKey is the memoization key for a translation.
func CacheKey(text, source, target string) string {
	sum := md5.Sum([]byte(text))
	return fmt.Sprintf("translate:%s:%s:%s", hex.EncodeToString(sum[:])[:16], source, target)
}

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client translates single words through POST {BaseURL}/translate.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: c.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out translateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate failed with status %d: %s", resp.StatusCode, out.Error)
	}
	return out.TranslatedText, nil
}

// Dictionary is a fixed lookup table for development and tests. Unknown
// words are returned unchanged.
type Dictionary map[string]string

// DictionaryKey builds the lookup key for a Dictionary entry.
func DictionaryKey(text, target string) string {
	return target + ":" + strings.ToLower(text)
}

func (d Dictionary) Translate(_ context.Context, text, _, target string) (string, error) {
	if out, ok := d[DictionaryKey(text, target)]; ok {
		return out, nil
	}
	return text, nil
}
