package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const (
	duckDuckGoEndpoint  = "https://lite.duckduckgo.com/lite/"
	duckDuckGoNoResults = "No good DuckDuckGo Search Result was found"
)

var snippetPattern = regexp.MustCompile(`(?s)<td[^>]*class=['"]result-snippet['"][^>]*>(.*?)</td>`)

// DuckDuckGo searches the web through DuckDuckGo's lite HTML interface and
// returns the result snippets joined into one paragraph.
type DuckDuckGo struct {
	Endpoint   string
	MaxResults int
	client     *http.Client
}

// NewDuckDuckGo creates a web searcher. A nil client gets a 15s timeout.
func NewDuckDuckGo(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{
		Endpoint:   duckDuckGoEndpoint,
		MaxResults: 5,
		client:     defaultClient(client),
	}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is empty")
	}

	form := url.Values{}
	form.Set("q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("duckduckgo read: %w", err)
	}

	snippets := parseSnippets(string(body), d.MaxResults)
	if len(snippets) == 0 {
		return duckDuckGoNoResults, nil
	}
	return strings.Join(snippets, " "), nil
}

func parseSnippets(html string, max int) []string {
	var out []string
	for _, m := range snippetPattern.FindAllStringSubmatch(html, -1) {
		snippet := cleanHTML(m[1])
		if snippet == "" {
			continue
		}
		out = append(out, snippet)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
