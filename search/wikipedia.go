package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	wikipediaEndpoint  = "https://en.wikipedia.org/w/api.php"
	wikipediaNoResults = "No good Wikipedia Search Result was found"

	wikipediaMaxQueryLength = 300
	// Only the head of an error page is kept in the returned error.
	wikipediaMaxErrorBody = 512
)

// Wikipedia looks up encyclopedia pages matching a query and returns their
// introductory summaries.
type Wikipedia struct {
	Endpoint string
	TopK     int
	MaxChars int
	client   *http.Client
}

// NewWikipedia creates a lookup returning one page cut to 250 characters.
func NewWikipedia(client *http.Client) *Wikipedia {
	return &Wikipedia{
		Endpoint: wikipediaEndpoint,
		TopK:     defaultTopK,
		MaxChars: defaultMaxChars,
		client:   defaultClient(client),
	}
}

type wikipediaResponse struct {
	Query struct {
		Pages []wikipediaPage `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

type wikipediaPage struct {
	Title   string `json:"title"`
	Index   int    `json:"index"`
	Extract string `json:"extract"`
	Missing bool   `json:"missing"`
}

func (w *Wikipedia) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is empty")
	}
	query = truncate(query, wikipediaMaxQueryLength)

	topK := w.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", strconv.Itoa(topK))
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("exlimit", strconv.Itoa(topK))
	params.Set("redirects", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, wikipediaMaxErrorBody))
		return "", fmt.Errorf("wikipedia http %d: %s", resp.StatusCode, strings.TrimSpace(strings.ToValidUTF8(string(body), "")))
	}

	var payload wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("wikipedia decode: %w", err)
	}
	if payload.Error != nil {
		return "", fmt.Errorf("wikipedia api %s: %s", payload.Error.Code, payload.Error.Info)
	}

	pages := payload.Query.Pages
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	var docs []string
	for _, p := range pages {
		if p.Missing || strings.TrimSpace(p.Extract) == "" {
			continue
		}
		docs = append(docs, fmt.Sprintf("Page: %s\nSummary: %s", p.Title, strings.TrimSpace(p.Extract)))
		if len(docs) >= topK {
			break
		}
	}
	if len(docs) == 0 {
		return wikipediaNoResults, nil
	}
	return truncate(strings.Join(docs, "\n\n"), w.MaxChars), nil
}
