package search

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	arxivEndpoint       = "https://export.arxiv.org/api/query"
	arxivNoResults      = "No good Arxiv Result was found"
	arxivMaxQueryLength = 300
)

// Arxiv looks up papers on arXiv and returns their publication date, title,
// authors and abstract.
type Arxiv struct {
	Endpoint string
	TopK     int
	MaxChars int
	client   *http.Client
}

// NewArxiv creates a lookup returning one paper cut to 250 characters.
func NewArxiv(client *http.Client) *Arxiv {
	return &Arxiv{
		Endpoint: arxivEndpoint,
		TopK:     defaultTopK,
		MaxChars: defaultMaxChars,
		client:   defaultClient(client),
	}
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Updated   string        `xml:"updated"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

func (a *Arxiv) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query is empty")
	}
	query = truncate(query, arxivMaxQueryLength)

	topK := a.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(topK))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("arxiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv http %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return "", fmt.Errorf("arxiv decode: %w", err)
	}

	var docs []string
	for _, e := range feed.Entries {
		// arXiv reports a bad query as a single entry titled "Error".
		if strings.TrimSpace(e.Title) == "Error" {
			return "", fmt.Errorf("arxiv api: %s", cleanHTML(e.Summary))
		}
		docs = append(docs, formatArxivEntry(e))
		if len(docs) >= topK {
			break
		}
	}
	if len(docs) == 0 {
		return arxivNoResults, nil
	}
	return truncate(strings.Join(docs, "\n\n"), a.MaxChars), nil
}

// formatArxivEntry reports the date of the latest version under
// "Published", falling back to the first version's date.
func formatArxivEntry(e arxivEntry) string {
	published := strings.TrimSpace(e.Updated)
	if published == "" {
		published = strings.TrimSpace(e.Published)
	}
	if t, err := time.Parse(time.RFC3339, published); err == nil {
		published = t.Format(time.DateOnly)
	}
	names := make([]string, 0, len(e.Authors))
	for _, author := range e.Authors {
		names = append(names, strings.TrimSpace(author.Name))
	}
	return fmt.Sprintf("Published: %s\nTitle: %s\nAuthors: %s\nSummary: %s",
		published, cleanHTML(e.Title), strings.Join(names, ", "), cleanHTML(e.Summary))
}
