// Package search provides the lookup backends the reasoning agent can call.
//
// Available lookups:
//
//   - DuckDuckGo: general web search over the lite HTML page, no API key
//   - Wikipedia: encyclopedia summaries from the MediaWiki API
//   - Arxiv: paper metadata and abstracts from the arXiv Atom API
//
// Wikipedia and Arxiv return one result cut to 250 characters by default so
// observations stay small inside the model context.
//
//	wiki := search.NewWikipedia(nil)
//	text, err := wiki.Search(ctx, "Rayleigh scattering")
package search

import (
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultTopK     = 1
	defaultMaxChars = 250
	defaultTimeout  = 15 * time.Second
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Searcher answers a free-text query with a plain-text observation.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}
