package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckDuckGoSearch(t *testing.T) {
	var gotQuery, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = r.ParseForm()
		gotQuery = r.PostForm.Get("q")
		_, _ = w.Write([]byte(`<table>
<tr><td><a rel="nofollow" href="https://go.dev" class='result-link'>Go</a></td></tr>
<tr><td class='result-snippet'>Go is an <b>open source</b> programming language.</td></tr>
<tr><td class='result-snippet'>Build simple &amp; secure systems.</td></tr>
</table>`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client())
	d.Endpoint = srv.URL

	got, err := d.Search(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "golang", gotQuery)
	assert.Equal(t, "Go is an open source programming language. Build simple & secure systems.", got)
}

func TestDuckDuckGoSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client())
	d.Endpoint = srv.URL

	got, err := d.Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Equal(t, duckDuckGoNoResults, got)
}

func TestDuckDuckGoSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client())
	d.Endpoint = srv.URL

	_, err := d.Search(context.Background(), "golang")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchersRejectEmptyQuery(t *testing.T) {
	searchers := map[string]Searcher{
		"duckduckgo": NewDuckDuckGo(nil),
		"wikipedia":  NewWikipedia(nil),
		"arxiv":      NewArxiv(nil),
	}
	for name, s := range searchers {
		t.Run(name, func(t *testing.T) {
			_, err := s.Search(context.Background(), "   ")
			require.Error(t, err)
		})
	}
}

func TestWikipediaSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "machine learning", q.Get("gsrsearch"))
		assert.Equal(t, "1", q.Get("gsrlimit"))
		assert.Equal(t, "extracts", q.Get("prop"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"batchcomplete":true,"query":{"pages":[
{"pageid":233488,"title":"Machine learning","index":1,"extract":"` + strings.Repeat("learn ", 100) + `"}
]}}`))
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client())
	wiki.Endpoint = srv.URL

	got, err := wiki.Search(context.Background(), "machine learning")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Page: Machine learning\nSummary: learn learn"))
	assert.Equal(t, 250, utf8.RuneCountInString(got))
}

func TestWikipediaSearch_CapsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("gsrsearch")
		_, _ = w.Write([]byte(`{"batchcomplete":true}`))
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client())
	wiki.Endpoint = srv.URL

	_, err := wiki.Search(context.Background(), strings.Repeat("é", 400))
	require.NoError(t, err)
	assert.Equal(t, wikipediaMaxQueryLength, utf8.RuneCountInString(gotQuery))
}

func TestWikipediaSearch_HTTPErrorBodyIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream unavailable " + strings.Repeat("x", 1<<20)))
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client())
	wiki.Endpoint = srv.URL

	_, err := wiki.Search(context.Background(), "golang")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.Less(t, len(err.Error()), wikipediaMaxErrorBody+64)
}

func TestWikipediaSearch_OrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":[
{"title":"Second","index":2,"extract":"two"},
{"title":"First","index":1,"extract":"one"}
]}}`))
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client())
	wiki.Endpoint = srv.URL
	wiki.TopK = 2
	wiki.MaxChars = 0

	got, err := wiki.Search(context.Background(), "numbers")
	require.NoError(t, err)
	assert.Equal(t, "Page: First\nSummary: one\n\nPage: Second\nSummary: two", got)
}

func TestWikipediaSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"batchcomplete":true}`))
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client())
	wiki.Endpoint = srv.URL

	got, err := wiki.Search(context.Background(), "qwxzv")
	require.NoError(t, err)
	assert.Equal(t, wikipediaNoResults, got)
}

func TestWikipediaSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"badvalue","info":"bad limit"}}`))
	}))
	defer srv.Close()

	wiki := NewWikipedia(srv.Client())
	wiki.Endpoint = srv.URL

	_, err := wiki.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad limit")
}

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>arXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <updated>2023-08-02T00:41:18Z</updated>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models are based on complex recurrent networks.  </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestArxivSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "attention", r.URL.Query().Get("search_query"))
		assert.Equal(t, "1", r.URL.Query().Get("max_results"))
		_, _ = w.Write([]byte(arxivFeedXML))
	}))
	defer srv.Close()

	a := NewArxiv(srv.Client())
	a.Endpoint = srv.URL
	a.MaxChars = 0

	got, err := a.Search(context.Background(), "attention")
	require.NoError(t, err)
	assert.Equal(t, "Published: 2023-08-02\nTitle: Attention Is All You Need\n"+
		"Authors: Ashish Vaswani, Noam Shazeer\n"+
		"Summary: The dominant sequence transduction models are based on complex recurrent networks.", got)
}

func TestArxivSearch_PublishedFallsBackToFirstVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"><entry>
<published>2017-06-12T17:57:34Z</published>
<title>Attention</title>
<summary>Transformers.</summary>
<author><name>Ashish Vaswani</name></author>
</entry></feed>`))
	}))
	defer srv.Close()

	a := NewArxiv(srv.Client())
	a.Endpoint = srv.URL
	a.MaxChars = 0

	got, err := a.Search(context.Background(), "attention")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Published: 2017-06-12\n"), got)
}

func TestArxivSearch_TruncatesOutputAndQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		_, _ = w.Write([]byte(arxivFeedXML))
	}))
	defer srv.Close()

	a := NewArxiv(srv.Client())
	a.Endpoint = srv.URL
	a.MaxChars = 40

	got, err := a.Search(context.Background(), strings.Repeat("q", 400))
	require.NoError(t, err)
	assert.Equal(t, 40, utf8.RuneCountInString(got))
	assert.Len(t, gotQuery, arxivMaxQueryLength)
}

func TestArxivSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"><title>empty</title></feed>`))
	}))
	defer srv.Close()

	a := NewArxiv(srv.Client())
	a.Endpoint = srv.URL

	got, err := a.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, arxivNoResults, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "hi", truncate("hi", 10))
	assert.Equal(t, "hi", truncate("hi", 0))
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "It’s … ok now", cleanHTML("It&#8217;s &hellip; <b>ok</b>&nbsp;now"))
	assert.Equal(t, `a & b < "c"`, cleanHTML("<p>a &amp; b &lt; &quot;c&quot;</p>"))
	assert.Equal(t, "tabs and lines", cleanHTML("  tabs\t and\n\nlines "))
}
