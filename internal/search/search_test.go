package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-labs/veritas/internal/model"
)

const resultsPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com/x">Sponsored</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.reuters.com%2Fworld%2Fstory&amp;rut=abc">Storm <b>hits</b> coast</a></h2>
  <a class="result__snippet" href="#">The <b>storm</b> made landfall &amp; caused <script>alert(1)</script>flooding.</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://www.bbc.com/news/123">BBC report</a>
  <a class="result__snippet">Second   snippet</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://apnews.com/a">AP</a>
</div>
</body></html>`

func TestDuckDuckGoText(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/html/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("q")
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	ddg := NewDuckDuckGo(srv.URL, 0)
	articles, err := ddg.Text(context.Background(), "storm coast", 2)
	require.NoError(t, err)
	assert.Equal(t, "storm coast", gotQuery)
	require.Len(t, articles, 2)

	assert.Equal(t, model.Article{
		Title:   "Storm hits coast",
		Snippet: "The storm made landfall & caused flooding.",
		URL:     "https://www.reuters.com/world/story",
		Source:  "www.reuters.com",
	}, articles[0])
	assert.Equal(t, "Second snippet", articles[1].Snippet)
	assert.Equal(t, "www.bbc.com", articles[1].Source)
}

func TestDuckDuckGoBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewDuckDuckGo(srv.URL, 0).Text(context.Background(), "q", 5)
	assert.Error(t, err)
}

func TestSourceOf(t *testing.T) {
	assert.Equal(t, "apnews.com", SourceOf("https://apnews.com/article/x"))
	assert.Equal(t, "unknown", SourceOf("not a url"))
	assert.Equal(t, "unknown", SourceOf(""))
}

type fakeEngine struct {
	byQuery map[string][]model.Article
	errs    map[string]error
	queries []string
	maxes   []int
}

func (f *fakeEngine) Text(_ context.Context, query string, max int) ([]model.Article, error) {
	f.queries = append(f.queries, query)
	f.maxes = append(f.maxes, max)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.byQuery[query], nil
}

func articles(n int, source string) []model.Article {
	out := make([]model.Article, n)
	for i := range out {
		out[i] = model.Article{Title: source, Source: source}
	}
	return out
}

func TestMultiSourceStopsOnceEnough(t *testing.T) {
	eng := &fakeEngine{byQuery: map[string][]model.Article{
		"q " + DefaultSourceGroups[0]: articles(1, "reuters"),
		"q " + DefaultSourceGroups[1]: articles(3, "cnn"),
	}}
	got := NewMultiSource(eng, 10).Search(context.Background(), "q")

	assert.Len(t, got, 4)
	assert.Len(t, eng.queries, 2)
	assert.Equal(t, []int{3, 3}, eng.maxes)
}

func TestMultiSourceSkipsFailingGroup(t *testing.T) {
	eng := &fakeEngine{
		byQuery: map[string][]model.Article{"q " + DefaultSourceGroups[2]: articles(2, "toi")},
		errs:    map[string]error{"q " + DefaultSourceGroups[0]: errors.New("blocked")},
	}
	got := NewMultiSource(eng, 10).Search(context.Background(), "q")

	assert.Len(t, got, 2)
	assert.Len(t, eng.queries, 3)
}

func TestMultiSourceFallsBackToOpenSearch(t *testing.T) {
	eng := &fakeEngine{byQuery: map[string][]model.Article{"q": articles(12, "any")}}
	got := NewMultiSource(eng, 10).Search(context.Background(), "q")

	assert.Len(t, got, 10)
	require.Len(t, eng.queries, 4)
	assert.Equal(t, "q", eng.queries[3])
	assert.Equal(t, 10, eng.maxes[3])
}

func TestMultiSourceNothingFound(t *testing.T) {
	eng := &fakeEngine{errs: map[string]error{"q": errors.New("down")}}
	got := NewMultiSource(eng, 10).Search(context.Background(), "q")
	assert.Empty(t, got)
	for _, q := range eng.queries[:3] {
		assert.True(t, strings.HasPrefix(q, "q site:"))
	}
}
