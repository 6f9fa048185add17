// Package search retrieves news articles used as verification context.
package search

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/veritas-labs/veritas/internal/model"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DuckDuckGo scrapes the HTML results page of html.duckduckgo.com.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

func NewDuckDuckGo(baseURL string, timeout time.Duration) *DuckDuckGo {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DuckDuckGo{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// Text returns up to max organic results for query.
func (d *DuckDuckGo) Text(ctx context.Context, query string, max int) ([]model.Article, error) {
	if max <= 0 {
		return nil, nil
	}
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/html/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse results: %w", err)
	}

	var articles []model.Article
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		href := resolveHref(link.AttrOr("href", ""))
		if href == "" {
			return true
		}
		snippetHTML, _ := s.Find(".result__snippet").First().Html()
		titleHTML, _ := link.Html()
		articles = append(articles, model.Article{
			Title:   d.clean(titleHTML),
			Snippet: d.clean(snippetHTML),
			URL:     href,
			Source:  SourceOf(href),
		})
		return len(articles) < max
	})
	return articles, nil
}

func (d *DuckDuckGo) clean(fragment string) string {
	text := html.UnescapeString(d.sanitizer.Sanitize(fragment))
	return strings.Join(strings.Fields(text), " ")
}

// resolveHref unwraps DuckDuckGo redirect links (/l/?uddg=<target>).
func resolveHref(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// SourceOf returns the host of an article URL, or "unknown".
func SourceOf(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
