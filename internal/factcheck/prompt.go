package factcheck

import (
	"fmt"
	"strings"

	"github.com/veritas-labs/veritas/internal/model"
)

const (
	maxContextArticles = 5
	maxSnippetChars    = 200
	noArticlesContext  = "No recent web articles found."
)

const promptTemplate = `You are a news fact-checker. Analyze the claim against retrieved information from the web.

WEB ARTICLES:
%s

TRUSTED FACTS:
%s

CLAIM TO VERIFY:
%s

Rules:
1. If web articles from credible sources confirm the claim with specific details, return REAL
2. If web articles contradict the claim, if the claim is absurd/impossible, or if no credible sources found for a significant claim, return FAKE
3. If there is insufficient information to verify, return UNVERIFIED
4. Be especially skeptical of sensational claims about celebrities, disasters, or unlikely events
5. Consider the plausibility of the claim itself

Respond ONLY in this format:
VERDICT: [REAL/FAKE/UNVERIFIED]
REASON: [One sentence explanation with source if available]
`

// WebContext renders the top articles as "[source] title: snippet" lines.
func WebContext(articles []model.Article) string {
	if len(articles) == 0 {
		return noArticlesContext
	}
	if len(articles) > maxContextArticles {
		articles = articles[:maxContextArticles]
	}
	lines := make([]string, 0, len(articles))
	for _, a := range articles {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", a.Source, a.Title, truncateRunes(a.Snippet, maxSnippetChars)))
	}
	return strings.Join(lines, "\n")
}

// TrustedContext joins retrieved fact contents one per line.
func TrustedContext(facts []string) string {
	return strings.Join(facts, "\n")
}

// BuildPrompt fills the fact-checker template.
func BuildPrompt(webContext, trustedContext, claim string) string {
	return fmt.Sprintf(promptTemplate, webContext, trustedContext, claim)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
