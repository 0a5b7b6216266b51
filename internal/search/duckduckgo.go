package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"inboxpilot/internal/logger"
)

const htmlEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGoSearcher scrapes the DuckDuckGo HTML endpoint. It never returns
// an error: any internal failure is folded into the returned text so the
// dispatcher can embed it in a narrative as-is.
type DuckDuckGoSearcher struct {
	httpClient *http.Client
	logger     *logger.Logger
}

func NewDuckDuckGoSearcher(logger *logger.Logger) *DuckDuckGoSearcher {
	return &DuckDuckGoSearcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (s *DuckDuckGoSearcher) Search(ctx context.Context, query string, maxResults int) string {
	s.logger.Info("Performing web search for query:", query)

	searchURL := htmlEndpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		s.logger.Error("Failed to build search request:", err)
		return fmt.Sprintf("Error occurred during web search for '%s'.", query)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) inboxpilot/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Web search request failed:", err)
		return fmt.Sprintf("Error occurred during web search for '%s'.", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Web search returned status:", resp.StatusCode)
		return fmt.Sprintf("Error occurred during web search for '%s'.", query)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.logger.Error("Failed to parse search results page:", err)
		return fmt.Sprintf("Error occurred during web search for '%s'.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Web search results for '%s':\n", query)

	count := 0
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if count >= maxResults {
			return false
		}
		link := sel.Find("a.result__a")
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" {
			return true
		}
		if href == "" {
			href = "#"
		}
		if snippet == "" {
			snippet = "No snippet available."
		}

		count++
		fmt.Fprintf(&b, "%d. %s (%s)\n   %s\n\n", count, title, href, snippet)
		return true
	})

	if count == 0 {
		s.logger.Info("No search results found")
		return fmt.Sprintf("No results found for '%s'.", query)
	}

	s.logger.Info("Web search successful, found", count, "results")
	return strings.TrimSpace(b.String())
}

// MockSearcher is a mock implementation of Searcher for testing
type MockSearcher struct {
	SearchFunc func(ctx context.Context, query string, maxResults int) string
}

func NewMockSearcher() *MockSearcher {
	return &MockSearcher{}
}

func (m *MockSearcher) Search(ctx context.Context, query string, maxResults int) string {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults)
	}
	return fmt.Sprintf("No results found for '%s'.", query)
}
