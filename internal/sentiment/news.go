package sentiment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// DefaultFeedURL is the Google News RSS search used to gather recent
// financial headlines for a ticker. %s is replaced with the escaped ticker.
const DefaultFeedURL = "https://news.google.com/rss/search?q=%s+stock+financial"

// Fetcher pulls recent news headlines for a ticker from an RSS feed.
type Fetcher struct {
	parser       *gofeed.Parser
	feedURL      string
	maxHeadlines int
}

// NewFetcher creates a news fetcher. feedURL must contain a %s placeholder
// for the ticker; empty values fall back to the defaults.
func NewFetcher(feedURL string, maxHeadlines int) *Fetcher {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if maxHeadlines <= 0 {
		maxHeadlines = 20
	}
	return &Fetcher{
		parser:       gofeed.NewParser(),
		feedURL:      feedURL,
		maxHeadlines: maxHeadlines,
	}
}

// Headlines returns up to maxHeadlines recent headline titles for a ticker.
func (f *Fetcher) Headlines(ctx context.Context, ticker string) ([]string, error) {
	feedURL := fmt.Sprintf(f.feedURL, url.QueryEscape(ticker))

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var headlines []string
	for _, item := range feed.Items {
		if len(headlines) >= f.maxHeadlines {
			break
		}
		title := stripHTML(item.Title)
		if title != "" {
			headlines = append(headlines, title)
		}
	}

	return headlines, nil
}

// stripHTML extracts plain text from possibly HTML-formatted feed content.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
