package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/medela/internal/common"
)

// pageFetcher drives a pooled browser through search, result selection and
// page capture for one medicine, returning main-content markdown.
type pageFetcher struct {
	pool   *BrowserPool
	config *common.LookupConfig
	logger arbor.ILogger
}

func newPageFetcher(pool *BrowserPool, config *common.LookupConfig, logger arbor.ILogger) *pageFetcher {
	return &pageFetcher{
		pool:   pool,
		config: config,
		logger: logger,
	}
}

// Fetch searches for a medicine, selects a reference site and captures the
// rendered page as markdown. Returns the markdown and the final page URL.
func (f *pageFetcher) Fetch(ctx context.Context, name string) (string, string, error) {
	browserCtx, release, err := f.pool.GetBrowser()
	if err != nil {
		return "", "", fmt.Errorf("failed to acquire browser: %w", err)
	}
	defer release()

	// Tie the tab work to both the pool's browser and the caller's deadline
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	runCtx, runCancel := context.WithTimeout(tabCtx, f.config.PageTimeout)
	defer runCancel()

	// Stop if the request context was cancelled
	go func() {
		select {
		case <-ctx.Done():
			runCancel()
		case <-runCtx.Done():
		}
	}()

	searchHTML, err := f.capturePage(runCtx, f.searchURL(name))
	if err != nil {
		return "", "", fmt.Errorf("search navigation failed: %w", err)
	}

	resultURL, err := f.selectResult(searchHTML)
	if err != nil {
		return "", "", err
	}

	f.logger.Debug().
		Str("medicine", name).
		Str("url", resultURL).
		Msg("Selected lookup result")

	pageHTML, err := f.capturePage(runCtx, resultURL)
	if err != nil {
		return "", "", fmt.Errorf("result page navigation failed: %w", err)
	}

	// The page may have redirected; report the final location
	var finalURL string
	if err := chromedp.Run(runCtx, chromedp.Location(&finalURL)); err != nil || finalURL == "" {
		finalURL = resultURL
	}

	markdown, err := htmlToMarkdown(pageHTML, finalURL)
	if err != nil {
		return "", "", err
	}

	return truncateContent(markdown, f.config.MaxContentChars), finalURL, nil
}

// searchURL builds the search engine URL for a medicine query
func (f *pageFetcher) searchURL(name string) string {
	query := url.QueryEscape(name + " medicine")
	return fmt.Sprintf(f.config.SearchURL, query)
}

// capturePage navigates to a URL, waits for JavaScript to render and
// returns the document HTML.
func (f *pageFetcher) capturePage(ctx context.Context, pageURL string) (string, error) {
	var html string
	err := chromedp.Run(ctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "en-US,en;q=0.9",
		}),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(f.config.RenderWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// selectResult picks a result link from search result HTML, preferring the
// configured medicine reference domains in priority order. Falls back to the
// first external result when no preferred domain matches.
func (f *pageFetcher) selectResult(searchHTML string) (string, error) {
	links, err := harvestResultLinks(searchHTML)
	if err != nil {
		return "", err
	}
	if len(links) == 0 {
		return "", fmt.Errorf("no usable links in search results")
	}

	for _, domain := range f.config.PreferredDomains {
		for _, link := range links {
			if linkHasDomain(link, domain) {
				return link, nil
			}
		}
	}

	f.logger.Debug().Msg("No preferred domain in results, using first link")
	return links[0], nil
}

// harvestResultLinks extracts external http(s) links from search result HTML,
// preserving page order and skipping search-engine internals.
func harvestResultLinks(searchHTML string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(searchHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := normalizeResultLink(href)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links, nil
}

// normalizeResultLink resolves search-engine redirect wrappers and filters
// non-result links. Returns "" for links that should be skipped.
func normalizeResultLink(href string) string {
	if href == "" {
		return ""
	}

	// DuckDuckGo html results wrap targets in /l/?uddg=<encoded>
	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				href = target
			}
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	// Skip search-engine internal hosts
	for _, engine := range []string{"duckduckgo.com", "google.", "bing.com"} {
		if strings.Contains(host, engine) {
			return ""
		}
	}

	return u.String()
}

// linkHasDomain reports whether a link's host matches or is a subdomain of
// the given domain.
func linkHasDomain(link string, domain string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
