package lookup

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Selectors for elements that carry no medicine content
const noiseSelectors = "script, style, nav, footer, iframe, aside, " +
	".cookie-banner, .popup, .modal, .advertisement, .ad, .banner, " +
	"[role=banner], [role=complementary]"

// Candidate selectors for the main content area, checked in order
var contentSelectors = []string{
	"main",
	"article",
	"#content",
	".content",
	".main",
	".main-content",
	".product-detail",
	".drug-info",
	".medicine-info",
	".product-description",
	"div[role=main]",
}

var excessNewlinesRegex = regexp.MustCompile(`\n{3,}`)

// A content area shorter than this is assumed to be navigation chrome
const minContentChars = 200

// htmlToMarkdown reduces a rendered page to main-content markdown suitable
// for an extraction prompt. The source URL is appended so the model can
// report provenance.
func htmlToMarkdown(html string, sourceURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()

	content := findMainContent(doc)

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("failed to serialize content: %w", err)
	}

	converter := md.NewConverter(sourceURL, true, nil)
	markdown, err := converter.ConvertString(contentHTML)
	if err != nil {
		return "", fmt.Errorf("failed to convert content to markdown: %w", err)
	}

	markdown = excessNewlinesRegex.ReplaceAllString(markdown, "\n\n")
	markdown = strings.TrimSpace(markdown)

	return markdown + "\n\nSource URL: " + sourceURL, nil
}

// findMainContent returns the first candidate content area with substantial
// text, falling back to body.
func findMainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		var found *goquery.Selection
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(strings.TrimSpace(sel.Text())) > minContentChars {
				found = sel
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return doc.Find("body")
}

// truncateContent caps markdown length for the extraction prompt
func truncateContent(markdown string, maxChars int) string {
	if maxChars <= 0 || len(markdown) <= maxChars {
		return markdown
	}
	return markdown[:maxChars]
}
