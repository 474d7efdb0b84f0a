// Package linkmeta fills in the title and icon of a link item from the page it points to.
package linkmeta

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

type Metadata struct {
	URL     string
	Title   string
	IconURL string
}

type Fetcher struct {
	client *resty.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Fetcher{client: client}
}

// Fetch downloads the page and extracts its title and icon. Relative icon links are resolved against
// the final page URL, and /favicon.ico is assumed when the page declares none.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	var metadata Metadata
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return metadata, fmt.Errorf("url.ParseRequestURI(%s) > %w", rawURL, err)
	}

	res, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return metadata, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return metadata, fmt.Errorf("status code: %d, url: %s", res.StatusCode(), rawURL)
	}

	pageURL, _ := url.Parse(rawURL)
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		pageURL = res.RawResponse.Request.URL
	}
	metadata.URL = pageURL.String()

	doc, err := html.Parse(bytes.NewReader(res.Body()))
	if err != nil {
		return metadata, fmt.Errorf("html.Parse > %w", err)
	}
	metadata.Title = extractTitle(doc)

	iconHref := extractIconHref(doc)
	if iconHref == "" {
		iconHref = "/favicon.ico"
	}
	if iconURL, err := pageURL.Parse(iconHref); err == nil {
		metadata.IconURL = iconURL.String()
	}
	return metadata, nil
}

func extractTitle(n *html.Node) string {
	if title := cleanText(findText(n, "title")); title != "" {
		return title
	}
	if title := findMeta(n, "og:title"); title != "" {
		return title
	}
	return cleanText(findText(n, "h1"))
}

func findText(n *html.Node, tag string) string {
	if n.Type == html.ElementNode && n.Data == tag {
		return getTextContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := findText(c, tag); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

func findMeta(n *html.Node, property string) string {
	if n.Type == html.ElementNode && n.Data == "meta" && attr(n, "property") == property {
		return cleanText(attr(n, "content"))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := findMeta(c, property); content != "" {
			return content
		}
	}
	return ""
}

// extractIconHref prefers rel="icon" and "shortcut icon" over apple-touch-icon.
func extractIconHref(n *html.Node) string {
	var fallback string
	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "link" {
			href := strings.TrimSpace(attr(n, "href"))
			for _, rel := range strings.Fields(strings.ToLower(attr(n, "rel"))) {
				switch {
				case href == "":
				case rel == "icon":
					return href
				case strings.Contains(rel, "icon") && fallback == "":
					fallback = href
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if href := walk(c); href != "" {
				return href
			}
		}
		return ""
	}
	if href := walk(n); href != "" {
		return href
	}
	return fallback
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func getTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var result strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result.WriteString(getTextContent(c))
	}
	return result.String()
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
