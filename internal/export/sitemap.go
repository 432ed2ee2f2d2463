package export

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap produces a sitemap.xml body for the rendered pages. Entries are
// deduplicated by location and sorted so repeated builds emit identical bytes.
func buildSitemap(baseURL string, pages []RenderedArticle, fallback time.Time) string {
	base := siteBase(baseURL)

	seen := map[string]struct{}{}
	urls := make([]sitemapURL, 0, len(pages))
	for _, page := range pages {
		location := base + normalizeRoute(page.Route)
		if _, dup := seen[location]; dup {
			continue
		}
		seen[location] = struct{}{}

		lastMod := page.LastModified
		if lastMod.IsZero() {
			lastMod = fallback
		}
		entry := sitemapURL{Loc: location}
		if !lastMod.IsZero() {
			entry.LastMod = lastMod.UTC().Format(time.RFC3339)
		}
		urls = append(urls, entry)
	}

	sort.Slice(urls, func(i, j int) bool {
		return urls[i].Loc < urls[j].Loc
	})

	body, err := xml.MarshalIndent(sitemapURLSet{Xmlns: sitemapNamespace, URLs: urls}, "", "  ")
	if err != nil {
		// Static structs with string fields cannot fail to marshal.
		return xml.Header
	}
	return xml.Header + string(body) + "\n"
}

// buildRobots produces a permissive robots.txt, optionally pointing crawlers
// at the generated sitemap.
func buildRobots(baseURL string, includeSitemap bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if includeSitemap {
		b.WriteString("\nSitemap: " + siteBase(baseURL) + "/sitemap.xml\n")
	}
	return b.String()
}

func siteBase(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	return base
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}
