package generator

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

// sitemapRoutes lists the home page, every collection listing and every
// published entry. An entry's lastmod is its file modification time when
// known, else its publication date.
func sitemapRoutes(results []*collections.Result) map[string]time.Time {
	routes := map[string]time.Time{"/": {}}
	for _, result := range results {
		listing := "/" + result.Collection + "/"
		for _, entry := range collections.Published(result.Entries) {
			lastMod := entry.LastModified
			if lastMod.IsZero() {
				lastMod = entry.PubDate()
			}
			routes[entry.Route()] = lastMod
			if lastMod.After(routes[listing]) {
				routes[listing] = lastMod
			}
			if lastMod.After(routes["/"]) {
				routes["/"] = lastMod
			}
		}
		if _, ok := routes[listing]; !ok {
			routes[listing] = time.Time{}
		}
	}
	return routes
}

func buildSitemap(baseURL string, routes map[string]time.Time) string {
	base := baseURLWithFallback(baseURL)

	entries := make([]sitemapEntry, 0, len(routes))
	for route, lastMod := range routes {
		entries = append(entries, sitemapEntry{
			Location: absoluteURL(base, route),
			LastMod:  lastMod,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", html.EscapeString(entry.Location)))
		if !entry.LastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

func buildRobots(baseURL string, includeSitemap bool) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	if includeSitemap {
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("Sitemap: %s\n", absoluteURL(baseURL, "/sitemap.xml")))
	}
	return builder.String()
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	target := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return target
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return target + normalized
}
