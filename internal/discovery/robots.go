package discovery

import (
	"regexp"
	"strings"
)

var robotsSitemapPattern = regexp.MustCompile(`Sitemap:\s*(.*)`)

// SitemapFromRobots returns the first sitemap URL declared in a robots.txt
// body, or "" when none is declared.
func SitemapFromRobots(body []byte) string {
	m := robotsSitemapPattern.FindSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(string(m[1]), "\r"))
}
