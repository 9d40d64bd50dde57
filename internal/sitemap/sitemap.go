// Package sitemap discovers post URLs from a site's sitemap index. It parses
// the standard sitemap XML formats and turns post sitemap entries into
// archive references carrying lastmod and URL-derived dates.
package sitemap

import (
	"encoding/xml"
	"fmt"
)

// xmlSitemapIndex is the root element of a sitemap index XML file.
type xmlSitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []xmlSitemap `xml:"sitemap"`
}

// xmlSitemap is a single <sitemap> entry inside a <sitemapindex>.
type xmlSitemap struct {
	Loc string `xml:"loc"`
}

// xmlURLSet is the root element of a standard sitemap XML file.
type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []xmlURL `xml:"url"`
}

// xmlURL is a single <url> entry inside a <urlset>.
type xmlURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// parseIndex parses a sitemap index document into its child sitemap URLs.
func parseIndex(body []byte) ([]string, error) {
	var index xmlSitemapIndex
	if err := xml.Unmarshal(body, &index); err != nil {
		return nil, fmt.Errorf("parse sitemap index: %w", err)
	}
	locs := make([]string, 0, len(index.Sitemaps))
	for _, sm := range index.Sitemaps {
		if sm.Loc != "" {
			locs = append(locs, sm.Loc)
		}
	}
	return locs, nil
}

// parseURLSet parses one sitemap document into its URL entries.
func parseURLSet(body []byte) ([]xmlURL, error) {
	var urlset xmlURLSet
	if err := xml.Unmarshal(body, &urlset); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	return urlset.URLs, nil
}
