package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DOMExtractor reads head values from a parsed document. Unlike the
// pattern extractor it tolerates attribute case, extra attributes and
// non-self-closing meta tags.
type DOMExtractor struct{}

// NewDOMExtractor creates a DOM extractor.
func NewDOMExtractor() *DOMExtractor {
	return &DOMExtractor{}
}

// Extract implements Extractor. The parser always synthesizes a <head>,
// so a head counts as found only when it ends up with child nodes.
func (d *DOMExtractor) Extract(body []byte) Head {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Head{}
	}
	doc := goquery.NewDocumentFromNode(root)

	head := doc.Find("head").First()
	if head.Length() == 0 || head.Children().Length() == 0 {
		return Head{}
	}

	h := Head{Found: true}

	if title := head.Find("title").First(); title.Length() > 0 {
		h.TitleFound = true
		h.Title = title.Text()
	}

	head.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "description") {
			return true
		}
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		h.DescriptionFound = true
		h.Description = content
		return false
	})

	return h
}
