package site

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/shopscout/models"
	"golang.org/x/net/html"
)

// ParseListings maps every Item match in rawHTML to a RawListing, in
// document order. Missing or blank fields become the sentinels. Relative
// image URLs are resolved against pageURL.
func ParseListings(rawHTML, pageURL string, sel Selectors) ([]models.RawListing, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to parse results page", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	base, _ := url.Parse(pageURL)
	attr := sel.ImageAttr
	if attr == "" {
		attr = "src"
	}

	items := doc.Find(sel.Item)
	listings := make([]models.RawListing, 0, items.Length())
	items.Each(func(_ int, item *goquery.Selection) {
		listings = append(listings, models.RawListing{
			Title:    textOr(item.Find(sel.Title).First(), models.SentinelTitle),
			RawPrice: textOr(item.Find(sel.Price).First(), models.SentinelPrice),
			ImageURL: imageOr(item.Find(sel.Image).First(), attr, base, models.SentinelImage),
		})
	})
	return listings, nil
}

func textOr(s *goquery.Selection, fallback string) string {
	if s.Length() == 0 {
		return fallback
	}
	text := strings.Join(strings.Fields(s.Text()), " ")
	if text == "" {
		return fallback
	}
	return text
}

func imageOr(s *goquery.Selection, attr string, base *url.URL, fallback string) string {
	src := strings.TrimSpace(s.AttrOr(attr, ""))
	if src == "" {
		return fallback
	}
	if base == nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}
