// Package extract turns 591 search result pages into listings.
package extract

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rentwatch-engine/internal/domain"
)

// InfoSeparator joins the secondary text fields of one listing.
const InfoSeparator = "/"

var listingIDRe = regexp.MustCompile(`rent\.591\.com\.tw/(\d+)`)

// ListingID returns the digits right after "rent.591.com.tw/" in link, or "".
func ListingID(link string) string {
	m := listingIDRe.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Extractor holds the selectors used to read one result page.
type Extractor struct {
	Item  string // listing container
	Title string
	Info  string
	Link  string
}

func Default() Extractor {
	return Extractor{
		Item:  ".item",
		Title: ".item-info-title",
		Info:  ".item-info-txt",
		Link:  "a",
	}
}

// FromHTML parses r and extracts its listings.
func (e Extractor) FromHTML(r io.Reader) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}
	return e.FromDocument(doc), nil
}

// FromDocument returns one listing per container, in document order.
// Missing parts become empty strings; a container is never skipped.
func (e Extractor) FromDocument(doc *goquery.Document) []domain.Listing {
	var out []domain.Listing
	doc.Find(e.Item).Each(func(_ int, item *goquery.Selection) {
		var info []string
		item.Find(e.Info).Each(func(_ int, s *goquery.Selection) {
			info = append(info, strings.TrimSpace(s.Text()))
		})

		link, _ := item.Find(e.Link).First().Attr("href")

		out = append(out, domain.Listing{
			ID:    ListingID(link),
			Title: strings.TrimSpace(item.Find(e.Title).Text()),
			Info:  strings.Join(info, InfoSeparator),
			URL:   link,
		})
	})
	return out
}
