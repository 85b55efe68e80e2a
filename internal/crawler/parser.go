package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	categoryLinkSelector = `ul li a[href*="/catalog/"]`
	cardSelector         = ".card"
	cardNameSelector     = ".card-footer a"
	cardImageSelector    = ".img img"
)

// card is the raw data extracted from one catalog tile.
type card struct {
	Index int // position on the category page
	Name  string
	Image string
}

// categoryLinks returns the first limit catalog links, resolved against base.
// Unresolvable hrefs yield an empty string so they still consume their slot.
func categoryLinks(doc *goquery.Document, base *url.URL, limit int) []string {
	var links []string
	doc.Find(categoryLinkSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(links) >= limit {
			return false
		}
		href, _ := s.Attr("href")
		links = append(links, resolve(base, href))
		return true
	})
	return links
}

// parseCards extracts up to limit cards. Cards lacking a name or an image
// element are skipped; they still count towards the limit.
func parseCards(doc *goquery.Document, base *url.URL, limit int) (cards []card, skipped int) {
	doc.Find(cardSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		c, ok := parseCard(s, base)
		if !ok {
			skipped++
			return true
		}
		c.Index = i
		cards = append(cards, c)
		return true
	})
	return cards, skipped
}

func parseCard(s *goquery.Selection, base *url.URL) (card, bool) {
	nameSel := s.Find(cardNameSelector).First()
	imgSel := s.Find(cardImageSelector).First()
	if nameSel.Length() == 0 || imgSel.Length() == 0 {
		return card{}, false
	}

	name := strings.Join(strings.Fields(nameSel.Text()), " ")
	if name == "" {
		return card{}, false
	}

	src, _ := imgSel.Attr("src")
	src = strings.TrimSpace(src)
	if src != "" {
		src = resolve(base, src)
	}
	return card{Name: name, Image: src}, true
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
