package review

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// MinBodyLength is the shortest extracted review text worth publishing.
const MinBodyLength = 20

// ExtractText strips markup from a review body. Only paragraphs without an
// embedded image survive; they are joined with a single space.
func ExtractText(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if p.Find("img").Length() > 0 {
			return
		}
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, text)
	})

	return norm.NFC.String(strings.Join(paragraphs, " "))
}
