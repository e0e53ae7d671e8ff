package fire

import (
	"bytes"
	"html"
	"strings"

	"github.com/mmcdole/gofeed/rss"
)

const ratingsMarker = "Fire Danger Ratings"

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseBanFeed reads the CFA RSS feed and reports today's Total Fire Ban
// status per district. Only the first item is considered. Malformed feeds
// yield an empty map.
func ParseBanFeed(data []byte) map[string]bool {
	result := make(map[string]bool)

	// The RSS parser is lenient; reject anything that is not well-formed XML.
	if err := walkElements(data, nil); err != nil {
		return result
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(stripBOM(data)))
	if err != nil || feed == nil || len(feed.Items) == 0 {
		return result
	}

	chunk, ok := banParagraph(feed.Items[0].Description)
	if !ok {
		return result
	}

	for _, line := range ParseDistrictLines(chunk) {
		result[line.District] = isBanValue(line.Value)
	}
	return result
}

// banParagraph returns the paragraph immediately preceding the
// "Fire Danger Ratings" header.
func banParagraph(description string) (string, bool) {
	paragraphs := strings.Split(html.UnescapeString(description), "</p>")
	for i, p := range paragraphs {
		if !strings.Contains(p, ratingsMarker) {
			continue
		}
		if i == 0 {
			return "", false
		}
		return paragraphs[i-1], true
	}
	return "", false
}

// isBanValue is true for "YES" and false for anything mentioning "NO",
// e.g. "NO - RESTRICTIONS MAY APPLY".
func isBanValue(value string) bool {
	return strings.Contains(value, "YES") && !strings.Contains(value, "NO")
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
