package fire

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// DistrictLine is one "District: VALUE" entry found in a paragraph.
type DistrictLine struct {
	District string
	Value    string
}

// ParseDistrictLines extracts "District: VALUE" pairs from an HTML paragraph.
// Tags become line breaks. A repeated district keeps its first position and
// takes the last value.
func ParseDistrictLines(paragraph string) []DistrictLine {
	clean := tagRe.ReplaceAllString(paragraph, "\n")

	var lines []DistrictLine
	pos := make(map[string]int)
	for _, line := range strings.Split(clean, "\n") {
		district, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		district = strings.TrimSpace(district)
		value = strings.TrimSpace(value)
		if district == "" || value == "" {
			continue
		}
		if i, seen := pos[district]; seen {
			lines[i].Value = value
			continue
		}
		pos[district] = len(lines)
		lines = append(lines, DistrictLine{District: district, Value: value})
	}
	return lines
}

// NormalizeRating turns "VERY HIGH" into "Very High" and "LOW-MODERATE" into "Low-Moderate".
func NormalizeRating(rating string) string {
	return normalizeRating(newRatingCaser(), rating)
}

// newRatingCaser returns a title caser for ratings. A Caser holds state and
// must not be shared between goroutines, so each parse builds its own.
func newRatingCaser() cases.Caser {
	return cases.Title(language.English)
}

func normalizeRating(caser cases.Caser, rating string) string {
	parts := strings.Split(rating, "-")
	for i, part := range parts {
		parts[i] = caser.String(part)
	}
	return strings.Join(parts, "-")
}
