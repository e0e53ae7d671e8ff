package fire

import (
	"encoding/xml"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/bobby-s-dev/life-dashboard/internal/models"
)

const (
	// forecastDays is today plus the next three days.
	forecastDays = 4

	fireDistrictType   = "fire-district"
	behaviourIndexType = "fire_behaviour_index"
	fireDangerType     = "fire_danger"
	unknownRating      = "Unknown"
	unknownDay         = "?"
)

type forecastArea struct {
	Type        string           `xml:"type,attr"`
	Description string           `xml:"description,attr"`
	Periods     []forecastPeriod `xml:"forecast-period"`
	Areas       []forecastArea   `xml:"area"`
}

type forecastPeriod struct {
	Index          string       `xml:"index,attr"`
	StartTimeLocal string       `xml:"start-time-local,attr"`
	Elements       []typedValue `xml:"element"`
	Texts          []typedValue `xml:"text"`
}

type typedValue struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// ParseRatingsFeed reads the BOM fire weather product and returns up to four
// days of fire danger per fire district, ordered by period index.
// Malformed documents yield an empty map.
func ParseRatingsFeed(data []byte) map[string][]models.DangerDay {
	areas, err := decodeAreas(data)
	if err != nil {
		return map[string][]models.DangerDay{}
	}

	caser := newRatingCaser()
	result := make(map[string][]models.DangerDay)
	for _, area := range areas {
		if area.Type != fireDistrictType || area.Description == "" {
			continue
		}
		if days := dangerDays(area.Periods, caser); len(days) > 0 {
			result[area.Description] = days
		}
	}
	return result
}

// decodeAreas collects every <area> element regardless of nesting depth,
// parents before their children.
func decodeAreas(data []byte) ([]forecastArea, error) {
	var areas []forecastArea
	err := walkElements(data, func(dec *xml.Decoder, start xml.StartElement) error {
		if start.Name.Local != "area" {
			return nil
		}
		var area forecastArea
		if err := dec.DecodeElement(&area, &start); err != nil {
			return err
		}
		areas = flattenAreas(areas, area)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func flattenAreas(dst []forecastArea, area forecastArea) []forecastArea {
	children := area.Areas
	area.Areas = nil
	dst = append(dst, area)
	for _, child := range children {
		dst = flattenAreas(dst, child)
	}
	return dst
}

func dangerDays(periods []forecastPeriod, caser cases.Caser) []models.DangerDay {
	sorted := make([]forecastPeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return periodOrder(sorted[i]) < periodOrder(sorted[j])
	})
	if len(sorted) > forecastDays {
		sorted = sorted[:forecastDays]
	}

	days := make([]models.DangerDay, 0, len(sorted))
	for _, p := range sorted {
		days = append(days, models.DangerDay{
			Day:    dayLetter(p.StartTimeLocal),
			Rating: rating(p.Texts, caser),
			Index:  behaviourIndex(p.Elements),
		})
	}
	return days
}

// periodOrder sorts periods without a usable index after all indexed ones.
func periodOrder(p forecastPeriod) int {
	n, err := strconv.Atoi(strings.TrimSpace(p.Index))
	if err != nil {
		return math.MaxInt
	}
	return n
}

// dayLetter maps "2026-02-20T05:25:00+11:00" to "F". Tuesday and Thursday
// both map to "T", as do Saturday and Sunday to "S".
func dayLetter(startTimeLocal string) string {
	date, _, _ := strings.Cut(strings.TrimSpace(startTimeLocal), "T")
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return unknownDay
	}
	return t.Weekday().String()[:1]
}

func behaviourIndex(elements []typedValue) *int {
	for _, el := range elements {
		if el.Type != behaviourIndexType {
			continue
		}
		v := strings.TrimSpace(el.Value)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil
		}
		return &n
	}
	return nil
}

func rating(texts []typedValue, caser cases.Caser) string {
	for _, t := range texts {
		if t.Type != fireDangerType {
			continue
		}
		if v := strings.TrimSpace(t.Value); v != "" {
			return normalizeRating(caser, v)
		}
		return unknownRating
	}
	return unknownRating
}
