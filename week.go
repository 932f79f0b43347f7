package main

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// weekPattern matches a 4-digit year followed, anywhere later in the name, by
// the letter w and a 1-2 digit week number, e.g. "violations_2025w07.json".
var weekPattern = regexp.MustCompile(`(\d{4}).*?w(\d{1,2})`)

type WeekInfo struct {
	Year int
	Week int
}

// ParseWeekInfo extracts (year, week) from a weekly data filename. It reports
// false when the name does not follow the convention, the year is zero, or
// the week number is outside 1..53.
func ParseWeekInfo(filename string) (WeekInfo, bool) {
	m := weekPattern.FindStringSubmatch(strings.ToLower(filename))
	if m == nil {
		return WeekInfo{}, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || year == 0 {
		return WeekInfo{}, false
	}
	week, err := strconv.Atoi(m[2])
	if err != nil || week < 1 || week > 53 {
		return WeekInfo{}, false
	}
	return WeekInfo{Year: year, Week: week}, true
}

// WeekLabel renders the selector label for a filename, falling back to an
// "Unknown Week" label that still shows the raw name.
func WeekLabel(filename string) string {
	info, ok := ParseWeekInfo(filename)
	if !ok {
		return fmt.Sprintf("Unknown Week (%s)", filename)
	}
	return fmt.Sprintf("Week %02d — %d", info.Week, info.Year)
}

// SortKeyForWeek returns a chronological ordering key for a filename.
// year*100+week orders correctly while week numbers stay below 100, which
// ISO weeks always do; unparseable names sort after every parseable one.
func SortKeyForWeek(filename string) float64 {
	info, ok := ParseWeekInfo(filename)
	if !ok {
		return math.Inf(1)
	}
	return float64(info.Year*100 + info.Week)
}
