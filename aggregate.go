package main

// Summarize makes a single pass over a week's records and produces the
// counts the summary panel and both charts feed from. Only violating records
// enter the per-associate and per-metric maps; map iteration order is
// unspecified and consumers sort keys before display.
func Summarize(records []Record) Summary {
	s := Summary{
		PerAssociate:  make(map[string]int),
		PerMetricType: make(map[string]int),
	}
	for _, r := range records {
		s.Total++
		if !IsViolation(r.ReviewStatus()) {
			s.NonViolations++
			continue
		}
		s.Violations++
		s.PerAssociate[r.Associate()]++
		s.PerMetricType[r.Metric()]++
	}
	return s
}
