package main

import "encoding/json"

const unknownKey = "(Unknown)"

// Record is one review event from a weekly data file. The JSON keys are the
// exact column names the upstream export uses, spaces included.
type Record struct {
	Date              string
	DeliveryAssociate string
	MetricType        string
	MetricSubtype     string
	ReviewDetails     *string
}

type recordJSON struct {
	Date              string  `json:"Date"`
	DeliveryAssociate string  `json:"Delivery Associate"`
	MetricType        string  `json:"Metric Type"`
	MetricSubtype     string  `json:"Metric Subtype"`
	ReviewDetails     *string `json:"Review Details"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		Date:              raw.Date,
		DeliveryAssociate: raw.DeliveryAssociate,
		MetricType:        raw.MetricType,
		MetricSubtype:     raw.MetricSubtype,
		ReviewDetails:     raw.ReviewDetails,
	}
	return nil
}

// ReviewStatus returns the raw review status, defaulting to "None" when the
// field was absent from the record. An empty string present in the data is
// kept as-is; only a missing field means "never reviewed".
func (r Record) ReviewStatus() string {
	if r.ReviewDetails == nil {
		return "None"
	}
	return *r.ReviewDetails
}

// Associate returns the grouping key for the record, normalizing a
// missing/empty associate to the literal "(Unknown)".
func (r Record) Associate() string {
	if r.DeliveryAssociate == "" {
		return unknownKey
	}
	return r.DeliveryAssociate
}

// Metric returns the metric type, normalized like Associate.
func (r Record) Metric() string {
	if r.MetricType == "" {
		return unknownKey
	}
	return r.MetricType
}

// Dataset is one manifest entry: a weekly file plus its derived display
// label and chronological sort key.
type Dataset struct {
	File    string
	Label   string
	SortKey float64
}

// Summary is the aggregate view of one week's records.
type Summary struct {
	Total         int
	Violations    int
	NonViolations int
	PerAssociate  map[string]int
	PerMetricType map[string]int
}

// DetailGroup is one associate's slice of a week, in original record order.
type DetailGroup struct {
	Associate string
	Records   []Record
	Subtotal  int
}

// Detail is the grouped detail-table model: groups ordered by subtotal
// descending, plus the grand total across all groups.
type Detail struct {
	Groups     []DetailGroup
	GrandTotal int
}
