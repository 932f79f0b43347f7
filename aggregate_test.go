package main

import "testing"

func strptr(s string) *string { return &s }

func TestSummarizeScenario(t *testing.T) {
	records := []Record{
		{Date: "1/1", DeliveryAssociate: "A", MetricType: "Speeding", ReviewDetails: strptr("None")},
		{Date: "1/2", DeliveryAssociate: "B", MetricType: "Speeding", ReviewDetails: strptr("Dispute Approved")},
	}

	s := Summarize(records)
	if s.Total != 2 || s.Violations != 1 || s.NonViolations != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if len(s.PerAssociate) != 1 || s.PerAssociate["A"] != 1 {
		t.Fatalf("unexpected per-associate counts: %v", s.PerAssociate)
	}
	if len(s.PerMetricType) != 1 || s.PerMetricType["Speeding"] != 1 {
		t.Fatalf("unexpected per-metric counts: %v", s.PerMetricType)
	}
}

func TestSummarizeMissingReviewDetailsIsViolation(t *testing.T) {
	// An absent Review Details field means "never reviewed" and counts as a
	// violation; an empty string present in the data does not.
	records := []Record{
		{Date: "1/1", DeliveryAssociate: "A", MetricType: "Speeding"},
		{Date: "1/2", DeliveryAssociate: "B", MetricType: "Speeding", ReviewDetails: strptr("")},
	}

	s := Summarize(records)
	if s.Violations != 1 || s.NonViolations != 1 {
		t.Fatalf("expected absent field to violate and empty string not to: %+v", s)
	}
	if s.PerAssociate["A"] != 1 {
		t.Fatalf("expected A's missing review to count: %v", s.PerAssociate)
	}
	if _, ok := s.PerAssociate["B"]; ok {
		t.Fatalf("non-violating record must not enter the per-associate map: %v", s.PerAssociate)
	}
}

func TestSummarizeUnknownNormalization(t *testing.T) {
	records := []Record{
		{Date: "1/1", ReviewDetails: strptr("None")},
		{Date: "1/2", DeliveryAssociate: "", MetricType: "", ReviewDetails: strptr("Dispute Denied")},
	}

	s := Summarize(records)
	if s.PerAssociate["(Unknown)"] != 2 {
		t.Fatalf("expected both records under (Unknown): %v", s.PerAssociate)
	}
	if s.PerMetricType["(Unknown)"] != 2 {
		t.Fatalf("expected both metrics under (Unknown): %v", s.PerMetricType)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Violations != 0 || s.NonViolations != 0 {
		t.Fatalf("unexpected counts for empty input: %+v", s)
	}
	if s.PerAssociate == nil || s.PerMetricType == nil {
		t.Fatal("maps must be non-nil even for empty input")
	}
}
