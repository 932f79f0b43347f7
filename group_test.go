package main

import "testing"

func TestGroupByAssociateScenario(t *testing.T) {
	records := []Record{
		{Date: "1/1", DeliveryAssociate: "A", MetricType: "Speeding", ReviewDetails: strptr("None")},
		{Date: "1/2", DeliveryAssociate: "B", MetricType: "Speeding", ReviewDetails: strptr("Dispute Approved")},
	}

	d := GroupByAssociate(records)
	if len(d.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(d.Groups))
	}
	if d.Groups[0].Associate != "A" || d.Groups[0].Subtotal != 1 {
		t.Fatalf("expected A first with subtotal 1, got %+v", d.Groups[0])
	}
	if d.Groups[1].Associate != "B" || d.Groups[1].Subtotal != 0 {
		t.Fatalf("expected B second with subtotal 0, got %+v", d.Groups[1])
	}
	if d.GrandTotal != 1 {
		t.Fatalf("unexpected grand total: %d", d.GrandTotal)
	}
}

func TestGroupOrderingSubtotalDescFirstAppearanceTies(t *testing.T) {
	// C appears first but has fewer violations than B; A and C tie and A
	// appeared earlier in the input, so A must come before C.
	records := []Record{
		{DeliveryAssociate: "A", ReviewDetails: strptr("None")},
		{DeliveryAssociate: "C", ReviewDetails: strptr("Dispute Approved")},
		{DeliveryAssociate: "B", ReviewDetails: strptr("None")},
		{DeliveryAssociate: "B", ReviewDetails: strptr("Dispute Denied")},
		{DeliveryAssociate: "C", ReviewDetails: strptr("Dispute Closed")},
	}

	d := GroupByAssociate(records)
	got := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		got[i] = g.Associate
	}
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected group order: got %v, want %v", got, want)
		}
	}
}

func TestGroupRecordOrderPreserved(t *testing.T) {
	records := []Record{
		{Date: "1/1", DeliveryAssociate: "A", ReviewDetails: strptr("None")},
		{Date: "1/2", DeliveryAssociate: "B", ReviewDetails: strptr("None")},
		{Date: "1/3", DeliveryAssociate: "A", ReviewDetails: strptr("Dispute Approved")},
		{Date: "1/4", DeliveryAssociate: "A", ReviewDetails: strptr("None")},
	}

	d := GroupByAssociate(records)
	var groupA *DetailGroup
	for i := range d.Groups {
		if d.Groups[i].Associate == "A" {
			groupA = &d.Groups[i]
		}
	}
	if groupA == nil {
		t.Fatal("missing group A")
	}
	dates := []string{"1/1", "1/3", "1/4"}
	if len(groupA.Records) != len(dates) {
		t.Fatalf("expected %d records in group A, got %d", len(dates), len(groupA.Records))
	}
	for i, want := range dates {
		if groupA.Records[i].Date != want {
			t.Fatalf("record order broken at %d: got %s, want %s", i, groupA.Records[i].Date, want)
		}
	}
}

func TestGroupUnknownAssociateKey(t *testing.T) {
	records := []Record{
		{Date: "1/1", ReviewDetails: strptr("None")},
		{Date: "1/2", DeliveryAssociate: "", ReviewDetails: strptr("None")},
	}
	d := GroupByAssociate(records)
	if len(d.Groups) != 1 || d.Groups[0].Associate != "(Unknown)" {
		t.Fatalf("expected a single (Unknown) group, got %+v", d.Groups)
	}
	if d.Groups[0].Subtotal != 2 {
		t.Fatalf("unexpected subtotal: %d", d.Groups[0].Subtotal)
	}
}

// The grouped grand total and the summary's violation count are two paths to
// the same number and must always agree.
func TestGrandTotalMatchesSummaryViolations(t *testing.T) {
	inputs := [][]Record{
		nil,
		{{DeliveryAssociate: "A", ReviewDetails: strptr("None")}},
		{
			{DeliveryAssociate: "A", ReviewDetails: strptr("None")},
			{DeliveryAssociate: "A", ReviewDetails: strptr("Dispute Approved")},
			{DeliveryAssociate: "B", ReviewDetails: strptr("Dispute Denied")},
			{DeliveryAssociate: "C"},
			{DeliveryAssociate: "C", ReviewDetails: strptr("Under Review")},
			{ReviewDetails: strptr("Dispute Closed")},
		},
	}

	for i, records := range inputs {
		d := GroupByAssociate(records)
		s := Summarize(records)
		if d.GrandTotal != s.Violations {
			t.Fatalf("case %d: grand total %d != summary violations %d", i, d.GrandTotal, s.Violations)
		}
		sum := 0
		for _, g := range d.Groups {
			sum += g.Subtotal
		}
		if sum != d.GrandTotal {
			t.Fatalf("case %d: subtotal sum %d != grand total %d", i, sum, d.GrandTotal)
		}
	}
}
