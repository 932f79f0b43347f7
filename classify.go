package main

// IsViolation reports whether a raw review status counts as a violation.
// Exactly three statuses do: never reviewed ("None"), and disputes that were
// denied or closed without approval. Anything else, including statuses we
// have never seen before, does not count.
func IsViolation(reviewStatus string) bool {
	switch reviewStatus {
	case "None", "Dispute Denied", "Dispute Closed":
		return true
	}
	return false
}

// ReviewLabel renders the display label for a review status. Only an
// approved dispute earns the "No" label; every other status displays as a
// violation even when IsViolation would say otherwise. The upstream report
// has always displayed it this way and downstream consumers expect it, so
// the mismatch with IsViolation is deliberate.
func ReviewLabel(reviewStatus string) string {
	if reviewStatus == "Dispute Approved" {
		return "No - Violation (Dispute Approved)"
	}
	return "Yes - Violation"
}
