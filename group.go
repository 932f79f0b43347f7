package main

import "sort"

// GroupByAssociate partitions records by associate for the detail table.
// Groups are created in order of each associate's first appearance in the
// input and records keep their original order within a group. The final
// ordering is subtotal descending; the stable sort leaves equal subtotals in
// first-appearance order, which is the order the table has always shown.
func GroupByAssociate(records []Record) Detail {
	var d Detail
	index := make(map[string]int)

	for _, r := range records {
		key := r.Associate()
		i, ok := index[key]
		if !ok {
			i = len(d.Groups)
			index[key] = i
			d.Groups = append(d.Groups, DetailGroup{Associate: key})
		}
		g := &d.Groups[i]
		g.Records = append(g.Records, r)
		if IsViolation(r.ReviewStatus()) {
			g.Subtotal++
		}
	}

	sort.SliceStable(d.Groups, func(i, j int) bool {
		return d.Groups[i].Subtotal > d.Groups[j].Subtotal
	})

	for _, g := range d.Groups {
		d.GrandTotal += g.Subtotal
	}
	return d
}
