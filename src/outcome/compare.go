package outcome

import (
	"fmt"
	"strings"

	"house_assignment/src/housing"
)

type ComparisonRow struct {
	Bucket   Bucket
	A, B     int
	APercent float64
	BPercent float64
	// Diff is B minus A, only meaningful when both results are present.
	Diff int
}

// Comparison lines up the summaries of up to two results for the same snapshot.
type Comparison struct {
	Weighting Weighting
	A, B      *RankSummary
	Rows      []ComparisonRow
}

func Compare(snap *housing.Snapshot, a, b housing.Result, w Weighting) Comparison {
	cmp := Comparison{Weighting: w}
	if a != nil {
		s := Classify(snap, a)
		cmp.A = &s
	}
	if b != nil {
		s := Classify(snap, b)
		cmp.B = &s
	}
	for bucket := Rank1; bucket < NumBuckets; bucket++ {
		row := ComparisonRow{Bucket: bucket}
		if cmp.A != nil {
			row.A = cmp.A.Counts(w)[bucket]
			row.APercent = cmp.A.Percent(bucket, w)
		}
		if cmp.B != nil {
			row.B = cmp.B.Counts(w)[bucket]
			row.BPercent = cmp.B.Percent(bucket, w)
		}
		if cmp.A != nil && cmp.B != nil {
			row.Diff = row.B - row.A
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}

func cell(present bool, format string, args ...any) string {
	if !present {
		return "-"
	}
	return fmt.Sprintf(format, args...)
}

func (c Comparison) String() string {
	hasA, hasB := c.A != nil, c.B != nil
	s := new(strings.Builder)
	fmt.Fprintf(s, "Rank summary (%v)\n", c.Weighting)
	fmt.Fprintf(s, "%-10s %8s %8s %8s %8s %6s\n", "rank", "Va", "Va %", "Vb", "Vb %", "diff")
	for _, row := range c.Rows {
		fmt.Fprintf(s, "%-10s %8s %8s %8s %8s %6s\n",
			row.Bucket,
			cell(hasA, "%d", row.A),
			cell(hasA, "%.2f", row.APercent),
			cell(hasB, "%d", row.B),
			cell(hasB, "%.2f", row.BPercent),
			cell(hasA && hasB, "%+d", row.Diff),
		)
	}
	if hasA {
		fmt.Fprintf(s, "Va unassigned: %d groups, %d people\n", c.A.UnassignedGroups, c.A.UnassignedPeople)
	}
	if hasB {
		fmt.Fprintf(s, "Vb unassigned: %d groups, %d people\n", c.B.UnassignedGroups, c.B.UnassignedPeople)
	}
	return s.String()
}
