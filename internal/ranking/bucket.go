package ranking

// Position range labels. The numeric prefixes keep them sortable in reports.
const (
	RangeTop3     = "1) Pos 1-3"
	RangeTop10    = "2) Pos 4-10"
	RangeTop20    = "3) Pos 11-20"
	RangeBeyond20 = "4) Pos 20+"

	// NotRanking labels every field of a record whose domain was not found.
	NotRanking = "no posiciona"
)

// Bucket maps a rank to its range label. Zero and negative positions mean the
// domain is not ranking and never fall into a numeric range.
func Bucket(position int) string {
	switch {
	case position <= 0:
		return NotRanking
	case position <= 3:
		return RangeTop3
	case position <= 10:
		return RangeTop10
	case position <= 20:
		return RangeTop20
	default:
		return RangeBeyond20
	}
}
