package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		position int
		expected string
	}{
		{-1, NotRanking},
		{0, NotRanking},
		{1, RangeTop3},
		{3, RangeTop3},
		{4, RangeTop10},
		{10, RangeTop10},
		{11, RangeTop20},
		{20, RangeTop20},
		{21, RangeBeyond20},
		{100, RangeBeyond20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Bucket(tt.position), "position %d", tt.position)
	}
}
