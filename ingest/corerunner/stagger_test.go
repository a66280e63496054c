package corerunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSegments_FiveWaySplit(t *testing.T) {
	// (302000-292000+1)/5 = 2000; 5*2000 = 10000 < 10001 ledgers in range,
	// so ledger 302000 falls outside every segment - the same truncation
	// behavior exercised below with a smaller range.
	segments := computeSegments(292000, 302000, 5)
	assert.Equal(t, []segment{
		{292000, 293999},
		{294000, 295999},
		{296000, 297999},
		{298000, 299999},
		{300000, 301999},
	}, segments)
}

func TestComputeSegments_TruncatingDivisionDropsRemainder(t *testing.T) {
	// (10-0+1)/3 = 3, so 3 segments of 3 ledgers each cover [0,8]; ledgers
	// 9 and 10 are never assigned to any segment - this is intentional,
	// see DESIGN.md, stagger.go.
	segments := computeSegments(0, 10, 3)
	assert.Equal(t, []segment{
		{0, 2},
		{3, 5},
		{6, 8},
	}, segments)
}
