package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMax(t *testing.T) {
	assert.Equal(t, 5, Max(5, 3))
	assert.Equal(t, 5, Max(3, 5))
	assert.Equal(t, 3, Max(3, 3))
	assert.Equal(t, 2.5, Max(2.5, 1.1))
}

func TestMin(t *testing.T) {
	assert.Equal(t, 3, Min(5, 3))
	assert.Equal(t, 3, Min(3, 5))
	assert.Equal(t, uint32(2), Min(uint32(2), uint32(9)))
}
