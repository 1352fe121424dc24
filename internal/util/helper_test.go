package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneSlice(t *testing.T) {
	src := []int{1, 2, 3}

	clone := CloneSlice(src, 0)
	assert.Equal(t, src, clone)

	clone[0] = 9
	assert.Equal(t, 1, src[0], "clone must not share the backing array")

	longer := CloneSlice(src, 5)
	assert.Equal(t, []int{1, 2, 3, 0, 0}, longer)

	shorter := CloneSlice(src, 2)
	assert.Equal(t, []int{1, 2}, shorter)
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, []string{"x", "x", "x"}, Repeat("x", 3))
	assert.Nil(t, Repeat(1, 0))
	assert.Nil(t, Repeat(1, -2))
}
