package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.True(t, a < b, "ULIDs from one process should sort by creation")
	assert.True(t, IsULID(a))
	assert.False(t, IsULID("not-a-ulid"))
}
