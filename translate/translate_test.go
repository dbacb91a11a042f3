package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("unmapped address", From("unmapped address"))
	assert.Equal("pc 0x00000010", From("pc 0x%08x", uint32(0x10)))
	assert.Equal("line 7 halt", From("line %d %v", 7, "halt"))
}
