package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
