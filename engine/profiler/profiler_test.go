package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadMemory(t *testing.T) {
	m := ReadMemory()
	assert.Positive(t, m.Alloc)
	assert.GreaterOrEqual(t, m.Goroutines, 1)
	assert.GreaterOrEqual(t, m.CPUs, 1)
}

func TestStartAlwaysReturnsCloser(t *testing.T) {
	end := Start("scope")
	assert.NotNil(t, end)
	end()
}
