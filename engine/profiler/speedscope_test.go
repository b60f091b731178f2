//go:build profile

package profiler

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingKeepsNewestInOrder(t *testing.T) {
	var r evRing
	r.init(3)
	for i := 0; i < 5; i++ {
		r.push(evEntry{AtNS: int64(i)})
	}
	got := r.snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].AtNS)
	assert.Equal(t, int64(4), got[2].AtNS)
}

func TestBalanceDropsOrphansAndClosesOpen(t *testing.T) {
	evs := []evEntry{
		{AtNS: 0, FrameID: 0, Open: true},
		{AtNS: 1000, FrameID: 1, Open: false}, // orphan close
		{AtNS: 2000, FrameID: 1, Open: true},
		{AtNS: 3000, FrameID: 1, Open: false},
	}
	out, end := balance(evs)
	require.Len(t, out, 4)
	assert.Equal(t, "O", out[0].Type)
	assert.Equal(t, ssEvent{Type: "C", At: 3, Frame: 0}, out[3])
	assert.Equal(t, int64(3), end)
}

func TestDumpWritesSpeedscope(t *testing.T) {
	Init(64)
	end := Start("graphics.Flush")
	end()

	path, err := Dump(t.TempDir())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc ssFile
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Profiles, 1)
	assert.Len(t, doc.Profiles[0].Events, 2)
	assert.Contains(t, doc.Shared.Frames, ssFrame{Name: "graphics.Flush"})
}
