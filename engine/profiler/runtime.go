// Package profiler records named scopes for speedscope (build tag
// "profile") and reports process memory figures for debug overlays.
package profiler

import (
	"errors"
	"runtime"
)

// ErrNoEvents is returned by Dump when nothing was recorded.
var ErrNoEvents = errors.New("profiler: no events to dump")

// Memory is a point-in-time snapshot of the Go heap.
type Memory struct {
	Alloc      uint64 // live heap bytes
	Mallocs    uint64
	Goroutines int
	CPUs       int
}

func ReadMemory() Memory {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Memory{
		Alloc:      m.Alloc,
		Mallocs:    m.Mallocs,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}
