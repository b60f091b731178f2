// Package shader keeps per-program attribute and uniform locations, the
// registry of program variants keyed by vertex flags, and the generator
// for the GLSL those variants are built from.
package shader

import (
	"fmt"
	"sort"

	"github.com/hubastard/scrawl/engine/core"
)

var ErrAttributeNotFound = core.ErrAttributeNotFound

// Locations is the name to slot table of one linked program. Fill it once
// after linking; lookups never go back to the driver.
type Locations struct {
	attributes map[string]uint32
	uniforms   map[string]int32
}

func NewLocations() *Locations {
	return &Locations{
		attributes: map[string]uint32{},
		uniforms:   map[string]int32{},
	}
}

func (l *Locations) AddAttribute(name string, loc uint32) { l.attributes[name] = loc }
func (l *Locations) AddUniform(name string, loc int32)    { l.uniforms[name] = loc }

func (l *Locations) Attribute(name string) (uint32, bool) {
	loc, ok := l.attributes[name]
	return loc, ok
}

func (l *Locations) Uniform(name string) (int32, bool) {
	loc, ok := l.uniforms[name]
	return loc, ok
}

// RequireUniform is Uniform for callers that cannot continue without it.
func (l *Locations) RequireUniform(name string) (int32, error) {
	loc, ok := l.uniforms[name]
	if !ok {
		return -1, fmt.Errorf("shader: uniform %q: %w", name, ErrAttributeNotFound)
	}
	return loc, nil
}

// Attributes lists the attribute names in sorted order.
func (l *Locations) Attributes() []string { return sortedKeys(l.attributes) }

// Uniforms lists the uniform names in sorted order.
func (l *Locations) Uniforms() []string { return sortedKeys(l.uniforms) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
