package shader

import (
	"errors"
	"fmt"

	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/vertex"
)

var ErrNoVariant = errors.New("shader: no variant for flags")

// CompileFunc builds the program for exactly flags.
type CompileFunc func(flags vertex.Flag) (core.Shader, error)

type variant struct {
	flags  vertex.Flag
	shader core.Shader
}

// Registry maps flag keys to programs. Lookup prefers an exact key, then
// compiles the exact variant when a CompileFunc is set, and only then falls
// back to the smallest registered superset.
type Registry struct {
	variants map[string]variant
	compile  CompileFunc
}

func NewRegistry(compile CompileFunc) *Registry {
	return &Registry{variants: map[string]variant{}, compile: compile}
}

func (r *Registry) Len() int { return len(r.variants) }

// Register stores sh under flags, replacing any previous variant.
func (r *Registry) Register(flags vertex.Flag, sh core.Shader) {
	r.variants[flags.Key()] = variant{flags: flags, shader: sh}
	core.Logger().Debug("shader: registered variant", "key", flags.Key(), "program", sh.ID())
}

func (r *Registry) Lookup(flags vertex.Flag) (core.Shader, error) {
	key := flags.Key()
	if v, ok := r.variants[key]; ok {
		return v.shader, nil
	}

	if r.compile != nil {
		sh, err := r.compile(flags)
		if err == nil {
			r.Register(flags, sh)
			return sh, nil
		}
		if best := r.superset(flags); best != nil {
			core.Logger().Warn("shader: compile failed, using superset variant",
				"key", key, "program", best.ID(), "err", err)
			return best, nil
		}
		return nil, fmt.Errorf("shader: compile variant %s: %w", key, err)
	}

	if best := r.superset(flags); best != nil {
		return best, nil
	}
	return nil, fmt.Errorf("%w %s", ErrNoVariant, key)
}

// superset returns the registered variant with the fewest flags that
// still covers flags. Ties go to the first key in sorted order.
func (r *Registry) superset(flags vertex.Flag) core.Shader {
	var best *variant
	for _, key := range sortedKeys(r.variants) {
		v := r.variants[key]
		if !v.flags.Has(flags) {
			continue
		}
		if best == nil || v.flags.Count() < best.flags.Count() {
			best = &v
		}
	}
	if best == nil {
		return nil
	}
	return best.shader
}

// Each calls fn for every registered variant in key order.
func (r *Registry) Each(fn func(flags vertex.Flag, sh core.Shader)) {
	for _, key := range sortedKeys(r.variants) {
		v := r.variants[key]
		fn(v.flags, v.shader)
	}
}
