package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/scrawl/engine/core"
	"github.com/hubastard/scrawl/engine/mat"
	"github.com/hubastard/scrawl/engine/shader"
	"github.com/hubastard/scrawl/engine/vertex"
)

// Program is a linked GL program with its locations read once after link.
type Program struct {
	id uint32
	*shader.Locations
}

func (p *Program) ID() uint32 { return p.id }
func (p *Program) Use()       { gl.UseProgram(p.id) }

func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) SetMat4(name string, m mat.Mat4) error {
	loc, err := p.RequireUniform(name)
	if err != nil {
		return err
	}
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
	return nil
}

func (p *Program) SetInt(name string, v int32) error {
	loc, err := p.RequireUniform(name)
	if err != nil {
		return err
	}
	gl.Uniform1i(loc, v)
	return nil
}

func (p *Program) SetVec4(name string, v [4]float32) error {
	loc, err := p.RequireUniform(name)
	if err != nil {
		return err
	}
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	return nil
}

// CompileProgram compiles and links a vertex/fragment pair. The device
// deletes the program on Shutdown.
func (d *Device) CompileProgram(vsSrc, fsSrc string) (*Program, error) {
	id, err := makeProgram(vsSrc, fsSrc)
	if err != nil {
		return nil, err
	}
	p := &Program{id: id, Locations: readLocations(id)}
	d.programs = append(d.programs, p)
	core.Logger().Debug("glbackend: linked program", "program", id,
		"attributes", p.Attributes(), "uniforms", p.Uniforms())
	return p, nil
}

// CompileVariant builds the generated program for flags. It satisfies
// shader.CompileFunc.
func (d *Device) CompileVariant(flags vertex.Flag) (core.Shader, error) {
	vs, fs := shader.Source(flags)
	return d.CompileProgram(vs, fs)
}

func readLocations(prog uint32) *shader.Locations {
	locs := shader.NewLocations()
	var maxLen int32

	var n int32
	gl.GetProgramiv(prog, gl.ACTIVE_ATTRIBUTES, &n)
	gl.GetProgramiv(prog, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLen)
	for i := int32(0); i < n; i++ {
		name := activeName(maxLen, func(buf *uint8, length *int32, size *int32, kind *uint32) {
			gl.GetActiveAttrib(prog, uint32(i), maxLen, length, size, kind, buf)
		})
		if loc := gl.GetAttribLocation(prog, gl.Str(name+"\x00")); loc >= 0 {
			locs.AddAttribute(name, uint32(loc))
		}
	}

	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORMS, &n)
	gl.GetProgramiv(prog, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	for i := int32(0); i < n; i++ {
		name := activeName(maxLen, func(buf *uint8, length *int32, size *int32, kind *uint32) {
			gl.GetActiveUniform(prog, uint32(i), maxLen, length, size, kind, buf)
		})
		// arrays report their first element
		name = strings.TrimSuffix(name, "[0]")
		if loc := gl.GetUniformLocation(prog, gl.Str(name+"\x00")); loc >= 0 {
			locs.AddUniform(name, loc)
		}
	}
	return locs
}

func activeName(maxLen int32, query func(buf *uint8, length *int32, size *int32, kind *uint32)) string {
	if maxLen < 1 {
		maxLen = 1
	}
	buf := make([]uint8, maxLen)
	var length, size int32
	var kind uint32
	query(&buf[0], &length, &size, &kind)
	return string(buf[:length])
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("glbackend: shader compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DetachShader(prog, vs)
	gl.DetachShader(prog, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("glbackend: program link error: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}
