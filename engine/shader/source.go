package shader

import (
	"fmt"
	"strings"

	"github.com/hubastard/scrawl/engine/vertex"
)

const (
	UniformViewProjection = "uViewProjection"
	glslVersion           = "#version 330 core\n"
)

// UniformTexture is the sampler uniform bound to UV channel i.
func UniformTexture(i int) string { return fmt.Sprintf("uTexture%d", i) }

// Source generates a vertex and fragment shader that declare exactly the
// attributes in flags. Positions arrive in world space; the model matrix is
// already baked in by the geometry builder. Color multiplies every texture
// sample, and normals drive one fixed directional light.
func Source(flags vertex.Flag) (vs, fs string) {
	var v, f strings.Builder
	v.WriteString(glslVersion)
	f.WriteString(glslVersion)

	fmt.Fprintf(&v, "uniform mat4 %s;\n", UniformViewProjection)
	fmt.Fprintf(&v, "in vec3 %s;\n", vertex.Position0.ShaderInput())

	var body strings.Builder
	body.WriteString("    gl_Position = " + UniformViewProjection + " * vec4(" + vertex.Position0.ShaderInput() + ", 1.0);\n")

	if flags.Has(vertex.Normal0) {
		fmt.Fprintf(&v, "in vec3 %s;\nout vec3 vNormal;\n", vertex.Normal0.ShaderInput())
		f.WriteString("in vec3 vNormal;\n")
		body.WriteString("    vNormal = " + vertex.Normal0.ShaderInput() + ";\n")
	}
	if flags.Has(vertex.Color0) {
		fmt.Fprintf(&v, "in vec4 %s;\nout vec4 vColor;\n", vertex.Color0.ShaderInput())
		f.WriteString("in vec4 vColor;\n")
		body.WriteString("    vColor = " + vertex.Color0.ShaderInput() + ";\n")
	}

	textured := false
	for i, uv := range vertex.UvChannels {
		if !flags.Has(uv) {
			continue
		}
		textured = true
		fmt.Fprintf(&v, "in vec2 %s;\nout vec2 vUv%d;\n", uv.ShaderInput(), i)
		fmt.Fprintf(&f, "in vec2 vUv%d;\nuniform sampler2D %s;\n", i, UniformTexture(i))
		fmt.Fprintf(&body, "    vUv%d = %s;\n", i, uv.ShaderInput())
	}

	v.WriteString("void main() {\n")
	v.WriteString(body.String())
	v.WriteString("}\n")

	f.WriteString("out vec4 FragColor;\n")
	f.WriteString("void main() {\n")
	switch {
	case flags.Has(vertex.Color0):
		f.WriteString("    vec4 color = vColor;\n")
	case textured:
		f.WriteString("    vec4 color = vec4(1.0);\n")
	default:
		f.WriteString("    vec4 color = vec4(0.0, 0.0, 0.0, 1.0);\n")
	}
	for i, uv := range vertex.UvChannels {
		if flags.Has(uv) {
			fmt.Fprintf(&f, "    color *= texture(%s, vUv%d);\n", UniformTexture(i), i)
		}
	}
	if flags.Has(vertex.Normal0) {
		f.WriteString("    float light = 0.25 + 0.75 * max(dot(normalize(vNormal), normalize(vec3(0.3, 0.5, 1.0))), 0.0);\n")
		f.WriteString("    color.rgb *= light;\n")
	}
	f.WriteString("    FragColor = color;\n")
	f.WriteString("}\n")

	return v.String(), f.String()
}
