// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shaderlang

import (
	"strings"
	"testing"
)

func TestGLSLCompilerDefaultUniformBlock(t *testing.T) {
	a := NewParameter(Float, "a")
	b := NewParameter(Float, "b")
	sum := NewOperator(Float, a, Add, b)

	tex := NewParameter(Sampler2D, "tex")
	uv := NewInputAttribute(Float2, "Texcoord0")
	sampled := NewNativeFunction(Float4, "texture", tex, uv)

	fs := NewModule()
	fs.RegisterOutput(NewOutputAttribute(DefaultAttr(Depth), sum))
	fs.RegisterOutput(NewOutputAttribute(NamedAttr("Color"), sampled))

	vs := NewModule()
	vs.RegisterOutput(NewOutputAttribute(DefaultAttr(Position), NewConstantFloat(0)))
	vs.RegisterOutput(NewOutputAttribute(NamedAttr("Texcoord0"), NewInputAttribute(Float2, "UV")))

	c := NewGLSLCompiler()
	c.AddShaderModule(StageVertex, vs)
	c.AddShaderModule(StageFragment, fs)

	result, err := c.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if strings.Count(result.FragmentShader, "uniform Uniforms") != 1 {
		t.Fatalf("expected exactly one default uniform block, got:\n%s", result.FragmentShader)
	}
	if !strings.Contains(result.FragmentShader, "layout (std140, set = 0, binding = 0) uniform Uniforms") {
		t.Errorf("default block not at binding 0:\n%s", result.FragmentShader)
	}
	if !strings.Contains(result.FragmentShader, "float a;") || !strings.Contains(result.FragmentShader, "float b;") {
		t.Errorf("missing scalar members:\n%s", result.FragmentShader)
	}
	if !strings.Contains(result.FragmentShader, "layout(set = 0, binding = 1) uniform sampler2D tex;") &&
		!strings.Contains(result.FragmentShader, "layout (set = 0, binding = 1) uniform sampler2D tex;") {
		t.Errorf("sampler not emitted at separate binding 1:\n%s", result.FragmentShader)
	}
}

// Stage linkage: fragment input locations must equal vertex output
// locations for identically-named attributes.
func TestGLSLCompilerStageLinkageLocations(t *testing.T) {
	vs := NewModule()
	vs.RegisterOutput(NewOutputAttribute(DefaultAttr(Position), NewConstantFloat(0)))
	vs.RegisterOutput(NewOutputAttribute(NamedAttr("WorldNormal"), NewInputAttribute(Float3, "Normal")))
	vs.RegisterOutput(NewOutputAttribute(NamedAttr("Texcoord0"), NewInputAttribute(Float2, "UV")))

	fs := NewModule()
	normalIn := NewInputAttribute(Float3, "WorldNormal")
	fs.RegisterOutput(NewOutputAttribute(NamedAttr("Color"), NewConstructor(Float4, normalIn, NewConstantFloat(1))))

	c := NewGLSLCompiler()
	c.AddShaderModule(StageVertex, vs)
	c.AddShaderModule(StageFragment, fs)

	result, err := c.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	vsLoc := attributeLocation(t, result.VertexShader, "out", "out_WorldNormal")
	fsLoc := attributeLocation(t, result.FragmentShader, "in", "WorldNormal")
	if vsLoc != fsLoc {
		t.Errorf("vertex out_WorldNormal location %d != fragment in WorldNormal location %d", vsLoc, fsLoc)
	}

	// Texcoord0 is unused by the fragment stage and must not appear as an input.
	if strings.Contains(result.FragmentShader, "in vec2 Texcoord0") {
		t.Errorf("fragment stage should not declare an input it never reads:\n%s", result.FragmentShader)
	}

	// Renaming a fragment input to an unknown name fails compilation.
	fsBad := NewModule()
	fsBad.RegisterOutput(NewOutputAttribute(NamedAttr("Color"), NewInputAttribute(Float3, "NoSuchOutput")))
	cBad := NewGLSLCompiler()
	cBad.AddShaderModule(StageVertex, vs)
	cBad.AddShaderModule(StageFragment, fsBad)
	if _, err := cBad.Compile(); err == nil {
		t.Error("expected compilation failure for unmatched fragment input")
	}
}

func attributeLocation(t *testing.T, src, dir, name string) int {
	t.Helper()
	for _, line := range strings.Split(src, "\n") {
		if strings.Contains(line, " "+dir+" ") && strings.Contains(line, name+";") {
			var loc int
			if _, err := fmtSscan(line, &loc); err != nil {
				t.Fatalf("failed to parse location from %q: %v", line, err)
			}
			return loc
		}
	}
	t.Fatalf("attribute %s %s not found in:\n%s", dir, name, src)
	return -1
}

func fmtSscan(line string, loc *int) (int, error) {
	const marker = "location = "
	i := strings.Index(line, marker)
	if i < 0 {
		return 0, errNotFound
	}
	rest := line[i+len(marker):]
	j := strings.IndexByte(rest, ')')
	if j < 0 {
		return 0, errNotFound
	}
	n := 0
	for _, r := range rest[:j] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	*loc = n
	return 1, nil
}

var errNotFound = strError("location marker not found")

type strError string

func (e strError) Error() string { return string(e) }

func TestGLSLCompilerDeterministic(t *testing.T) {
	build := func() (*Module, *Module) {
		vs := NewModule()
		vs.RegisterOutput(NewOutputAttribute(DefaultAttr(Position), NewConstantFloat(0)))
		fs := NewModule()
		p := NewParameter(Float, "x")
		fs.RegisterOutput(NewOutputAttribute(NamedAttr("Color"), NewConstructor(Float4, p, p, p, NewConstantFloat(1))))
		return vs, fs
	}

	vs1, fs1 := build()
	c1 := NewGLSLCompiler()
	c1.AddShaderModule(StageVertex, vs1)
	c1.AddShaderModule(StageFragment, fs1)
	r1, err := c1.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	vs2, fs2 := build()
	c2 := NewGLSLCompiler()
	c2.AddShaderModule(StageVertex, vs2)
	c2.AddShaderModule(StageFragment, fs2)
	r2, err := c2.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if r1.VertexShader != r2.VertexShader || r1.FragmentShader != r2.FragmentShader {
		t.Error("compiling identical inputs twice produced different GLSL")
	}
}

// A node referenced by more than one consumer must be emitted as a
// temporary exactly once and reused at each use site.
func TestGLSLCompilerDAGSharing(t *testing.T) {
	shared := NewParameter(Float, "shared")
	doubled := NewOperator(Float, shared, Add, shared)

	fs := NewModule()
	fs.RegisterOutput(NewOutputAttribute(NamedAttr("A"), doubled))
	fs.RegisterOutput(NewOutputAttribute(NamedAttr("B"), doubled))

	vs := NewModule()
	vs.RegisterOutput(NewOutputAttribute(DefaultAttr(Position), NewConstantFloat(0)))

	c := NewGLSLCompiler()
	c.AddShaderModule(StageVertex, vs)
	c.AddShaderModule(StageFragment, fs)

	result, err := c.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	tempDecl := "float f_1 = (shared + shared);"
	count := strings.Count(result.FragmentShader, tempDecl)
	if count != 1 {
		t.Fatalf("expected shared node defined exactly once, found %d in:\n%s", count, result.FragmentShader)
	}
}

func TestGLSLCompilerMissingStageFails(t *testing.T) {
	c := NewGLSLCompiler()
	vs := NewModule()
	vs.RegisterOutput(NewOutputAttribute(DefaultAttr(Position), NewConstantFloat(0)))
	c.AddShaderModule(StageVertex, vs)
	if _, err := c.Compile(); err == nil {
		t.Error("expected error when fragment module is missing")
	}
}
