// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"fmt"

	shaderc "github.com/NOT-REAL-GAMES/vulkango/shaderc"

	"github.com/kestrelgpu/coral/shaderlang"
)

// SPIRVCompilerConfig configures SPIRVCompiler.
type SPIRVCompilerConfig struct {
	// Disassemble, when set, additionally populates CompileResult's
	// Assembly fields with the textual SPIR-V disassembly of each stage.
	Disassemble bool
}

// CompileResult is the SPIR-V byte code produced for each stage,
// alongside the GLSL source it was assembled from and (optionally)
// its textual disassembly.
type CompileResult struct {
	VertexGLSL   string
	FragmentGLSL string

	VertexSPIRV   []byte
	FragmentSPIRV []byte

	VertexAssembly   string
	FragmentAssembly string
}

// SPIRVCompiler wraps a GLSLCompiler and assembles its output to
// SPIR-V for Vulkan 1.3 / SPIR-V 1.3 with warnings treated as errors.
type SPIRVCompiler struct {
	glsl *shaderlang.GLSLCompiler
	cfg  SPIRVCompilerConfig
}

// NewSPIRVCompiler wraps glsl, an already-configured GLSL compiler.
func NewSPIRVCompiler(glsl *shaderlang.GLSLCompiler, cfg SPIRVCompilerConfig) *SPIRVCompiler {
	return &SPIRVCompiler{glsl: glsl, cfg: cfg}
}

// Compile runs the GLSL compiler, then assembles both stages to
// SPIR-V. It surfaces the assembler's diagnostic string on failure.
func (c *SPIRVCompiler) Compile() (CompileResult, error) {
	glslResult, err := c.glsl.Compile()
	if err != nil {
		return CompileResult{}, err
	}

	compiler := shaderc.NewCompiler()
	defer compiler.Release()

	options := shaderc.NewCompileOptions()
	defer options.Release()
	options.SetTargetEnv(shaderc.TargetEnvVulkan, shaderc.EnvVersionVulkan_1_3)
	options.SetWarningsAsErrors()

	result := CompileResult{VertexGLSL: glslResult.VertexShader, FragmentGLSL: glslResult.FragmentShader}

	vertResult, err := compiler.CompileIntoSPV(glslResult.VertexShader, "shader.vert", shaderc.VertexShader, options)
	if err != nil {
		return CompileResult{}, fmt.Errorf("coral: compiling vertex stage: %w", err)
	}
	defer vertResult.Release()
	result.VertexSPIRV = vertResult.GetBytes()

	fragResult, err := compiler.CompileIntoSPV(glslResult.FragmentShader, "shader.frag", shaderc.FragmentShader, options)
	if err != nil {
		return CompileResult{}, fmt.Errorf("coral: compiling fragment stage: %w", err)
	}
	defer fragResult.Release()
	result.FragmentSPIRV = fragResult.GetBytes()

	if c.cfg.Disassemble {
		vertAsm, err := compiler.CompileIntoSPVAssembly(glslResult.VertexShader, "shader.vert", shaderc.VertexShader, options)
		if err == nil {
			defer vertAsm.Release()
			result.VertexAssembly = vertAsm.GetString()
		}
		fragAsm, err := compiler.CompileIntoSPVAssembly(glslResult.FragmentShader, "shader.frag", shaderc.FragmentShader, options)
		if err == nil {
			defer fragAsm.Release()
			result.FragmentAssembly = fragAsm.GetString()
		}
	}

	return result, nil
}
