// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shaderlang

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// UniformFormat mirrors coral.UniformFormat without importing the
// coral package (shaderlang has no dependency on the resource layer).
type UniformFormat int

const (
	UniformBool UniformFormat = iota
	UniformInt32
	UniformFloat
	UniformVec2I
	UniformVec3I
	UniformVec4I
	UniformVec2F
	UniformVec3F
	UniformVec4F
	UniformMat33F
	UniformMat44F
)

// MemberDefinition is a single uniform block member.
type MemberDefinition struct {
	Type  UniformFormat
	Name  string
	Count int
}

// UniformBlockDefinition is the member layout of a uniform block,
// either synthesized by the compiler (the default block) or supplied
// via AddUniformBlockOverride.
type UniformBlockDefinition struct {
	Members []MemberDefinition
}

// descriptorKind distinguishes the compiler's internal descriptor
// definition variants. Unlike coral.DescriptorDefinition this never
// needs a Sampler/Texture-only variant: the shader graph only ever
// synthesizes uniform blocks and combined texture samplers.
type descriptorKind int

const (
	descriptorUniformBlock descriptorKind = iota
	descriptorCombinedTextureSampler
)

type descriptorBinding struct {
	binding    uint32
	name       string
	kind       descriptorKind
	uniformDef UniformBlockDefinition
}

type attributeBindings struct {
	input  map[string]uint32
	output map[string]uint32
}

// GLSLCompiler compiles one or more shader stage Modules into GLSL
// source, synthesizing a default uniform block and assigning
// attribute locations the way the reference GLSL emitter does.
type GLSLCompiler struct {
	vertexShader   *Module
	fragmentShader *Module

	descriptorBindings map[uint32]descriptorBinding

	inputOverrides  map[string]uint32
	outputOverrides map[string]uint32

	defaultUniformBlockName string

	stageBindings map[*Module]*attributeBindings
	nameLookup    map[Expression]string
}

// NewGLSLCompiler creates an empty compiler.
func NewGLSLCompiler() *GLSLCompiler {
	return &GLSLCompiler{
		descriptorBindings:      make(map[uint32]descriptorBinding),
		inputOverrides:          make(map[string]uint32),
		outputOverrides:         make(map[string]uint32),
		defaultUniformBlockName: "Uniforms",
		stageBindings:           make(map[*Module]*attributeBindings),
		nameLookup:              make(map[Expression]string),
	}
}

// AddShaderModule registers stage's graph for compilation.
func (c *GLSLCompiler) AddShaderModule(stage ShaderStage, module *Module) *GLSLCompiler {
	switch stage {
	case StageVertex:
		c.vertexShader = module
	case StageFragment:
		c.fragmentShader = module
	}
	return c
}

// ShaderStage identifies which pipeline stage a Module belongs to.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// AddUniformBlockOverride pins a uniform block to an explicit binding
// and member layout instead of letting the compiler synthesize one.
func (c *GLSLCompiler) AddUniformBlockOverride(binding uint32, name string, block UniformBlockDefinition) *GLSLCompiler {
	c.descriptorBindings[binding] = descriptorBinding{binding: binding, name: name, kind: descriptorUniformBlock, uniformDef: block}
	return c
}

// AddInputAttributeBindingLocation pins a named input attribute to an
// explicit location for the first shader stage.
func (c *GLSLCompiler) AddInputAttributeBindingLocation(location uint32, name string) *GLSLCompiler {
	c.inputOverrides[name] = location
	return c
}

// AddOutputAttributeBindingLocation pins a named output attribute to
// an explicit location for the last shader stage.
func (c *GLSLCompiler) AddOutputAttributeBindingLocation(location uint32, name string) *GLSLCompiler {
	c.outputOverrides[name] = location
	return c
}

// SetDefaultUniformBlockName overrides the name given to the
// synthesized default uniform block (default "Uniforms").
func (c *GLSLCompiler) SetDefaultUniformBlockName(name string) *GLSLCompiler {
	c.defaultUniformBlockName = name
	return c
}

// GLSLResult is the pair of shader sources produced by Compile.
type GLSLResult struct {
	VertexShader   string
	FragmentShader string
}

// Compile builds GLSL source for the registered vertex and fragment
// stages. It fails if either stage is missing, or if the fragment
// stage's input attributes cannot be matched by name to the vertex
// stage's outputs.
func (c *GLSLCompiler) Compile() (GLSLResult, error) {
	if c.vertexShader == nil || c.fragmentShader == nil {
		return GLSLResult{}, fmt.Errorf("shaderlang: missing shader definition")
	}

	c.createUniformBlockDefinitions()

	if !c.createAttributeBindings() {
		return GLSLResult{}, fmt.Errorf("shaderlang: shader attribute mismatch")
	}

	var result GLSLResult
	for _, stage := range []struct {
		module *Module
		out    *string
	}{
		{c.vertexShader, &result.VertexShader},
		{c.fragmentShader, &result.FragmentShader},
	} {
		c.buildVariableNames(stage.module)

		var src strings.Builder
		src.WriteString("#version 420\n")
		src.WriteString(c.buildInputAttributeDefinitionsString(stage.module))
		src.WriteString("\n")
		src.WriteString(c.buildOutputAttributeDefinitionsString(stage.module))
		src.WriteString("\n")
		src.WriteString(c.buildUniformBlocksString(stage.module))
		src.WriteString("\n")
		src.WriteString(c.buildMainFunctionString(stage.module))
		src.WriteString("\n")

		*stage.out = src.String()
	}

	return result, nil
}

func (c *GLSLCompiler) findUniformBinding(parameterName string) (uint32, bool) {
	for binding, descriptor := range c.descriptorBindings {
		switch descriptor.kind {
		case descriptorCombinedTextureSampler:
			if descriptor.name == parameterName {
				return binding, true
			}
		case descriptorUniformBlock:
			for _, m := range descriptor.uniformDef.Members {
				if m.Name == parameterName {
					return binding, true
				}
			}
		}
	}
	return 0, false
}

func (c *GLSLCompiler) createUniformBlockDefinitions() {
	var parameters []*Parameter
	inserted := make(map[*Parameter]bool)
	for _, module := range []*Module{c.vertexShader, c.fragmentShader} {
		if module == nil {
			continue
		}
		for _, p := range module.Parameters() {
			if !inserted[p] {
				inserted[p] = true
				parameters = append(parameters, p)
			}
		}
	}

	var defaultBlock UniformBlockDefinition
	var samplers []*Parameter
	for _, p := range parameters {
		if p.OutputValueType() == Sampler2D {
			samplers = append(samplers, p)
		} else if _, ok := c.findUniformBinding(p.Name); !ok {
			defaultBlock.Members = append(defaultBlock.Members, MemberDefinition{
				Type:  toUniformFormat(p.OutputValueType()),
				Name:  p.Name,
				Count: 1,
			})
		}
	}

	if len(defaultBlock.Members) > 0 {
		binding := firstUnusedBinding(c.descriptorBindings)
		c.descriptorBindings[binding] = descriptorBinding{
			binding:    binding,
			name:       c.defaultUniformBlockName,
			kind:       descriptorUniformBlock,
			uniformDef: defaultBlock,
		}
	}

	for _, p := range samplers {
		binding := firstUnusedBinding(c.descriptorBindings)
		c.descriptorBindings[binding] = descriptorBinding{binding: binding, name: p.Name, kind: descriptorCombinedTextureSampler}
	}
}

func firstUnusedBinding(bindings map[uint32]descriptorBinding) uint32 {
	var b uint32
	for {
		if _, used := bindings[b]; !used {
			return b
		}
		b++
	}
}

func (c *GLSLCompiler) createAttributeBindings() bool {
	getAttributeLocation := func(name string, lookup map[string]uint32) uint32 {
		if loc, ok := lookup[name]; ok {
			return loc
		}
		used := make(map[uint32]bool, len(lookup))
		for _, loc := range lookup {
			used[loc] = true
		}
		var i uint32
		for used[i] {
			i++
		}
		return i
	}

	var stages []*Module
	for _, m := range []*Module{c.vertexShader, c.fragmentShader} {
		if m != nil {
			stages = append(stages, m)
		}
	}

	for i, module := range stages {
		bindings := &attributeBindings{input: make(map[string]uint32), output: make(map[string]uint32)}
		c.stageBindings[module] = bindings

		if i == 0 {
			for name, loc := range c.inputOverrides {
				bindings.input[name] = loc
			}
			for _, attr := range module.Inputs() {
				bindings.input[attr.AttributeName] = getAttributeLocation(attr.AttributeName, bindings.input)
			}
		} else {
			prevBindings := c.stageBindings[stages[i-1]]
			for _, attr := range module.Inputs() {
				loc, ok := prevBindings.output[attr.AttributeName]
				if !ok {
					return false
				}
				bindings.input[attr.AttributeName] = loc
			}
		}

		if i == len(stages)-1 {
			for name, loc := range c.outputOverrides {
				bindings.output[name] = loc
			}
		}
		for _, out := range module.Outputs() {
			if out.Attribute.IsDefault() {
				continue
			}
			name := out.Attribute.Name()
			bindings.output[name] = getAttributeLocation(name, bindings.output)
		}
	}

	return true
}

func (c *GLSLCompiler) shouldHaveVariableAssignment(expr Expression, counts map[Expression]int) bool {
	switch expr.(type) {
	case *InputAttribute, *Parameter:
		return false
	case *OutputAttribute, *NativeFunction:
		return true
	default:
		return counts[expr] > 1
	}
}

func (c *GLSLCompiler) buildVariableNames(module *Module) {
	list := module.BuildExpressionList()
	counts := useCounts(list)

	for _, expr := range list {
		if !c.shouldHaveVariableAssignment(expr, counts) {
			continue
		}
		switch e := expr.(type) {
		case *OutputAttribute:
			c.nameLookup[expr] = formatAttributeName(e.Attribute)
		case *InputAttribute:
			c.nameLookup[expr] = e.AttributeName
		default:
			c.nameLookup[expr] = fmt.Sprintf("%s_%d", typeShortName(expr.OutputValueType()), len(c.nameLookup))
		}
	}
}

func (c *GLSLCompiler) resolve(expr Expression) string {
	if name, ok := c.nameLookup[expr]; ok {
		return name
	}
	return c.format(expr)
}

func (c *GLSLCompiler) format(expr Expression) string {
	switch e := expr.(type) {
	case *ConstantFloat:
		if float64(e.Value) == math.Trunc(float64(e.Value)) {
			return fmt.Sprintf("%g.f", e.Value)
		}
		return fmt.Sprintf("%gf", e.Value)
	case *ConstantInt:
		return fmt.Sprintf("%d", e.Value)
	case *ConstantBool:
		if e.Value {
			return "true"
		}
		return "false"
	case *InputAttribute:
		return e.AttributeName
	case *OutputAttribute:
		return formatAttributeName(e.Attribute)
	case *Parameter:
		return e.Name
	case *OperatorExpr:
		return fmt.Sprintf("(%s %s %s)", c.resolve(e.Inputs()[0]), operatorString(e.Op), c.resolve(e.Inputs()[1]))
	case *NativeFunction:
		return fmt.Sprintf("%s(%s)", e.FunctionName, c.formatArgumentList(e.Inputs()))
	case *Constructor:
		return fmt.Sprintf("%s(%s)", typeName(e.OutputValueType()), c.formatArgumentList(e.Inputs()))
	case *Cast:
		return fmt.Sprintf("(%s)%s", typeName(e.OutputValueType()), c.resolve(e.Inputs()[0]))
	case *SwizzleExpr:
		return fmt.Sprintf("%s.%s", c.resolve(e.Inputs()[0]), swizzleString(e.Swizzle))
	case *Conditional:
		in := e.Inputs()
		return fmt.Sprintf("(%s ? %s : %s)", c.resolve(in[0]), c.resolve(in[1]), c.resolve(in[2]))
	}
	panic("shaderlang: unhandled expression type")
}

func (c *GLSLCompiler) formatArgumentList(args []Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = c.resolve(a)
	}
	return strings.Join(parts, ", ")
}

func (c *GLSLCompiler) buildVariableAssignment(expr Expression) string {
	if out, ok := expr.(*OutputAttribute); ok {
		return fmt.Sprintf("%s = %s;\n", c.nameLookup[expr], c.resolve(out.Inputs()[0]))
	}
	return fmt.Sprintf("%s %s = %s;\n", typeName(expr.OutputValueType()), c.nameLookup[expr], c.format(expr))
}

func (c *GLSLCompiler) buildMainFunctionString(module *Module) string {
	var sb strings.Builder
	sb.WriteString("void main()\n{\n")

	list := module.BuildExpressionList()
	counts := useCounts(list)
	visited := make(map[Expression]bool)
	for _, expr := range list {
		if visited[expr] || !c.shouldHaveVariableAssignment(expr, counts) {
			continue
		}
		sb.WriteString("    ")
		sb.WriteString(c.buildVariableAssignment(expr))
		visited[expr] = true
	}

	sb.WriteString("}")
	return sb.String()
}

func (c *GLSLCompiler) buildInputAttributeDefinitionsString(module *Module) string {
	type entry struct {
		location uint32
		text     string
	}
	var entries []entry
	bindings := c.stageBindings[module]
	for _, attr := range module.Inputs() {
		loc := bindings.input[attr.AttributeName]
		entries = append(entries, entry{loc, fmt.Sprintf("layout (location = %d) in %s %s;\n", loc, typeName(attr.OutputValueType()), attr.AttributeName)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].location < entries[j].location })

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.text)
	}
	return sb.String()
}

func (c *GLSLCompiler) buildOutputAttributeDefinitionsString(module *Module) string {
	type entry struct {
		location uint32
		text     string
	}
	var entries []entry
	bindings := c.stageBindings[module]
	for _, attr := range module.Outputs() {
		if attr.Attribute.IsDefault() {
			continue
		}
		name := attr.Attribute.Name()
		loc := bindings.output[name]
		entries = append(entries, entry{loc, fmt.Sprintf("layout (location = %d) out %s out_%s;\n", loc, typeName(attr.OutputValueType()), name)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].location < entries[j].location })

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.text)
	}
	return sb.String()
}

func (c *GLSLCompiler) buildUniformBlocksString(module *Module) string {
	var sb strings.Builder
	parameters := module.Parameters()

	bindingsSorted := make([]uint32, 0, len(c.descriptorBindings))
	for b := range c.descriptorBindings {
		bindingsSorted = append(bindingsSorted, b)
	}
	sort.Slice(bindingsSorted, func(i, j int) bool { return bindingsSorted[i] < bindingsSorted[j] })

	for _, binding := range bindingsSorted {
		descriptor := c.descriptorBindings[binding]

		useBlock := false
		for _, p := range parameters {
			if b, ok := c.findUniformBinding(p.Name); ok && b == binding {
				useBlock = true
				break
			}
		}
		if !useBlock {
			continue
		}

		switch descriptor.kind {
		case descriptorUniformBlock:
			sb.WriteString(buildUniformBlockString(0, descriptor.binding, descriptor.name, descriptor.uniformDef))
			sb.WriteString("\n")
		case descriptorCombinedTextureSampler:
			sb.WriteString(fmt.Sprintf("layout (set = 0, binding = %d) uniform sampler2D %s;\n", descriptor.binding, descriptor.name))
		}
	}

	return sb.String()
}

func buildUniformBlockString(set, binding uint32, name string, def UniformBlockDefinition) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("layout (std140, set = %d, binding = %d) uniform %s\n{\n", set, binding, name))
	for _, m := range def.Members {
		sb.WriteString(fmt.Sprintf("    %s %s;\n", uniformTypeName(m.Type), m.Name))
	}
	sb.WriteString("};\n")
	return sb.String()
}

func formatAttributeName(a Attribute) string {
	if a.IsDefault() {
		return defaultAttributeString(a.Default())
	}
	return "out_" + a.Name()
}

func defaultAttributeString(a DefaultAttribute) string {
	switch a {
	case Position:
		return "gl_Position"
	case Depth:
		return "gl_FragDepth"
	}
	panic("shaderlang: unknown DefaultAttribute")
}

func operatorString(op Operator) string {
	switch op {
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Greater:
		return ">"
	case Less:
		return "<"
	case Equal:
		return "=="
	case GreaterOrEqual:
		return ">="
	case LessOrEqual:
		return "<="
	case NotEqual:
		return "!="
	}
	panic("shaderlang: unknown Operator")
}

func swizzleString(s Swizzle) string {
	switch s {
	case SwizzleX:
		return "x"
	case SwizzleY:
		return "y"
	case SwizzleZ:
		return "z"
	case SwizzleW:
		return "w"
	case SwizzleXY:
		return "xy"
	case SwizzleXYZ:
		return "xyz"
	}
	panic("shaderlang: unknown Swizzle")
}

func typeShortName(t ValueType) string {
	switch t {
	case Bool:
		return "b"
	case Int:
		return "i"
	case Int2, Int3, Int4:
		return "iv"
	case Float:
		return "f"
	case Float2, Float3, Float4:
		return "v"
	case Float3x3, Float4x4:
		return "m"
	case Sampler2D:
		return "s"
	}
	panic("shaderlang: unknown ValueType")
}

func typeName(t ValueType) string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Int2:
		return "ivec2"
	case Int3:
		return "ivec3"
	case Int4:
		return "ivec4"
	case Float:
		return "float"
	case Float2:
		return "vec2"
	case Float3:
		return "vec3"
	case Float4:
		return "vec4"
	case Float3x3:
		return "mat3"
	case Float4x4:
		return "mat4"
	case Sampler2D:
		return "sampler2D"
	}
	panic("shaderlang: unknown ValueType")
}

func uniformTypeName(f UniformFormat) string {
	switch f {
	case UniformBool:
		return "bool"
	case UniformInt32:
		return "int"
	case UniformFloat:
		return "float"
	case UniformVec2F:
		return "vec2"
	case UniformVec3F:
		return "vec3"
	case UniformVec4F:
		return "vec4"
	case UniformVec2I:
		return "ivec2"
	case UniformVec3I:
		return "ivec3"
	case UniformVec4I:
		return "ivec4"
	case UniformMat33F:
		return "mat3"
	case UniformMat44F:
		return "mat4"
	}
	panic("shaderlang: unknown UniformFormat")
}

func toUniformFormat(t ValueType) UniformFormat {
	switch t {
	case Bool:
		return UniformBool
	case Int:
		return UniformInt32
	case Int2:
		return UniformVec2I
	case Int3:
		return UniformVec3I
	case Int4:
		return UniformVec4I
	case Float:
		return UniformFloat
	case Float2:
		return UniformVec2F
	case Float3:
		return UniformVec3F
	case Float4:
		return UniformVec4F
	case Float3x3:
		return UniformMat33F
	case Float4x4:
		return UniformMat44F
	}
	panic("shaderlang: parameter type has no uniform representation")
}
