// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package shaderlang implements a typed shader expression graph and
// compiles it to GLSL (and, via coral.SPIRVCompiler, SPIR-V).
package shaderlang

// ValueType is the type of the value an Expression evaluates to.
type ValueType int

const (
	Bool ValueType = iota
	Int
	Int2
	Int3
	Int4
	Float
	Float2
	Float3
	Float4
	Float3x3
	Float4x4
	Sampler2D
)

// Operator is a binary arithmetic/comparison operator.
type Operator int

const (
	Multiply Operator = iota
	Divide
	Add
	Subtract
	Greater
	Less
	Equal
	GreaterOrEqual
	LessOrEqual
	NotEqual
)

// Swizzle selects a subset of a vector's components.
type Swizzle int

const (
	SwizzleX Swizzle = iota
	SwizzleY
	SwizzleZ
	SwizzleW
	SwizzleXY
	SwizzleXYZ
)

// DefaultAttribute is one of the GLSL built-in output attributes every
// vertex/fragment shader may write to.
type DefaultAttribute int

const (
	// Position is the vertex shader's homogeneous clip-space output.
	// Every vertex ShaderModule must write exactly one OutputAttribute
	// with this attribute.
	Position DefaultAttribute = iota
	// Depth overrides the fragment shader's depth-buffer value.
	Depth
)

// Attribute identifies an OutputAttribute's binding: either one of
// the built-in DefaultAttributes, or a named output.
type Attribute struct {
	isDefault bool
	def       DefaultAttribute
	name      string
}

// DefaultAttr wraps a DefaultAttribute as an Attribute.
func DefaultAttr(a DefaultAttribute) Attribute { return Attribute{isDefault: true, def: a} }

// NamedAttr wraps a name as an Attribute.
func NamedAttr(name string) Attribute { return Attribute{name: name} }

func (a Attribute) IsDefault() bool          { return a.isDefault }
func (a Attribute) Default() DefaultAttribute { return a.def }
func (a Attribute) Name() string             { return a.name }

// Expression is one node of the shader expression DAG. Concrete
// variants are Constant{Float,Int,Bool}, InputAttribute,
// OutputAttribute, Parameter, OperatorExpr, NativeFunction,
// Constructor, Cast, SwizzleExpr and Conditional. The set is closed:
// callers type-switch on the concrete type rather than extending the
// interface.
type Expression interface {
	OutputValueType() ValueType
	Inputs() []Expression
	sealed()
}

type base struct {
	outputValueType ValueType
	inputs          []Expression
}

func (b base) OutputValueType() ValueType { return b.outputValueType }
func (b base) Inputs() []Expression       { return b.inputs }
func (base) sealed()                      {}

// ConstantFloat is a literal float32 value.
type ConstantFloat struct {
	base
	Value float32
}

// NewConstantFloat creates a float constant expression.
func NewConstantFloat(v float32) *ConstantFloat {
	return &ConstantFloat{base: base{outputValueType: Float}, Value: v}
}

// ConstantInt is a literal int32 value.
type ConstantInt struct {
	base
	Value int32
}

// NewConstantInt creates an int constant expression.
func NewConstantInt(v int32) *ConstantInt {
	return &ConstantInt{base: base{outputValueType: Int}, Value: v}
}

// ConstantBool is a literal bool value.
type ConstantBool struct {
	base
	Value bool
}

// NewConstantBool creates a bool constant expression.
func NewConstantBool(v bool) *ConstantBool {
	return &ConstantBool{base: base{outputValueType: Bool}, Value: v}
}

// InputAttribute reads a named vertex/fragment input attribute.
type InputAttribute struct {
	base
	AttributeName string
}

// NewInputAttribute creates an input attribute read of the given type and name.
func NewInputAttribute(t ValueType, name string) *InputAttribute {
	return &InputAttribute{base: base{outputValueType: t}, AttributeName: name}
}

// OutputAttribute writes an expression's value to a built-in or named
// output attribute. Every ShaderModule is rooted at a list of these.
type OutputAttribute struct {
	base
	Attribute Attribute
}

// NewOutputAttribute creates an output write of input to attribute.
func NewOutputAttribute(attribute Attribute, input Expression) *OutputAttribute {
	return &OutputAttribute{base: base{outputValueType: input.OutputValueType(), inputs: []Expression{input}}, Attribute: attribute}
}

// Parameter is a named uniform value supplied from outside the graph
// (a scalar/vector/matrix uniform, or a sampler2D).
type Parameter struct {
	base
	Name string
}

// NewParameter creates a named uniform parameter read.
func NewParameter(t ValueType, name string) *Parameter {
	return &Parameter{base: base{outputValueType: t}, Name: name}
}

// OperatorExpr applies a binary Operator to two same-shaped inputs.
type OperatorExpr struct {
	base
	Op Operator
}

// NewOperator creates a binary operator expression.
func NewOperator(outputType ValueType, lhs Expression, op Operator, rhs Expression) *OperatorExpr {
	return &OperatorExpr{base: base{outputValueType: outputType, inputs: []Expression{lhs, rhs}}, Op: op}
}

// NativeFunction calls a built-in GLSL function (e.g. "dot", "normalize", "texture").
type NativeFunction struct {
	base
	FunctionName string
}

// NewNativeFunction creates a native function call expression.
func NewNativeFunction(outputType ValueType, name string, inputs ...Expression) *NativeFunction {
	return &NativeFunction{base: base{outputValueType: outputType, inputs: inputs}, FunctionName: name}
}

// Constructor builds a value of outputType from its inputs (e.g. vec3(x, y, z)).
type Constructor struct{ base }

// NewConstructor creates a constructor expression.
func NewConstructor(outputType ValueType, inputs ...Expression) *Constructor {
	return &Constructor{base: base{outputValueType: outputType, inputs: inputs}}
}

// Cast reinterprets/converts input to outputType.
type Cast struct{ base }

// NewCast creates a cast expression.
func NewCast(outputType ValueType, input Expression) *Cast {
	return &Cast{base: base{outputValueType: outputType, inputs: []Expression{input}}}
}

// SwizzleExpr selects components from a vector input.
type SwizzleExpr struct {
	base
	Swizzle Swizzle
}

// NewSwizzle creates a swizzle expression.
func NewSwizzle(outputType ValueType, swizzle Swizzle, input Expression) *SwizzleExpr {
	return &SwizzleExpr{base: base{outputValueType: outputType, inputs: []Expression{input}}, Swizzle: swizzle}
}

// Conditional selects between thenExpr/elseExpr based on cond.
type Conditional struct{ base }

// NewConditional creates a ternary conditional expression.
func NewConditional(cond, thenExpr, elseExpr Expression) *Conditional {
	return &Conditional{base: base{outputValueType: thenExpr.OutputValueType(), inputs: []Expression{cond, thenExpr, elseExpr}}}
}
