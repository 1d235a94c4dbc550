package evaluator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"whiskey/gc"
	"whiskey/object"
	"whiskey/token"
)

func TestIntegerOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"-5", -5},
		{"+5", 5},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"-50 + 100 + -50", 0},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"50 / 2 * 2 + 10", 60},
		{"2 * (5 + 10)", 30},
		{"3 * 3 * 3 + 10", 37},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
		{"7 / 2", 3},
		{"-7 / 2", -3},
		{"7 % 3", 1},
	}

	for _, tt := range tests {
		requireValue(t, tt.input, object.IntValue(tt.expected))
	}
}

func TestFloatOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1.5 + 1.5", 3},
		{"1 + 2.5", 3.5},
		{"2.5 + 1", 3.5},
		{"10 / 4.0", 2.5},
		{"-2.5", -2.5},
		{"+2.5", 2.5},
		{"5.5 % 2", 1.5},
		{"0.5 * 4", 2},
	}

	for _, tt := range tests {
		requireValue(t, tt.input, object.FloatValue(tt.expected))
	}

	requireInspect(t, "1.0 / 0", "+Inf")
	requireInspect(t, "2.0 * 3", "6.0")
}

func TestComparisonOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 <= 1", true},
		{"2 >= 3", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"1 == 1.0", true},
		{"1.5 > 1", true},
		{"true == true", true},
		{"true != false", true},
		{"true and false", false},
		{"true or false", true},
		{"not true", false},
		{"not (1 < 2)", false},
		{"(1 < 2) == true", true},
		{"1 == true", false},
		{"1 != true", true},
		{"1 == null", false},
		{"null == null", true},
		{"null != null", false},
		{`"a" == "a"`, true},
		{`"a" == "b"`, false},
		{`"a" != "b"`, true},
		{`"a" == 1`, false},
		{`1 == "a"`, false},
		{`1 != "a"`, true},
	}

	for _, tt := range tests {
		requireValue(t, tt.input, object.BoolValue(tt.expected))
	}
}

func TestObjectIdentityEquality(t *testing.T) {
	requireValue(t, "var f = fn() {}; f == f", object.BoolValue(true))
	requireValue(t, "fn() {} == fn() {}", object.BoolValue(false))
	requireValue(t, "var f = fn() {}; f != null", object.BoolValue(true))
}

func TestStringOperators(t *testing.T) {
	requireInspect(t, `"Hello" + " " + "World!"`, "Hello World!")
	requireInspect(t, `"ab" * 3`, "ababab")
	requireInspect(t, `3 * "ab"`, "ababab")
	requireInspect(t, `"ab" * 0`, "")
	requireException(t, `"ab" * -1`, object.ExceptionClass, "Negative repeat count")
	requireInspect(t, `"" * 4611686018427387904`, "")
}

func TestStringRepeatTooLarge(t *testing.T) {
	for _, input := range []string{
		`"ab" * 4611686018427387904`,
		`4611686018427387904 * "ab"`,
		`"a" * 100000000000`,
		`"ab" * 9223372036854775807`,
	} {
		require.NotPanics(t, func() {
			requireException(t, input, object.ExceptionClass, "Repeat count too large")
		}, input)
	}

	limit := object.MaxRepeatLength
	result := testEval(t, fmt.Sprintf(`("a" * %d).length`, limit))
	require.False(t, result.Failed(), result.Inspect())
	require.Equal(t, object.IntValue(int64(limit)), result.Value)
	requireException(t, fmt.Sprintf(`"a" * %d`, limit+1), object.ExceptionClass, "Repeat count too large")
}

func TestDivisionByZero(t *testing.T) {
	requireException(t, "1 / 0", object.ExceptionClass, "Division by zero")
	requireException(t, "1 % 0", object.ExceptionClass, "Division by zero")
}

func TestUnsupportedBinaryOperator(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{`1 + "a"`, "Unsupported classes for +: Integer and String"},
		{`"a" + 1`, "Unsupported classes for +: String and Integer"},
		{`"a" - "b"`, "Unsupported classes for -: String and String"},
		{"true + 1", "Unsupported classes for +: Boolean and Integer"},
		{"true + false", "Unsupported classes for +: Boolean and Boolean"},
		{"1 and 2", "Unsupported classes for and: Integer and Integer"},
		{"null + 1", "Unsupported classes for +: Null and Integer"},
		{"1 < null", "Unsupported classes for <: Integer and Null"},
		{"fn() {} + fn() {}", "Unsupported classes for +: Function and Function"},
	}

	for _, tt := range tests {
		requireException(t, tt.input, object.TypeErrorClass, tt.message)
	}
}

func TestUnsupportedUnaryOperator(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{`-"a"`, "Unsupported class for unary -: String"},
		{"-true", "Unsupported class for unary -: Boolean"},
		{"not 1", "Unsupported class for unary not: Integer"},
		{"-null", "Unsupported class for unary -: Null"},
		{"not null", "Unsupported class for unary not: Null"},
	}

	for _, tt := range tests {
		requireException(t, tt.input, object.TypeErrorClass, tt.message)
	}
}

func TestOperandEvaluationOrder(t *testing.T) {
	// 左辺が失敗したら右辺は評価しない
	requireValue(t, "var n = 0; nope + (n = 1); n", object.IntValue(0))
	requireException(t, "first + second", object.ExceptionClass, "Use of undeclared identifier")
	requireValue(t, "var n = 0; (n = 1) + nope; n", object.IntValue(1))
}

// probe は演算子メソッドの解決順を確かめるためのテスト用オブジェクト。
type probe struct {
	class *object.Class
}

func (p *probe) Class() *object.Class     { return p.class }
func (p *probe) Inspect() string          { return p.class.Name }
func (p *probe) Trace(func(gc.Traceable)) {}

// describeCall は "receiver op argument" を文字列で返す演算子メソッドを作る。
func describeCall(label string) object.NativeFunction {
	return func(self object.Value, args []object.Value) object.Outcome {
		return object.ReturnStr(label + ":" + self.Inspect() + "," + args[0].Inspect())
	}
}

func operatorScope(t *testing.T) *object.Scope {
	t.Helper()

	plain := object.NewClass("Plain", object.ObjectClass)

	reflectedOnly := object.NewClass("ReflectedOnly", object.ObjectClass)
	reflectedOnly.AddOperator(token.OpPlus, true, describeCall("reflected"))

	forwardOnly := object.NewClass("ForwardOnly", object.ObjectClass)
	forwardOnly.AddOperator(token.OpPlus, false, describeCall("forward"))

	both := object.NewClass("Both", object.ObjectClass)
	both.AddOperator(token.OpPlus, false, describeCall("forward"))
	both.AddOperator(token.OpPlus, true, describeCall("reflected"))

	declining := object.NewClass("Declining", object.ObjectClass)
	declining.AddOperator(token.OpPlus, false, func(object.Value, []object.Value) object.Outcome {
		return object.Raise(object.NewNotImplementedError())
	})

	failing := object.NewClass("Failing", object.ObjectClass)
	failing.AddOperator(token.OpPlus, false, func(object.Value, []object.Value) object.Outcome {
		return object.Raise(object.NewTypeError("custom failure"))
	})

	inherited := object.NewClass("Inherited", forwardOnly)

	scope := object.NewScope()
	for name, class := range map[string]*object.Class{
		"plain":     plain,
		"refl":      reflectedOnly,
		"fwd":       forwardOnly,
		"both":      both,
		"declining": declining,
		"failing":   failing,
		"inherited": inherited,
	} {
		require.NoError(t, scope.DeclareLocal(name, object.ObjectValue(&probe{class: class})))
	}
	return scope
}

func TestOperatorFallback(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 1. 左辺の順方向メソッド
		{"fwd + plain", "forward:ForwardOnly,Plain"},
		{"both + refl", "forward:Both,ReflectedOnly"},
		{"inherited + plain", "forward:Inherited,Plain"},
		// 2. 右辺の反射メソッド
		{"plain + refl", "reflected:ReflectedOnly,Plain"},
		{"plain + both", "reflected:Both,Plain"},
		{"1 + refl", "reflected:ReflectedOnly,1"},
		{"null + refl", "reflected:ReflectedOnly,null"},
		// 3. 右辺の順方向メソッド
		{"plain + fwd", "forward:ForwardOnly,Plain"},
		{"1 + fwd", "forward:ForwardOnly,1"},
		{"declining + fwd", "forward:ForwardOnly,Declining"},
	}

	for _, tt := range tests {
		scope := operatorScope(t)
		result := testEvalIn(t, tt.input, scope)
		require.False(t, result.Failed(), "input %q raised %s", tt.input, result.Inspect())
		require.Equal(t, tt.expected, result.Value.Inspect(), "input: %s", tt.input)
	}
}

func TestOperatorFallbackExhausted(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"plain + plain", "Unsupported classes for +: Plain and Plain"},
		{"declining + plain", "Unsupported classes for +: Declining and Plain"},
		{"plain - fwd", "Unsupported classes for -: Plain and ForwardOnly"},
		{"refl + 1", "Unsupported classes for +: ReflectedOnly and Integer"},
	}

	for _, tt := range tests {
		result := testEvalIn(t, tt.input, operatorScope(t))
		require.True(t, result.Failed(), "input: %s", tt.input)
		require.False(t, object.IsNotImplemented(result.Exception), "sentinel escaped for %q", tt.input)
		require.Same(t, object.TypeErrorClass, result.Exception.Class())
		require.Equal(t, tt.message, result.Exception.Message)
	}
}

func TestOperatorMethodFailureIsReturnedAsIs(t *testing.T) {
	result := testEvalIn(t, "failing + refl", operatorScope(t))
	require.True(t, result.Failed())
	require.Equal(t, "TypeError: custom failure", result.Exception.Inspect())
}

func TestUnaryNeverDispatchesToObjects(t *testing.T) {
	scope := operatorScope(t)
	class := object.NewClass("Negatable", object.ObjectClass)
	class.AddOperator(token.OpMinus, false, describeCall("minus"))
	require.NoError(t, scope.DeclareLocal("neg", object.ObjectValue(&probe{class: class})))

	result := testEvalIn(t, "-neg", scope)
	require.True(t, result.Failed())
	require.Equal(t, "Unsupported class for unary -: Negatable", result.Exception.Message)
}
