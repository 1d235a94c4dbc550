package evaluator

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"whiskey/object"
	"whiskey/parser"
)

// testEval はソースをパースし、組み込みスコープの下の新しいスコープで評価する。
func testEval(t *testing.T, input string) object.Outcome {
	t.Helper()
	return testEvalIn(t, input, object.NewEnclosedScope(newBuiltinScope(io.Discard)))
}

func testEvalIn(t *testing.T, input string, scope *object.Scope) object.Outcome {
	t.Helper()
	root, err := parser.Parse(input)
	require.NoError(t, err, "input: %s", input)
	return Eval(root, scope)
}

func requireValue(t *testing.T, input string, expected object.Value) {
	t.Helper()
	result := testEval(t, input)
	require.False(t, result.Failed(), "input %q raised %s", input, result.Inspect())
	require.Equal(t, expected, result.Value, "input: %s", input)
}

func requireException(t *testing.T, input string, class *object.Class, message string) {
	t.Helper()
	result := testEval(t, input)
	require.True(t, result.Failed(), "input %q returned %s", input, result.Inspect())
	require.Same(t, class, result.Exception.Class(), "input %q raised %s", input, result.Inspect())
	require.Equal(t, message, result.Exception.Message)
}

func requireInspect(t *testing.T, input string, expected string) {
	t.Helper()
	result := testEval(t, input)
	require.False(t, result.Failed(), "input %q raised %s", input, result.Inspect())
	require.Equal(t, expected, result.Value.Inspect(), "input: %s", input)
}

func TestEvalLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Value
	}{
		{"null", object.NullValue},
		{"true", object.BoolValue(true)},
		{"false", object.BoolValue(false)},
		{"5", object.IntValue(5)},
		{"0x1f", object.IntValue(31)},
		{"2.5", object.FloatValue(2.5)},
	}

	for _, tt := range tests {
		scope := object.NewScope()
		result := testEvalIn(t, tt.input, scope)
		require.False(t, result.Failed())
		require.Equal(t, tt.expected, result.Value)
		require.Zero(t, scope.Len(), "literal %q must not bind anything", tt.input)
	}

	result := testEval(t, `"hello"`)
	str, ok := object.AsStr(result.Value)
	require.True(t, ok)
	require.Equal(t, "hello", str.Value)
}

func TestEmptyProgramIsNull(t *testing.T) {
	requireValue(t, "", object.NullValue)
	requireValue(t, "()", object.NullValue)
}

func TestEndToEndAssignment(t *testing.T) {
	requireValue(t, "var x = 1; x = x + 2; x", object.IntValue(3))
}

func TestUndeclaredIdentifier(t *testing.T) {
	result := testEval(t, "missing")
	require.True(t, result.Failed())
	require.Equal(t, "Use of undeclared identifier", result.Exception.Message)
	require.Same(t, object.ExceptionClass, result.Exception.Class())
	require.Equal(t, object.NullValue, result.Value)
}

func TestVarDeclaration(t *testing.T) {
	requireValue(t, "var a", object.NullValue)
	requireValue(t, "var a = 5", object.IntValue(5))
	requireValue(t, "var a = 5; var b = a; b", object.IntValue(5))
	requireException(t, "var a = 1; var a = 2", object.ExceptionClass, "Identifier already declared")
	requireException(t, "var a = nope", object.ExceptionClass, "Use of undeclared identifier")

	// 入れ子のスコープでは同名の宣言が外側を隠す
	requireValue(t, "var a = 1; (var a = 2; a)", object.IntValue(2))
	requireValue(t, "var a = 1; (var a = 2); a", object.IntValue(1))
}

func TestFailedInitializerDoesNotBind(t *testing.T) {
	root, err := parser.Parse("var a = nope")
	require.NoError(t, err)

	scope := object.NewScope()
	result := Eval(root.Children[0], scope)
	require.True(t, result.Failed())
	require.False(t, scope.IsDeclaredLocally("a"))
	require.Zero(t, scope.Len())

	result = Eval(root.Children[0], scope)
	require.Equal(t, "Use of undeclared identifier", result.Exception.Message, "a failed declaration must not block a retry")
}

func TestAssignment(t *testing.T) {
	requireValue(t, "var a = 1; a = 7", object.IntValue(7))
	requireValue(t, "var a; var b; a = b = 3; a + b", object.IntValue(6))
	requireException(t, "nope = 1", object.ExceptionClass, "Use of undeclared identifier")
	requireException(t, "1 = 2", object.ExceptionClass, "Not assignable expression")
	requireException(t, `"s".length = 2`, object.ExceptionClass, "Not assignable expression")

	// 代入は宣言している最も内側のスコープを書き換える
	requireValue(t, "var a = 1; (a = 5; var a = 10; a = 20); a", object.IntValue(5))
}

func TestAssignmentChecksDeclarationBeforeRight(t *testing.T) {
	requireException(t, "(var log = 0; nope = (log = 1))", object.ExceptionClass, "Use of undeclared identifier")
	requireValue(t, "var log = 0; nope = (log = 1); log", object.IntValue(0))
}

func TestSequenceDoesNotStopAtException(t *testing.T) {
	requireValue(t, "(1; nope; 3)", object.IntValue(3))
	requireException(t, "(1; 2; nope)", object.ExceptionClass, "Use of undeclared identifier")
	requireValue(t, "var x = 0; (x = 1; nope; x = x + 1); x", object.IntValue(2))
}

func TestFunctionBodyStopsAtException(t *testing.T) {
	input := `
var n = 0;
var f = fn() { n = 1; nope; n = 2 };
f();
n`
	requireValue(t, input, object.IntValue(1))
	requireException(t, "var f = fn() { nope; 1 }; f()", object.ExceptionClass, "Use of undeclared identifier")
}

func TestFunctionCall(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"var identity = fn(x) { x }; identity(5)", 5},
		{"var double = fn(x) { x * 2 }; double(5)", 10},
		{"var add = fn(x, y) { x + y }; add(5, 5)", 10},
		{"var add = fn(x, y) { x + y }; add(5 + 5, add(5, 5))", 20},
		{"fn(x) { x }(5)", 5},
		{"var f = fn() { 1; 2; 3 }; f()", 3},
	}

	for _, tt := range tests {
		requireValue(t, tt.input, object.IntValue(tt.expected))
	}
	requireValue(t, "var f = fn() {}; f()", object.NullValue)
}

func TestFunctionObject(t *testing.T) {
	result := testEval(t, "fn(x) { x + 2 }")
	require.False(t, result.Failed())

	fn, ok := result.Value.Object.(*object.Function)
	require.True(t, ok, "object is not Function. got=%T", result.Value.Object)
	require.Equal(t, 1, fn.Arity())
	require.Equal(t, "x", fn.Node.Parameters[0].Value)
	require.Equal(t, "fn(x) { (x + 2) }", fn.Inspect())

	requireValue(t, "fn(a, b) {}.arity", object.IntValue(2))
	requireInspect(t, "var named = fn() {}; named.name", "named")
	requireValue(t, "fn() {}.name", object.NullValue)
}

func TestInvalidParameterCount(t *testing.T) {
	requireException(t, "var f = fn(a) { a }; f()", object.ExceptionClass, "Invalid parameter count")
	requireException(t, "var f = fn(a) { a }; f(1, 2)", object.ExceptionClass, "Invalid parameter count")

	// 引数の評価より先に数を検査する
	requireException(t, "var f = fn(a) { a }; f(nope, alsoNope)", object.ExceptionClass, "Invalid parameter count")
	requireValue(t, "var n = 0; var f = fn(a) { a }; f(n = 1, n = 2); n", object.IntValue(0))
}

func TestDuplicateParameter(t *testing.T) {
	requireException(t, "var f = fn(a, a) { a }; f(1, 2)", object.ExceptionClass, "Identifier already declared")
}

func TestCalleeAndArgumentOrder(t *testing.T) {
	// 呼び出し対象が失敗したら引数は評価しない
	requireValue(t, "var n = 0; nope(n = 1); n", object.IntValue(0))
	// 引数は左から右へ、最初の失敗で止まる
	requireValue(t, `var n = 0; "s".startsWith(nope, n = 1); n`, object.IntValue(0))
	requireException(t, `"s".startsWith(first, second)`, object.ExceptionClass, "Use of undeclared identifier")
}

func TestNotCallable(t *testing.T) {
	requireException(t, "1()", object.ExceptionClass, "Only methods and functions are callable")
	requireException(t, `"str"()`, object.ExceptionClass, "Only methods and functions are callable")
	requireException(t, "null()", object.ExceptionClass, "Only methods and functions are callable")
	// 引数は呼び出し可能かどうかの検査より先に評価される
	requireException(t, "1(nope)", object.ExceptionClass, "Use of undeclared identifier")
}

func TestClosures(t *testing.T) {
	input := `
var newAdder = fn(x) {
  fn(y) { x + y }
};
var addTwo = newAdder(2);
addTwo(2)`
	requireValue(t, input, object.IntValue(4))
}

func TestClosuresShareCapturedScope(t *testing.T) {
	input := `
var count = 0;
var inc = fn() { count = count + 1 };
var get = fn() { count };
inc(); inc(); inc();
get()`
	requireValue(t, input, object.IntValue(3))
}

func TestClosureResolvesAgainstDefinitionScope(t *testing.T) {
	input := `
var makeProbe = fn() { fn() { hidden } };
var probe = makeProbe();
var caller = fn() { var hidden = 1; probe() };
caller()`
	requireException(t, input, object.ExceptionClass, "Use of undeclared identifier")

	input = `
var x = "definition";
var show = fn() { x };
var caller = fn() { var x = "caller"; show() };
caller()`
	requireInspect(t, input, "definition")
}

func TestFreeIdentifiersResolveAtCallTime(t *testing.T) {
	input := `
var callLater = fn() { later() };
var later = fn() { 10 };
callLater()`
	requireValue(t, input, object.IntValue(10))
}

func TestMemberAccess(t *testing.T) {
	requireValue(t, `"hello".length`, object.IntValue(5))
	requireValue(t, `"héllo".length`, object.IntValue(5))
	requireInspect(t, `"abc".toUpper()`, "ABC")
	requireInspect(t, `"ABC".toLower()`, "abc")
	requireValue(t, `"whiskey".startsWith("wh")`, object.BoolValue(true))
	requireValue(t, `"whiskey".indexOf("key")`, object.IntValue(4))
	requireValue(t, `"whiskey".indexOf("rum")`, object.IntValue(-1))
	requireInspect(t, `(1).className`, "Integer")
	requireInspect(t, `null.className`, "Null")
	requireInspect(t, `2.5.toString()`, "2.5")
	requireInspect(t, `(2).toString()`, "2")
	requireValue(t, `(0 - 4).abs`, object.IntValue(4))
	requireValue(t, `(3).toFloat()`, object.FloatValue(3))
}

func TestGetterAutoInvokes(t *testing.T) {
	result := testEval(t, `"abc".length`)
	require.False(t, result.Failed())
	require.Equal(t, object.IntType, result.Value.Type, "getter must not return a bound method")

	requireException(t, `"abc".length()`, object.ExceptionClass, "Only methods and functions are callable")
}

func TestBoundMethodKeepsReceiver(t *testing.T) {
	requireInspect(t, `var up = "abc".toUpper; up()`, "ABC")
	requireInspect(t, `var up = "abc".toUpper; var s = "xyz"; (fn(f) { f() })(up)`, "ABC")
	requireInspect(t, `"abc".toUpper`, "<InstanceMethod String.toUpper>")
	requireInspect(t, `"abc".toUpper.name`, "toUpper")
	requireException(t, `"abc".toUpper(1)`, object.ExceptionClass, "Invalid parameter count")
	requireException(t, `"abc".startsWith(1)`, object.TypeErrorClass, "String.startsWith expects a String, got Integer")
}

func TestAttributeError(t *testing.T) {
	requireException(t, `"abc".nope`, object.AttributeErrorClass, "String object has no attribute nope")
	requireException(t, `(1).nope`, object.AttributeErrorClass, "Integer object has no attribute nope")
	requireException(t, `null.missing`, object.AttributeErrorClass, "Null object has no attribute missing")
	requireException(t, `nope.missing`, object.ExceptionClass, "Use of undeclared identifier")
}

func TestExceptionMessageGetter(t *testing.T) {
	result := testEval(t, `"abc".nope`)
	require.True(t, result.Failed())

	scope := object.NewScope()
	require.NoError(t, scope.DeclareLocal("err", object.ObjectValue(result.Exception)))
	message := testEvalIn(t, "err.message", scope)
	require.False(t, message.Failed())
	require.Equal(t, "String object has no attribute nope", message.Value.Inspect())

	className := testEvalIn(t, "err.className", scope)
	require.Equal(t, "AttributeError", className.Value.Inspect())
}

func TestUnknownNodePanics(t *testing.T) {
	require.Panics(t, func() {
		Eval(nil, object.NewScope())
	})
}

func TestPackageEvalString(t *testing.T) {
	result := EvalString("var x = 1; x = x + 2; x")
	require.False(t, result.Failed())
	require.Equal(t, object.IntValue(3), result.Value)
}
