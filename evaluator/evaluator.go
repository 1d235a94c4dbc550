// Package evaluator は whiskey 言語のTree-walking評価器を実装するパッケージ。
// ASTを再帰的にたどりながら（tree-walking）、各ノードを評価して
// object.Outcome としての結果を返す。
//
// 例外は巻き戻しではなく Outcome の戻り値として伝播する。
// 各評価関数は子ノードの Outcome を必ず検査し、失敗していればそのまま返す。
package evaluator

import (
	"fmt"

	"whiskey/ast"
	"whiskey/object"
)

// 評価器が生成する汎用例外のメッセージ。
const (
	msgUndeclared      = "Use of undeclared identifier"
	msgAlreadyDeclared = "Identifier already declared"
	msgNotAssignable   = "Not assignable expression"
	msgNotCallable     = "Only methods and functions are callable"
	msgParamCount      = "Invalid parameter count"
)

// Eval はASTノードを評価して Outcome を返す、評価器のメイン関数。
// ノードの型に応じたswitch文で処理を分岐する。
// 全ての評価はこの関数を通じて再帰的に行われる。
// 未知のノード型はプログラミングエラーとして panic する。
func Eval(node ast.Node, scope *object.Scope) object.Outcome {
	switch node := node.(type) {

	// === リテラル ===

	case *ast.Null:
		return object.NullOutcome

	case *ast.Bool:
		return object.Return(object.BoolValue(node.Value))

	case *ast.Int:
		return object.Return(object.IntValue(node.Value))

	case *ast.Float:
		return object.Return(object.FloatValue(node.Value))

	case *ast.String:
		return object.ReturnStr(node.Value)

	// === 変数 ===

	case *ast.Identifier:
		return evalIdentifier(node, scope)

	case *ast.Var:
		return evalVar(node, scope)

	case *ast.Assignment:
		return evalAssignment(node, scope)

	// === 式 ===

	// Sequence: 子スコープを開いて子ノードを順に評価する
	case *ast.Sequence:
		return evalSequence(node, scope)

	case *ast.Operator:
		return evalOperator(node, scope)

	// Function: 現在のスコープを捕捉したクロージャを生成する
	// 定義時のスコープを共有することがクロージャのポイント
	case *ast.Function:
		return object.ReturnObject(object.NewFunction("", node, scope))

	case *ast.Call:
		return evalCall(node, scope)

	case *ast.MemberAccess:
		return evalMemberAccess(node, scope)
	}

	panic(fmt.Sprintf("evaluator: unknown node type %T", node))
}

// =====================
// シーケンス
// =====================

// evalSequence はシーケンスを新しい子スコープで評価する。
// 子ノードが例外を返しても評価は止まらず、最後の子ノードの結果がシーケンスの結果になる。
// 関数本体（applyFunction）とは異なり、途中で打ち切らない。
func evalSequence(seq *ast.Sequence, scope *object.Scope) object.Outcome {
	return evalNodes(seq.Children, object.NewEnclosedScope(scope))
}

// evalNodes はノードを順に評価し、最後の結果を返す。空なら null。
func evalNodes(nodes []ast.Node, scope *object.Scope) object.Outcome {
	result := object.NullOutcome
	for _, n := range nodes {
		result = Eval(n, scope)
	}
	return result
}

// =====================
// 識別子と変数
// =====================

// evalIdentifier は識別子（変数名）を評価する。
// スコープチェーンから変数の値を検索し、見つからなければ例外を返す。
func evalIdentifier(node *ast.Identifier, scope *object.Scope) object.Outcome {
	val, ok := scope.Get(node.Value)
	if !ok {
		return object.RaiseNew(msgUndeclared)
	}
	return object.Return(val)
}

// evalVar は変数宣言を評価する。
// 同じスコープで宣言済みなら例外。外側のスコープの同名変数は隠される。
// 初期化式は束縛の前に評価され、省略時は null。宣言の結果は束縛した値。
func evalVar(node *ast.Var, scope *object.Scope) object.Outcome {
	if scope.IsDeclaredLocally(node.Name) {
		return object.RaiseNew(msgAlreadyDeclared)
	}

	val := object.NullValue
	if node.Right != nil {
		right := Eval(node.Right, scope)
		if right.Failed() {
			return right
		}
		val = right.Value
	}

	if err := scope.DeclareLocal(node.Name, val); err != nil {
		return object.RaiseNew(msgAlreadyDeclared)
	}

	// "var f = fn() {...}" の形なら、クロージャに名前を付ける
	if _, isFn := node.Right.(*ast.Function); isFn {
		if fn, ok := val.Object.(*object.Function); ok && fn.Name == "" {
			fn.Name = node.Name
		}
	}

	return object.Return(val)
}

// evalAssignment は代入を評価する。
// 左辺は識別子のみ。宣言している最も内側のスコープの値を書き換える。
func evalAssignment(node *ast.Assignment, scope *object.Scope) object.Outcome {
	ident, ok := node.Left.(*ast.Identifier)
	if !ok {
		return object.RaiseNew(msgNotAssignable)
	}
	if !scope.IsDeclared(ident.Value) {
		return object.RaiseNew(msgUndeclared)
	}

	right := Eval(node.Right, scope)
	if right.Failed() {
		return right
	}

	scope.Set(ident.Value, right.Value)
	return right
}

// =====================
// 関数呼び出し
// =====================

// evalCall は関数呼び出しを評価する。
// 呼び出し対象を先に評価し、次に引数を左から右へ評価する。
// 対象がクロージャの場合、引数の数は引数を評価する前に検査する。
func evalCall(node *ast.Call, scope *object.Scope) object.Outcome {
	callee := Eval(node.Left, scope)
	if callee.Failed() {
		return callee
	}

	if fn, ok := callee.Value.Object.(*object.Function); ok && len(node.Arguments) != fn.Arity() {
		return object.RaiseNew(msgParamCount)
	}

	args, exc := evalArguments(node.Arguments, scope)
	if exc != nil {
		return object.Raise(exc)
	}

	return applyFunction(callee.Value, args)
}

// evalArguments は引数を左から右に評価する。
// 途中で例外が発生したら、残りの引数は評価せずにその例外を返す。
func evalArguments(nodes []ast.Node, scope *object.Scope) ([]object.Value, *object.Exception) {
	args := make([]object.Value, 0, len(nodes))
	for _, n := range nodes {
		evaluated := Eval(n, scope)
		if evaluated.Failed() {
			return nil, evaluated.Exception
		}
		args = append(args, evaluated.Value)
	}
	return args, nil
}

// applyFunction は呼び出し可能な値に引数を適用する。
// 呼び出せるのはクロージャと、レシーバに束縛されたメソッドの2種類だけ。
func applyFunction(callee object.Value, args []object.Value) object.Outcome {
	if callee.Type == object.ObjectType {
		switch fn := callee.Object.(type) {
		case *object.Function:
			return callClosure(fn, args)
		case *object.InstanceMethod:
			return fn.Call(args)
		}
	}
	return object.RaiseNew(msgNotCallable)
}

// callClosure はクロージャを実行する。
// 1. 定義時のスコープを外側とする新しいスコープを作成
// 2. 引数をパラメータ名に束縛
// 3. 本体を順に評価し、最初の例外で打ち切る
func callClosure(fn *object.Function, args []object.Value) object.Outcome {
	if len(args) != fn.Arity() {
		return object.RaiseNew(msgParamCount)
	}

	scope, exc := extendFunctionScope(fn, args)
	if exc != nil {
		return object.Raise(exc)
	}

	result := object.NullOutcome
	for _, stmt := range fn.Node.Body {
		result = Eval(stmt, scope)
		if result.Failed() {
			return result
		}
	}
	return result
}

// extendFunctionScope は関数呼び出し用の新しいスコープを作成する。
// 呼び出し元ではなく、クロージャが捕捉したスコープを外側にする。
func extendFunctionScope(fn *object.Function, args []object.Value) (*object.Scope, *object.Exception) {
	scope := object.NewEnclosedScope(fn.Scope)
	for i, param := range fn.Node.Parameters {
		if err := scope.DeclareLocal(param.Value, args[i]); err != nil {
			return nil, object.NewException(msgAlreadyDeclared)
		}
	}
	return scope, nil
}

// =====================
// メンバーアクセス
// =====================

// evalMemberAccess はメンバーアクセスを評価する。
// ゲッターは即座に呼び出し、それ以外はレシーバを束縛したメソッドを返す。
func evalMemberAccess(node *ast.MemberAccess, scope *object.Scope) object.Outcome {
	left := Eval(node.Left, scope)
	if left.Failed() {
		return left
	}

	receiver := left.Value
	method := object.ClassOf(receiver).FindMethod(node.Name)
	if method == nil {
		return object.Raise(object.NewAttributeError(
			fmt.Sprintf("%s object has no attribute %s", object.ClassNameOf(receiver), node.Name)))
	}

	if method.IsGetter() {
		return callMethod(method, receiver, nil)
	}
	return object.ReturnObject(object.NewInstanceMethod(method, receiver))
}

// callMethod はレシーバの種類に応じた呼び出し口でメソッドを呼ぶ。
func callMethod(m *object.Method, self object.Value, args []object.Value) object.Outcome {
	if self.Type == object.ObjectType {
		return m.Call(self.Object, args)
	}
	return m.CallValue(self, args)
}
