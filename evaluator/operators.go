package evaluator

import (
	"fmt"

	"whiskey/ast"
	"whiskey/object"
	"whiskey/token"
)

// =====================
// 演算子
// =====================

// evalOperator は演算子式を評価する。
// 二項演算子は左辺、右辺の順に評価し、左辺が失敗したら右辺は評価しない。
func evalOperator(node *ast.Operator, scope *object.Scope) object.Outcome {
	if node.IsUnary() {
		right := Eval(node.Right, scope)
		if right.Failed() {
			return right
		}
		return evalUnaryOperator(node.Operator, right.Value)
	}

	left := Eval(node.Left, scope)
	if left.Failed() {
		return left
	}

	right := Eval(node.Right, scope)
	if right.Failed() {
		return right
	}

	return evalBinaryOperator(left.Value, node.Operator, right.Value)
}

// evalBinaryOperator は二項演算子を次の順で解決する。
//  1. 左辺の順方向メソッド（left op right）
//  2. 右辺の反射メソッド（right rop left）
//  3. 右辺の順方向メソッド（right op left）
//
// どの段階も NotImplementedError の番兵を返したときだけ次に進む。
// 全て番兵なら TypeError にする。番兵がこの関数の外に漏れることはない。
func evalBinaryOperator(left object.Value, op token.Operator, right object.Value) object.Outcome {
	result := evalBinaryOperatorValues(left, op, right, false)
	if !object.IsNotImplemented(result.Exception) {
		return result
	}

	result = evalBinaryOperatorValues(right, op, left, true)
	if !object.IsNotImplemented(result.Exception) {
		return result
	}

	result = evalBinaryOperatorValues(right, op, left, false)
	if !object.IsNotImplemented(result.Exception) {
		return result
	}

	return object.Raise(object.NewTypeError(fmt.Sprintf("Unsupported classes for %s: %s and %s",
		op, object.ClassNameOf(left), object.ClassNameOf(right))))
}

// evalBinaryOperatorValues は self をレシーバとして演算子を1回だけ試す。
// プリミティブは固定の演算表を使い、reflected は無視する。
// オブジェクトと null はクラスの演算子メソッド表を引き、なければ番兵を返す。
func evalBinaryOperatorValues(self object.Value, op token.Operator, other object.Value, reflected bool) object.Outcome {
	switch self.Type {
	case object.BoolType:
		return evalBoolOperator(self.Bool, op, other)
	case object.IntType:
		return evalIntOperator(self.Int, op, other)
	case object.FloatType:
		return evalFloatOperator(self.Float, op, other)
	}

	method := object.ClassOf(self).FindOperator(op, reflected)
	if method == nil {
		return notImplemented()
	}
	return callMethod(method, self, []object.Value{other})
}

// evalUnaryOperator は単項演算子を評価する。
// プリミティブの演算表だけを使い、オブジェクトのメソッドは探さない。
func evalUnaryOperator(op token.Operator, right object.Value) object.Outcome {
	switch right.Type {
	case object.IntType:
		switch op {
		case token.OpMinus:
			return object.Return(object.IntValue(-right.Int))
		case token.OpPlus:
			return object.Return(right)
		}
	case object.FloatType:
		switch op {
		case token.OpMinus:
			return object.Return(object.FloatValue(-right.Float))
		case token.OpPlus:
			return object.Return(right)
		}
	case object.BoolType:
		if op == token.OpNot {
			return object.Return(object.BoolValue(!right.Bool))
		}
	}

	return object.Raise(object.NewTypeError(fmt.Sprintf("Unsupported class for unary %s: %s",
		op, object.ClassNameOf(right))))
}

// notImplemented は演算子が定義されていないことを示す番兵を返す。
func notImplemented() object.Outcome {
	return object.Raise(object.NewNotImplementedError())
}
