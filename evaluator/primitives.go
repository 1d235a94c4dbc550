package evaluator

import (
	"math"

	"whiskey/object"
	"whiskey/token"
)

// =====================
// プリミティブの演算表
// =====================

const msgDivisionByZero = "Division by zero"

// evalBoolOperator は Boolean の演算表。
// and / or は両辺とも評価済みの値に対して働く（短絡評価はしない）。
func evalBoolOperator(left bool, op token.Operator, right object.Value) object.Outcome {
	if right.Type != object.BoolType {
		return primitiveMismatch(op, right)
	}

	switch op {
	case token.OpEquals:
		return boolOutcome(left == right.Bool)
	case token.OpNotEquals:
		return boolOutcome(left != right.Bool)
	case token.OpAnd:
		return boolOutcome(left && right.Bool)
	case token.OpOr:
		return boolOutcome(left || right.Bool)
	}
	return notImplemented()
}

// evalIntOperator は Integer の演算表。Float との演算は Float に昇格する。
func evalIntOperator(left int64, op token.Operator, right object.Value) object.Outcome {
	switch right.Type {
	case object.IntType:
		return evalIntArithmetic(left, op, right.Int)
	case object.FloatType:
		return evalFloatArithmetic(float64(left), op, right.Float)
	}
	return primitiveMismatch(op, right)
}

// evalFloatOperator は Float の演算表。
func evalFloatOperator(left float64, op token.Operator, right object.Value) object.Outcome {
	switch right.Type {
	case object.IntType:
		return evalFloatArithmetic(left, op, float64(right.Int))
	case object.FloatType:
		return evalFloatArithmetic(left, op, right.Float)
	}
	return primitiveMismatch(op, right)
}

func evalIntArithmetic(left int64, op token.Operator, right int64) object.Outcome {
	switch op {
	case token.OpPlus:
		return intOutcome(left + right)
	case token.OpMinus:
		return intOutcome(left - right)
	case token.OpStar:
		return intOutcome(left * right)
	case token.OpSlash:
		if right == 0 {
			return object.RaiseNew(msgDivisionByZero)
		}
		return intOutcome(left / right)
	case token.OpPercent:
		if right == 0 {
			return object.RaiseNew(msgDivisionByZero)
		}
		return intOutcome(left % right)
	case token.OpLess:
		return boolOutcome(left < right)
	case token.OpLessEquals:
		return boolOutcome(left <= right)
	case token.OpGreater:
		return boolOutcome(left > right)
	case token.OpGreaterEquals:
		return boolOutcome(left >= right)
	case token.OpEquals:
		return boolOutcome(left == right)
	case token.OpNotEquals:
		return boolOutcome(left != right)
	}
	return notImplemented()
}

// evalFloatArithmetic は IEEE 754 に従う。ゼロ除算は Inf / NaN になる。
func evalFloatArithmetic(left float64, op token.Operator, right float64) object.Outcome {
	switch op {
	case token.OpPlus:
		return floatOutcome(left + right)
	case token.OpMinus:
		return floatOutcome(left - right)
	case token.OpStar:
		return floatOutcome(left * right)
	case token.OpSlash:
		return floatOutcome(left / right)
	case token.OpPercent:
		return floatOutcome(math.Mod(left, right))
	case token.OpLess:
		return boolOutcome(left < right)
	case token.OpLessEquals:
		return boolOutcome(left <= right)
	case token.OpGreater:
		return boolOutcome(left > right)
	case token.OpGreaterEquals:
		return boolOutcome(left >= right)
	case token.OpEquals:
		return boolOutcome(left == right)
	case token.OpNotEquals:
		return boolOutcome(left != right)
	}
	return notImplemented()
}

// primitiveMismatch は種類の異なるプリミティブ同士の演算を扱う。
// == と != は「等しくない」として答え、それ以外は番兵を返す。
// 右辺がオブジェクトなら、そのクラスの反射メソッドに任せるため常に番兵を返す。
func primitiveMismatch(op token.Operator, right object.Value) object.Outcome {
	if right.Type == object.ObjectType {
		return notImplemented()
	}
	switch op {
	case token.OpEquals:
		return boolOutcome(false)
	case token.OpNotEquals:
		return boolOutcome(true)
	}
	return notImplemented()
}

func boolOutcome(b bool) object.Outcome     { return object.Return(object.BoolValue(b)) }
func intOutcome(i int64) object.Outcome     { return object.Return(object.IntValue(i)) }
func floatOutcome(f float64) object.Outcome { return object.Return(object.FloatValue(f)) }
