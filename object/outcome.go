package object

import "whiskey/gc"

// Outcome は評価の1ステップの結果。値か例外のどちらか一方だけを持つ。
// Exception が nil でなければ Value は意味を持たず、呼び出し側は読んではならない。
// 例外は巻き戻しではなく戻り値として伝播し、各呼び出し側が必ず検査する。
type Outcome struct {
	Value     Value
	Exception *Exception
}

// NullOutcome は null を値に持つ成功結果。
var NullOutcome = Outcome{Value: NullValue}

// Return は値を持つ成功結果を作る。
func Return(v Value) Outcome {
	return Outcome{Value: v}
}

// ReturnObject はオブジェクトを値に持つ成功結果を作る。
func ReturnObject(o Object) Outcome {
	return Outcome{Value: ObjectValue(o)}
}

// Raise は例外を持つ失敗結果を作る。
func Raise(e *Exception) Outcome {
	return Outcome{Value: NullValue, Exception: e}
}

// RaiseNew は汎用例外を生成して失敗結果を作る。
func RaiseNew(message string) Outcome {
	return Raise(NewException(message))
}

// Failed は例外を持つかどうかを返す。
func (o Outcome) Failed() bool {
	return o.Exception != nil
}

// Trace は例外があれば例外を、なければ値を mark に渡す。
func (o Outcome) Trace(mark func(gc.Traceable)) {
	if o.Exception != nil {
		mark(o.Exception)
		return
	}
	o.Value.Trace(mark)
}

// Inspect は結果の文字列表現を返す。
func (o Outcome) Inspect() string {
	if o.Exception != nil {
		return o.Exception.Inspect()
	}
	return o.Value.Inspect()
}
