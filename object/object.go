// Package object は whiskey 言語のランタイムオブジェクトシステムを定義するパッケージ。
// 評価器（Evaluator）がASTを評価した結果はすべて Value として表現される。
// Value は null・真偽値・整数・浮動小数点数・オブジェクト参照の閉じたタグ付き共用体で、
// オブジェクト参照は Object インターフェースを実装する。
package object

import (
	"math"
	"strconv"
	"strings"

	"whiskey/gc"
)

// Heap は生成された全てのオブジェクトを追跡するコレクタ。
// トップレベル評価の終わりに一度だけマーク・スイープが走る。
var Heap = gc.NewCollector()

// track は新しく生成したオブジェクトを Heap に登録する。
func track(o Object) {
	Heap.Track(o)
}

// ValueType は Value の種類を表す。
type ValueType int

// Value の種類を表す定数。
const (
	NullType   ValueType = iota // null値
	BoolType                    // 真偽値
	IntType                     // 64bit 整数
	FloatType                   // 64bit 浮動小数点数
	ObjectType                  // オブジェクト参照
)

func (t ValueType) String() string {
	switch t {
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case ObjectType:
		return "object"
	}
	return "unknown"
}

// Object は参照として共有される全てのランタイムオブジェクトが実装するインターフェース。
// Class() はオブジェクトのクラスを返し、Inspect() は値の文字列表現を返す。
// Trace() はコレクタのマーク処理のために、直接参照しているものを列挙する。
type Object interface {
	Class() *Class
	Inspect() string
	gc.Traceable
}

// Value は評価結果の値。
// Type に応じて Bool / Int / Float / Object のいずれか1つだけが意味を持つ。
// プリミティブは値としてコピーされ、オブジェクトは参照が共有される。
type Value struct {
	Type   ValueType
	Bool   bool
	Int    int64
	Float  float64
	Object Object
}

// NullValue は null を表す Value。
var NullValue = Value{Type: NullType}

// BoolValue はGoのbool値から Value を作る。
func BoolValue(b bool) Value {
	return Value{Type: BoolType, Bool: b}
}

// IntValue は整数の Value を作る。
func IntValue(i int64) Value {
	return Value{Type: IntType, Int: i}
}

// FloatValue は浮動小数点数の Value を作る。
func FloatValue(f float64) Value {
	return Value{Type: FloatType, Float: f}
}

// ObjectValue はオブジェクト参照の Value を作る。nil は null になる。
func ObjectValue(o Object) Value {
	if o == nil {
		return NullValue
	}
	return Value{Type: ObjectType, Object: o}
}

// IsNull は null かどうかを返す。
func (v Value) IsNull() bool { return v.Type == NullType }

// Inspect は値の文字列表現を返す。
func (v Value) Inspect() string {
	switch v.Type {
	case BoolType:
		return strconv.FormatBool(v.Bool)
	case IntType:
		return strconv.FormatInt(v.Int, 10)
	case FloatType:
		return formatFloat(v.Float)
	case ObjectType:
		return v.Object.Inspect()
	default:
		return "null"
	}
}

// Trace は値がオブジェクト参照であればそれを mark に渡す。
func (v Value) Trace(mark func(gc.Traceable)) {
	if v.Type == ObjectType && v.Object != nil {
		mark(v.Object)
	}
}

// Identical は2つの値が同一かどうかを返す。
// オブジェクトはポインタの同一性で比較する。
func Identical(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case BoolType:
		return a.Bool == b.Bool
	case IntType:
		return a.Int == b.Int
	case FloatType:
		return a.Float == b.Float
	case ObjectType:
		return a.Object == b.Object
	default:
		return true
	}
}

// formatFloat は浮動小数点数を整数と区別できる形で文字列にする（例: 2 → "2.0"）。
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
