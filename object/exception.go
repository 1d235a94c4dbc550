package object

import "whiskey/gc"

// Exception は実行時エラーを表すオブジェクト。
// 例外は言語の値であり、同時に Go の error としてホスト側にも渡せる。
type Exception struct {
	class   *Class
	Message string
	// Cause は例外の元になった Go のエラー（構文エラーなど）。
	Cause error
}

func newException(class *Class, message string) *Exception {
	e := &Exception{class: class, Message: message}
	track(e)
	return e
}

// NewException は汎用例外（Exception クラス）を生成する。
func NewException(message string) *Exception {
	return newException(ExceptionClass, message)
}

// NewTypeError は型エラーを生成する。
func NewTypeError(message string) *Exception {
	return newException(TypeErrorClass, message)
}

// NewAttributeError は属性エラーを生成する。
func NewAttributeError(message string) *Exception {
	return newException(AttributeErrorClass, message)
}

// NewNotImplementedError は「演算子が定義されていない」ことを示す番兵を生成する。
// 演算子ディスパッチの内部でだけ使われ、言語に漏れてはならない。
func NewNotImplementedError() *Exception {
	return newException(NotImplementedErrorClass, "Not implemented")
}

// NewSyntaxError はパースエラーを例外として包む。
func NewSyntaxError(err error) *Exception {
	e := newException(SyntaxErrorClass, err.Error())
	e.Cause = err
	return e
}

// IsNotImplemented は e が演算子未定義の番兵かどうかを返す。
func IsNotImplemented(e *Exception) bool {
	return e != nil && e.class == NotImplementedErrorClass
}

// Class は例外のクラスを返す。
func (e *Exception) Class() *Class { return e.class }

// Inspect は "クラス名: メッセージ" 形式の文字列を返す。
func (e *Exception) Inspect() string {
	return e.class.Name + ": " + e.Message
}

// Trace は何も辿らない。例外は他のオブジェクトを参照しない。
func (e *Exception) Trace(func(gc.Traceable)) {}

// Error は error インターフェースを満たす。
func (e *Exception) Error() string { return e.Inspect() }

// Unwrap は元になった Go のエラーを返す。
func (e *Exception) Unwrap() error { return e.Cause }

// InstanceOf は例外のクラスが class 自身かその子孫かを返す。
func (e *Exception) InstanceOf(class *Class) bool {
	return e.class.IsSubclassOf(class)
}
