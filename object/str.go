package object

import (
	"strings"
	"unicode/utf8"

	"whiskey/gc"
	"whiskey/token"
)

// MaxRepeatLength は文字列の繰り返し（"ab" * n）で作れる結果の最大バイト数。
const MaxRepeatLength = 1 << 26

// Str は文字列オブジェクト。内容は不変。
type Str struct {
	Value string
}

// NewStr は文字列オブジェクトを生成して Heap に登録する。
func NewStr(s string) *Str {
	str := &Str{Value: s}
	track(str)
	return str
}

// Class は String クラスを返す。
func (s *Str) Class() *Class { return StrClass }

// Inspect は文字列の中身をそのまま返す。
func (s *Str) Inspect() string { return s.Value }

// Trace は何も辿らない。
func (s *Str) Trace(func(gc.Traceable)) {}

// AsStr は値が文字列オブジェクトならそれを返す。
func AsStr(v Value) (*Str, bool) {
	if v.Type != ObjectType {
		return nil, false
	}
	s, ok := v.Object.(*Str)
	return s, ok
}

// ReturnStr は文字列を値に持つ成功結果を作る。
func ReturnStr(s string) Outcome {
	return ReturnObject(NewStr(s))
}

func strSelf(self Value) string {
	return self.Object.(*Str).Value
}

func strArg(method string, args []Value, i int) (string, *Exception) {
	s, ok := AsStr(args[i])
	if !ok {
		return "", NewTypeError("String." + method + " expects a String, got " + ClassNameOf(args[i]))
	}
	return s.Value, nil
}

func init() {
	StrClass.AddGetter("length", func(self Value, _ []Value) Outcome {
		return Return(IntValue(int64(utf8.RuneCountInString(strSelf(self)))))
	})
	StrClass.AddMethod("toString", 0, func(self Value, _ []Value) Outcome {
		return Return(self)
	})
	StrClass.AddMethod("toUpper", 0, func(self Value, _ []Value) Outcome {
		return ReturnStr(strings.ToUpper(strSelf(self)))
	})
	StrClass.AddMethod("toLower", 0, func(self Value, _ []Value) Outcome {
		return ReturnStr(strings.ToLower(strSelf(self)))
	})
	StrClass.AddMethod("startsWith", 1, func(self Value, args []Value) Outcome {
		prefix, exc := strArg("startsWith", args, 0)
		if exc != nil {
			return Raise(exc)
		}
		return Return(BoolValue(strings.HasPrefix(strSelf(self), prefix)))
	})
	StrClass.AddMethod("indexOf", 1, func(self Value, args []Value) Outcome {
		sub, exc := strArg("indexOf", args, 0)
		if exc != nil {
			return Raise(exc)
		}
		s := strSelf(self)
		idx := strings.Index(s, sub)
		if idx < 0 {
			return Return(IntValue(-1))
		}
		return Return(IntValue(int64(utf8.RuneCountInString(s[:idx]))))
	})

	StrClass.AddOperator(token.OpPlus, false, func(self Value, args []Value) Outcome {
		other, ok := AsStr(args[0])
		if !ok {
			return Raise(NewNotImplementedError())
		}
		return ReturnStr(strSelf(self) + other.Value)
	})
	repeat := func(self Value, args []Value) Outcome {
		if args[0].Type != IntType {
			return Raise(NewNotImplementedError())
		}
		count := args[0].Int
		if count < 0 {
			return RaiseNew("Negative repeat count")
		}
		s := strSelf(self)
		if s == "" || count == 0 {
			return ReturnStr("")
		}
		// len(s)*count を計算せずに上限と比べ、桁あふれを避ける
		if count > int64(MaxRepeatLength/len(s)) {
			return RaiseNew("Repeat count too large")
		}
		return ReturnStr(strings.Repeat(s, int(count)))
	}
	StrClass.AddOperator(token.OpStar, false, repeat)
	StrClass.AddOperator(token.OpStar, true, repeat)
	StrClass.AddOperator(token.OpEquals, false, func(self Value, args []Value) Outcome {
		other, ok := AsStr(args[0])
		return Return(BoolValue(ok && other.Value == strSelf(self)))
	})
	StrClass.AddOperator(token.OpNotEquals, false, func(self Value, args []Value) Outcome {
		other, ok := AsStr(args[0])
		return Return(BoolValue(!ok || other.Value != strSelf(self)))
	})
}
