package object

import (
	"whiskey/token"
)

// 組み込みクラス。メソッド表は init で埋める。
var (
	ObjectClass         = NewClass("Object", nil)
	NullClass           = NewClass("Null", ObjectClass)
	BoolClass           = NewClass("Boolean", ObjectClass)
	IntClass            = NewClass("Integer", ObjectClass)
	FloatClass          = NewClass("Float", ObjectClass)
	StrClass            = NewClass("String", ObjectClass)
	FunctionClass       = NewClass("Function", ObjectClass)
	InstanceMethodClass = NewClass("InstanceMethod", ObjectClass)

	ExceptionClass           = NewClass("Exception", ObjectClass)
	TypeErrorClass           = NewClass("TypeError", ExceptionClass)
	AttributeErrorClass      = NewClass("AttributeError", ExceptionClass)
	NotImplementedErrorClass = NewClass("NotImplementedError", ExceptionClass)
	SyntaxErrorClass         = NewClass("SyntaxError", ExceptionClass)
)

func init() {
	// Object: 全クラスの祖先
	ObjectClass.AddMethod("toString", 0, func(self Value, _ []Value) Outcome {
		return ReturnStr(self.Inspect())
	})
	ObjectClass.AddGetter("className", func(self Value, _ []Value) Outcome {
		return ReturnStr(ClassNameOf(self))
	})
	ObjectClass.AddOperator(token.OpEquals, false, func(self Value, args []Value) Outcome {
		return Return(BoolValue(Identical(self, args[0])))
	})
	ObjectClass.AddOperator(token.OpNotEquals, false, func(self Value, args []Value) Outcome {
		return Return(BoolValue(!Identical(self, args[0])))
	})

	// 数値
	IntClass.AddGetter("abs", func(self Value, _ []Value) Outcome {
		if self.Int < 0 {
			return Return(IntValue(-self.Int))
		}
		return Return(self)
	})
	IntClass.AddMethod("toFloat", 0, func(self Value, _ []Value) Outcome {
		return Return(FloatValue(float64(self.Int)))
	})
	FloatClass.AddGetter("abs", func(self Value, _ []Value) Outcome {
		if self.Float < 0 {
			return Return(FloatValue(-self.Float))
		}
		return Return(self)
	})
	FloatClass.AddMethod("toInt", 0, func(self Value, _ []Value) Outcome {
		return Return(IntValue(int64(self.Float)))
	})

	// 関数
	FunctionClass.AddGetter("arity", func(self Value, _ []Value) Outcome {
		return Return(IntValue(int64(self.Object.(*Function).Arity())))
	})
	FunctionClass.AddGetter("name", func(self Value, _ []Value) Outcome {
		if name := self.Object.(*Function).Name; name != "" {
			return ReturnStr(name)
		}
		return NullOutcome
	})
	InstanceMethodClass.AddGetter("name", func(self Value, _ []Value) Outcome {
		return ReturnStr(self.Object.(*InstanceMethod).Method.Name)
	})

	// 例外
	ExceptionClass.AddGetter("message", func(self Value, _ []Value) Outcome {
		return ReturnStr(self.Object.(*Exception).Message)
	})
}
