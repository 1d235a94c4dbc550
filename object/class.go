package object

import (
	"fmt"

	"whiskey/token"
)

// MethodFlags はメソッドの性質を表すビットフラグ。
type MethodFlags uint8

const (
	// MethodGetter はプロパティのゲッター。メンバーアクセスだけで即座に呼ばれる。
	MethodGetter MethodFlags = 1 << iota
)

// NativeFunction はメソッドの実装。self はレシーバ、args は呼び出し側の引数。
type NativeFunction func(self Value, args []Value) Outcome

// Method はクラスのメソッド表に登録されるメソッド記述子。
// ParamCount が負なら可変長引数を受け付ける。
type Method struct {
	Name       string
	Flags      MethodFlags
	ParamCount int
	Fn         NativeFunction
}

// IsGetter はプロパティのゲッターかどうかを返す。
func (m *Method) IsGetter() bool {
	return m.Flags&MethodGetter != 0
}

// Call はオブジェクトのレシーバでメソッドを呼ぶ。
func (m *Method) Call(self Object, args []Value) Outcome {
	return m.invoke(ObjectValue(self), args)
}

// CallValue はプリミティブの値をレシーバとしてメソッドを呼ぶ。
func (m *Method) CallValue(self Value, args []Value) Outcome {
	return m.invoke(self, args)
}

func (m *Method) invoke(self Value, args []Value) Outcome {
	if m.ParamCount >= 0 && len(args) != m.ParamCount {
		return RaiseNew("Invalid parameter count")
	}
	return m.Fn(self, args)
}

// OperatorKey は演算子メソッド表のキー。
// Reflected が true のものは右オペランド側で呼ばれる反射版（例: r+）。
type OperatorKey struct {
	Operator  token.Operator
	Reflected bool
}

func (k OperatorKey) String() string {
	if k.Reflected {
		return "operator r" + k.Operator.String()
	}
	return "operator " + k.Operator.String()
}

// Class はクラス記述子。メソッド表と演算子メソッド表を持ち、
// 見つからない名前は Super を辿って祖先クラスから探す。
type Class struct {
	Name      string
	Super     *Class
	Methods   map[string]*Method
	Operators map[OperatorKey]*Method
}

// NewClass は空のメソッド表を持つクラスを生成する。
func NewClass(name string, super *Class) *Class {
	return &Class{
		Name:      name,
		Super:     super,
		Methods:   make(map[string]*Method),
		Operators: make(map[OperatorKey]*Method),
	}
}

// AddMethod は通常のメソッドを登録する。
func (c *Class) AddMethod(name string, paramCount int, fn NativeFunction) {
	c.Methods[name] = &Method{Name: name, ParamCount: paramCount, Fn: fn}
}

// AddGetter はプロパティのゲッターを登録する。
func (c *Class) AddGetter(name string, fn NativeFunction) {
	c.Methods[name] = &Method{Name: name, Flags: MethodGetter, ParamCount: 0, Fn: fn}
}

// AddOperator は演算子メソッドを登録する。演算子メソッドは常に引数を1つ取る。
func (c *Class) AddOperator(op token.Operator, reflected bool, fn NativeFunction) {
	key := OperatorKey{Operator: op, Reflected: reflected}
	c.Operators[key] = &Method{Name: key.String(), ParamCount: 1, Fn: fn}
}

// FindMethod は名前でメソッドを探す。祖先クラスも順に探し、なければ nil。
func (c *Class) FindMethod(name string) *Method {
	for class := c; class != nil; class = class.Super {
		if m, ok := class.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// FindOperator は演算子メソッドを探す。祖先クラスも順に探し、なければ nil。
func (c *Class) FindOperator(op token.Operator, reflected bool) *Method {
	key := OperatorKey{Operator: op, Reflected: reflected}
	for class := c; class != nil; class = class.Super {
		if m, ok := class.Operators[key]; ok {
			return m
		}
	}
	return nil
}

// IsSubclassOf は c が other 自身かその子孫かを返す。
func (c *Class) IsSubclassOf(other *Class) bool {
	for class := c; class != nil; class = class.Super {
		if class == other {
			return true
		}
	}
	return false
}

func (c *Class) String() string {
	return fmt.Sprintf("<Class %s>", c.Name)
}

// ClassOf は値の実行時クラスを返す。
func ClassOf(v Value) *Class {
	switch v.Type {
	case BoolType:
		return BoolClass
	case IntType:
		return IntClass
	case FloatType:
		return FloatClass
	case ObjectType:
		return v.Object.Class()
	default:
		return NullClass
	}
}

// ClassNameOf は値の実行時クラスの名前を返す。
func ClassNameOf(v Value) string {
	return ClassOf(v).Name
}
