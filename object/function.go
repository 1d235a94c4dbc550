package object

import (
	"fmt"

	"whiskey/ast"
	"whiskey/gc"
)

// Function はクロージャ。関数リテラルのASTと、定義時のスコープを保持する。
// 呼び出し時は Scope を親とする新しいスコープで本体が評価される。
type Function struct {
	Name  string // 束縛された名前。無名なら空
	Node  *ast.Function
	Scope *Scope
}

// NewFunction はクロージャを生成して Heap に登録する。
func NewFunction(name string, node *ast.Function, scope *Scope) *Function {
	f := &Function{Name: name, Node: node, Scope: scope}
	track(f)
	return f
}

// Arity は仮引数の数を返す。
func (f *Function) Arity() int { return len(f.Node.Parameters) }

// Class は Function クラスを返す。
func (f *Function) Class() *Class { return FunctionClass }

// Inspect は関数リテラルのソース表現を返す。
func (f *Function) Inspect() string { return f.Node.String() }

// Trace は捕捉したスコープを辿る。
func (f *Function) Trace(mark func(gc.Traceable)) {
	if f.Scope != nil {
		mark(f.Scope)
	}
}

// InstanceMethod はレシーバに束縛されたメソッド。
// "s.toUpper" のようなメンバーアクセスの結果で、呼び出されると Self を渡して Method を呼ぶ。
type InstanceMethod struct {
	Method *Method
	Self   Value
}

// NewInstanceMethod はレシーバに束縛されたメソッドを生成して Heap に登録する。
func NewInstanceMethod(m *Method, self Value) *InstanceMethod {
	im := &InstanceMethod{Method: m, Self: self}
	track(im)
	return im
}

// Call はレシーバを渡してメソッドを呼ぶ。
// レシーバがオブジェクトかプリミティブかで呼び出し口を分ける。
func (im *InstanceMethod) Call(args []Value) Outcome {
	if im.Self.Type == ObjectType {
		return im.Method.Call(im.Self.Object, args)
	}
	return im.Method.CallValue(im.Self, args)
}

// Class は InstanceMethod クラスを返す。
func (im *InstanceMethod) Class() *Class { return InstanceMethodClass }

// Inspect は "<InstanceMethod String.toUpper>" 形式の文字列を返す。
func (im *InstanceMethod) Inspect() string {
	return fmt.Sprintf("<InstanceMethod %s.%s>", ClassNameOf(im.Self), im.Method.Name)
}

// Trace はレシーバを辿る。
func (im *InstanceMethod) Trace(mark func(gc.Traceable)) {
	im.Self.Trace(mark)
}
