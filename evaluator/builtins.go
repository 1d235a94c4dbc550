// builtins.go は whiskey 言語の組み込みオブジェクトを定義する。
// これらはユーザーが定義しなくても最初から組み込みスコープに束縛されている。
//
// 呼び出せる値はクロージャと束縛メソッドだけなので、組み込みの機能は
// 組み込みオブジェクトのメソッドとして提供する。
//
// 組み込みオブジェクト一覧:
// - console.print: 引数を空白区切りで出力する
// - console.println: print に加えて改行を出力する
package evaluator

import (
	"fmt"
	"io"
	"strings"

	"whiskey/gc"
	"whiskey/object"
)

// ConsoleClass は console オブジェクトのクラス。
var ConsoleClass = object.NewClass("Console", object.ObjectClass)

func init() {
	// print は引数の文字列表現を空白区切りで出力する。常に null を返す。
	ConsoleClass.AddMethod("print", -1, func(self object.Value, args []object.Value) object.Outcome {
		return self.Object.(*Console).write(args, "")
	})
	// println は print と同じだが、最後に改行を出力する。
	ConsoleClass.AddMethod("println", -1, func(self object.Value, args []object.Value) object.Outcome {
		return self.Object.(*Console).write(args, "\n")
	})
}

// Console は出力先を持つ組み込みオブジェクト。
type Console struct {
	out io.Writer
}

// NewConsole は out に書き出す console オブジェクトを生成する。
func NewConsole(out io.Writer) *Console {
	c := &Console{out: out}
	object.Heap.Track(c)
	return c
}

// Class は Console クラスを返す。
func (c *Console) Class() *object.Class { return ConsoleClass }

// Inspect は "<Console>" を返す。
func (c *Console) Inspect() string { return "<Console>" }

// Trace は何も辿らない。
func (c *Console) Trace(func(gc.Traceable)) {}

func (c *Console) write(args []object.Value, end string) object.Outcome {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Inspect()
	}
	if _, err := io.WriteString(c.out, strings.Join(parts, " ")+end); err != nil {
		return object.RaiseNew(fmt.Sprintf("console: %v", err))
	}
	return object.NullOutcome
}

// newBuiltinScope は組み込みオブジェクトを束縛したスコープを作る。
// 全てのトップレベル評価のスコープはこのスコープを外側に持つ。
func newBuiltinScope(out io.Writer) *object.Scope {
	scope := object.NewScope()
	if err := scope.DeclareLocal("console", object.ObjectValue(NewConsole(out))); err != nil {
		panic(fmt.Sprintf("evaluator: builtin console: %v", err))
	}
	return scope
}
