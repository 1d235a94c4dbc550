// Package repl は whiskey 言語のREPL（Read-Eval-Print Loop）を実装するパッケージ。
// ユーザーが入力したコードを字句解析 → 構文解析 → 評価し、結果を表示する。
// 括弧や関数本体が閉じていない間は続きの行を読み、まとめて1回評価する。
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"whiskey/evaluator"
	"whiskey/object"
	"whiskey/parser"
)

// 既定のプロンプト文字列。
const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// GLASS は構文エラー時に表示されるグラスのアスキーアート。
const GLASS = `   _________
   \       /
    \_____/
      | |
      | |
    _/___\_
`

const helpText = `:help   show this message
:quit   leave the REPL
`

// Options はREPLの設定。
type Options struct {
	Prompt       string
	Continuation string
	Color        bool
	// HistoryPath は対話モードで履歴を保存するファイル。空なら保存しない。
	HistoryPath string
	// Interpreter は評価に使うインタプリタ。nil なら出力先に書き出す新しいものを作る。
	Interpreter *evaluator.Interpreter
}

func (o *Options) setDefaults(out io.Writer) {
	if o.Prompt == "" {
		o.Prompt = PROMPT
	}
	if o.Continuation == "" {
		o.Continuation = CONTINUATION
	}
	if o.Interpreter == nil {
		o.Interpreter = evaluator.New(evaluator.WithOutput(out))
	}
}

// lineReader は1行ずつ入力を読む。入力の終わりでは io.EOF を返す。
type lineReader interface {
	ReadLine(prompt string) (string, error)
}

// streamReader は行の長さに上限を設けずにストリームから1行ずつ読む。
type streamReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r streamReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

type linerReader struct {
	state *liner.State
}

func (r linerReader) ReadLine(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

// Start はREPLを起動する。
// 入力ストリームからコードを読み取り、評価結果を出力ストリームに書き出す。
// セッションスコープをループ全体で共有することで、変数束縛がセッション中持続する。
func Start(in io.Reader, out io.Writer, opts Options) error {
	opts.setDefaults(out)
	r := streamReader{in: bufio.NewReader(in), out: out}
	return loop(r, out, opts, nil)
}

// StartInteractive は行編集と履歴付きのREPLを標準入出力で起動する。
func StartInteractive(opts Options) error {
	opts.setDefaults(os.Stdout)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if opts.HistoryPath != "" {
		if f, err := os.Open(opts.HistoryPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Println("whiskey REPL. Type :help for commands.")
	return loop(linerReader{state: ln}, os.Stdout, opts, func(code string) {
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	})
}

// loop は入力が尽きるか :quit が入力されるまで、読み取りと評価を繰り返す。
func loop(r lineReader, out io.Writer, opts Options, onEval func(code string)) error {
	p := newPrinter(out, opts.Color)

	for {
		code, err := readByParseProbe(r, opts.Prompt, opts.Continuation)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: read: %w", err)
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":help":
				io.WriteString(out, helpText)
			default:
				fmt.Fprintf(out, "unknown command %s. Type :help for commands.\n", trimmed)
			}
			continue
		}

		p.print(opts.Interpreter.EvalPersistent(code))
		if onEval != nil {
			onEval(code)
		}
	}
}

// readByParseProbe は試しにパースしながら行を読み進める。
// 入力が途中で終わっているだけなら続きの行を読み、そうでなければその時点の入力を返す。
// Ctrl-C で中断された場合は、読みかけの入力を捨てて空文字を返す。
func readByParseProbe(r lineReader, prompt, cont string) (string, error) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}

		line, err := r.ReadLine(current)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", nil
		}
		if errors.Is(err, io.EOF) && b.Len() > 0 {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := parser.Parse(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, nil
	}
}

// printer は評価結果を色付きで出力する。
type printer struct {
	out       io.Writer
	value     *color.Color
	exception *color.Color
	muted     *color.Color
}

func newPrinter(out io.Writer, useColor bool) printer {
	p := printer{
		out:       out,
		value:     color.New(color.FgGreen),
		exception: color.New(color.FgRed, color.Bold),
		muted:     color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.value, p.exception, p.muted} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// print は値なら値を、例外なら例外を出力する。構文エラーにはグラスのAAを添える。
func (p printer) print(result object.Outcome) {
	if !result.Failed() {
		p.value.Fprintln(p.out, result.Value.Inspect())
		return
	}

	if result.Exception.InstanceOf(object.SyntaxErrorClass) {
		p.muted.Fprint(p.out, GLASS)
		p.muted.Fprintln(p.out, "Hic! That did not parse:")
	}
	p.exception.Fprintln(p.out, result.Exception.Inspect())
}
