package evaluator

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"whiskey/ast"
	"whiskey/gc"
	"whiskey/object"
	"whiskey/parser"
)

// inBoundary はトップレベル評価の最中かどうか。
// コレクタの境界は入れ子にできない。
var inBoundary bool

// Option は Interpreter の設定を変更する関数。
type Option func(*Interpreter)

// WithLogger は実行ログの出力先を設定する。
func WithLogger(logger *slog.Logger) Option {
	return func(ip *Interpreter) { ip.logger = logger }
}

// WithOutput は console オブジェクトの出力先を設定する。
func WithOutput(out io.Writer) Option {
	return func(ip *Interpreter) { ip.out = out }
}

// WithParserTrace はパーサーの BEGIN/END トレースをロガーに出すかどうかを設定する。
func WithParserTrace(enabled bool) Option {
	return func(ip *Interpreter) { ip.traceParser = enabled }
}

// Interpreter はソース文字列を受け取り、パース → 評価 → コレクタの境界を
// この順で1回ずつ実行するトップレベルの入口。
// 組み込みスコープとセッションスコープを持ち、どちらもコレクタのルートになる。
// 並行に使ってはならない。
type Interpreter struct {
	id          uuid.UUID
	logger      *slog.Logger
	out         io.Writer
	traceParser bool
	parseOpts   []parser.Option

	builtins *object.Scope
	session  *object.Scope
	runs     int
}

// New は新しい Interpreter を生成する。
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{
		id:     uuid.New(),
		logger: slog.New(slog.DiscardHandler),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(ip)
	}
	if ip.traceParser {
		ip.parseOpts = append(ip.parseOpts, parser.WithTracer(ip.logger))
	}

	ip.builtins = newBuiltinScope(ip.out)
	ip.session = object.NewEnclosedScope(ip.builtins)
	object.Heap.AddRoot(ip.builtins)
	object.Heap.AddRoot(ip.session)
	return ip
}

// ID はセッションIDを返す。
func (ip *Interpreter) ID() uuid.UUID { return ip.id }

// Session はセッションスコープを返す。EvalPersistent の束縛はここに残る。
func (ip *Interpreter) Session() *object.Scope { return ip.session }

// Close は組み込みスコープとセッションスコープをコレクタのルートから外す。
// 以降の境界で、このインタプリタだけが参照していたオブジェクトは回収される。
func (ip *Interpreter) Close() {
	object.Heap.RemoveRoot(ip.builtins)
	object.Heap.RemoveRoot(ip.session)
}

// EvalString はソースを新しいスコープで評価する。
// 評価ごとにスコープは捨てられ、束縛は次の評価に残らない。
func (ip *Interpreter) EvalString(source string) object.Outcome {
	return ip.run(source, func(root *ast.Sequence) object.Outcome {
		return Eval(root, object.NewEnclosedScope(ip.builtins))
	})
}

// EvalPersistent はソースのトップレベルの文をセッションスコープで直接評価する。
// REPL のように、宣言した変数を次の評価でも使える。
func (ip *Interpreter) EvalPersistent(source string) object.Outcome {
	return ip.run(source, func(root *ast.Sequence) object.Outcome {
		return evalNodes(root.Children, ip.session)
	})
}

// run はパース、評価、コレクタの境界をこの順に1回ずつ実行する。
// パースに失敗した場合は評価せず、構文エラーを例外として返す。
func (ip *Interpreter) run(source string, eval func(*ast.Sequence) object.Outcome) object.Outcome {
	if inBoundary {
		panic("evaluator: top-level evaluation entered re-entrantly")
	}
	inBoundary = true
	defer func() { inBoundary = false }()

	ip.runs++
	start := time.Now()

	var result object.Outcome
	root, err := parser.Parse(source, ip.parseOpts...)
	if err != nil {
		result = object.Raise(object.NewSyntaxError(err))
	} else {
		result = eval(root)
	}

	stats := collect(result)
	ip.logger.Debug("evaluated",
		slog.String("session", ip.id.String()),
		slog.Int("run", ip.runs),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("failed", result.Failed()),
		slog.Int("live", stats.Live),
		slog.Int("reclaimed", stats.Reclaimed),
	)
	return result
}

// collect はコレクタの境界。全てのマークを消し、組み込みルートと
// 評価結果（値または例外）をマークしてから、マークのないものを回収する。
func collect(result object.Outcome) gc.Stats {
	heap := object.Heap
	heap.UnmarkAll()
	heap.MarkBuiltinRoots()
	result.Trace(heap.Mark)
	return heap.Collect()
}

var defaultInterpreter = sync.OnceValue(func() *Interpreter {
	return New()
})

// EvalString は標準出力に書き出す既定のインタプリタでソースを評価する。
func EvalString(source string) object.Outcome {
	return defaultInterpreter().EvalString(source)
}
