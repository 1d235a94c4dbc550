// parser_tracing.go はパーサーのデバッグ用トレーシング機能を提供する。
// WithTracer でロガーが設定されている場合だけ、各解析関数の入口と出口で
// デバッグレベルのログを出力する。設定がなければ何もしない。
package parser

import (
	"context"
	"log/slog"
	"strings"
)

const traceIdentPlaceholder string = "\t"

// identLevel は現在のトレースレベルに応じたインデント文字列を返す。
func (p *Parser) identLevel() string {
	return strings.Repeat(traceIdentPlaceholder, p.traceLevel-1)
}

// tracePrint はインデント付きでメッセージをログに出す。
func (p *Parser) tracePrint(fs string) {
	p.tracer.LogAttrs(context.Background(), slog.LevelDebug, p.identLevel()+fs,
		slog.String("token", p.curToken.Literal),
		slog.String("pos", p.curToken.Position.String()),
	)
}

func (p *Parser) incIdent() { p.traceLevel = p.traceLevel + 1 }
func (p *Parser) decIdent() { p.traceLevel = p.traceLevel - 1 }

// trace は解析関数の入口で呼ぶ。"BEGIN <msg>" を出力してインデントを増やす。
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.incIdent()
	p.tracePrint("BEGIN " + msg)
	return msg
}

// untrace は解析関数の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracePrint("END " + msg)
	p.decIdent()
}
