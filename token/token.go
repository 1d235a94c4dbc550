// Package token は whiskey 言語のトークン（字句）を定義するパッケージ。
// レキサーがソースコードを分割した最小単位がトークンであり、
// パーサーはこのトークン列を入力として構文解析を行う。
package token

import "fmt"

// TokenType はトークンの種類を文字列で表す型。
type TokenType string

const (
	ILLEGAL = "ILLEGAL" // 未知のトークン
	EOF     = "EOF"     // 入力の終端

	// 識別子 + リテラル
	IDENT  = "IDENT"  // add, foobar, x, y, ...
	INT    = "INT"    // 1343456, 0x1f
	FLOAT  = "FLOAT"  // 1.5, 2e10
	STRING = "STRING" // "foobar", 'foobar'

	// 演算子
	ASSIGN  = "="
	PLUS    = "+"
	MINUS   = "-"
	STAR    = "*"
	SLASH   = "/"
	PERCENT = "%"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	// デリミタ（区切り文字）
	COMMA     = ","
	SEMICOLON = ";"
	DOT       = "." // メンバーアクセス

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// キーワード
	FUNCTION = "FUNCTION"
	VAR      = "VAR"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NULL     = "NULL"
	AND      = "AND"
	OR       = "OR"
	NOT      = "NOT"
)

// Position はソースコード上の位置（1始まりの行と列）。
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token はトークンの型とリテラル値、出現位置の組。
type Token struct {
	Type     TokenType
	Literal  string
	Position Position
}

// keywords は whiskey 言語の予約語マップ。
var keywords = map[string]TokenType{
	"fn":    FUNCTION,
	"var":   VAR,
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
	"and":   AND,
	"or":    OR,
	"not":   NOT,
}

// LookupIdent は識別子が予約語かどうかを判定する。
// 予約語であればそのトークン型を、そうでなければIDENTを返す。
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
