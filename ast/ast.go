// Package ast は whiskey 言語の抽象構文木（AST）を定義するパッケージ。
// パーサーがトークン列から変換した結果がこのASTになる。
// whiskey には文と式の区別がなく、全てのノードが値を持つ式として評価される。
// ノードの種類は閉じた集合であり、パッケージ外から新しい種類を追加することはできない。
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"whiskey/token"
)

// Node はASTの全ノードが実装する基本インターフェース。
// TokenLiteral() はデバッグ用にトークンのリテラル値を返す。
// String() はノードを人間が読める文字列に変換する。
// Pos() はノードのソース上の位置を返す。
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
	node()
}

// =====================
// リテラル
// =====================

// Null は null リテラルを表す。
type Null struct {
	Token token.Token
}

func (n *Null) node()                {}
func (n *Null) TokenLiteral() string { return n.Token.Literal }
func (n *Null) String() string       { return "null" }
func (n *Null) Pos() token.Position  { return n.Token.Position }

// Bool は true/false のブーリアンリテラルを表す。
type Bool struct {
	Token token.Token
	Value bool
}

func (b *Bool) node()                {}
func (b *Bool) TokenLiteral() string { return b.Token.Literal }
func (b *Bool) String() string       { return strconv.FormatBool(b.Value) }
func (b *Bool) Pos() token.Position  { return b.Token.Position }

// Int は整数リテラル（例: 5, 0x1f）を表す。
type Int struct {
	Token token.Token
	Value int64
}

func (il *Int) node()                {}
func (il *Int) TokenLiteral() string { return il.Token.Literal }
func (il *Int) String() string       { return strconv.FormatInt(il.Value, 10) }
func (il *Int) Pos() token.Position  { return il.Token.Position }

// Float は浮動小数点数リテラル（例: 1.5, 2e3）を表す。
type Float struct {
	Token token.Token
	Value float64
}

func (fl *Float) node()                {}
func (fl *Float) TokenLiteral() string { return fl.Token.Literal }
func (fl *Float) String() string       { return strconv.FormatFloat(fl.Value, 'g', -1, 64) }
func (fl *Float) Pos() token.Position  { return fl.Token.Position }

// String は文字列リテラルを表す。Value はエスケープ展開後の内容。
type String struct {
	Token token.Token
	Value string
}

func (s *String) node()                {}
func (s *String) TokenLiteral() string { return s.Token.Literal }
func (s *String) String() string       { return strconv.Quote(s.Value) }
func (s *String) Pos() token.Position  { return s.Token.Position }

// =====================
// 変数
// =====================

// Identifier は変数名などの識別子を表す。
type Identifier struct {
	Token token.Token // token.IDENT トークン
	Value string
}

func (i *Identifier) node()                {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Position  { return i.Token.Position }

// Var は `var x = <expression>` という変数宣言を表す。
// Right は初期化式で、省略された場合は nil。
type Var struct {
	Token token.Token // token.VAR トークン
	Name  string
	Right Node
}

func (v *Var) node()                {}
func (v *Var) TokenLiteral() string { return v.Token.Literal }
func (v *Var) Pos() token.Position  { return v.Token.Position }

// String は `var <name> = <right>` の形式で文字列を返す。
func (v *Var) String() string {
	var out bytes.Buffer

	out.WriteString("var ")
	out.WriteString(v.Name)

	if v.Right != nil {
		out.WriteString(" = ")
		out.WriteString(v.Right.String())
	}

	return out.String()
}

// Assignment は `<left> = <right>` という代入を表す。
// Left が代入可能かどうかは評価時に検査する。
type Assignment struct {
	Token token.Token // '=' トークン
	Left  Node
	Right Node
}

func (a *Assignment) node()                {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Pos() token.Position  { return a.Token.Position }

func (a *Assignment) String() string {
	return "(" + a.Left.String() + " = " + a.Right.String() + ")"
}

// =====================
// 複合ノード
// =====================

// Sequence は括弧で囲まれた式の列 `(a; b; c)` を表す。
// プログラム全体も Program=true の Sequence として表現される。
type Sequence struct {
	Token    token.Token // '(' トークン、またはプログラム先頭のトークン
	Children []Node
	Program  bool
}

func (s *Sequence) node()                {}
func (s *Sequence) TokenLiteral() string { return s.Token.Literal }
func (s *Sequence) Pos() token.Position  { return s.Token.Position }

// String は子ノードを "; " で連結して返す。
// プログラムでなければ括弧で囲む。
func (s *Sequence) String() string {
	body := joinNodes(s.Children, "; ")
	if s.Program {
		return body
	}
	return "(" + body + ")"
}

// Operator は単項・二項演算子式を表す。
// Left が nil なら単項演算子（例: -x, not b）。
type Operator struct {
	Token    token.Token // 演算子トークン
	Left     Node
	Operator token.Operator
	Right    Node
}

func (o *Operator) node()                {}
func (o *Operator) TokenLiteral() string { return o.Token.Literal }
func (o *Operator) Pos() token.Position  { return o.Token.Position }

// IsUnary は単項演算子かどうかを返す。
func (o *Operator) IsUnary() bool { return o.Left == nil }

// String は `(<left> <op> <right>)` または `(<op> <right>)` の形式で返す。
func (o *Operator) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	if o.Left != nil {
		out.WriteString(o.Left.String())
		out.WriteString(" ")
	}
	out.WriteString(o.Operator.String())
	if o.Left != nil || o.Operator == token.OpNot {
		out.WriteString(" ")
	}
	out.WriteString(o.Right.String())
	out.WriteString(")")

	return out.String()
}

// Function は関数リテラル `fn(<params>) { <body> }` を表す。
// 関数は第一級の値であり、評価するとクロージャが生成される。
type Function struct {
	Token      token.Token // 'fn' トークン
	Parameters []*Identifier
	Body       []Node
}

func (fl *Function) node()                {}
func (fl *Function) TokenLiteral() string { return fl.Token.Literal }
func (fl *Function) Pos() token.Position  { return fl.Token.Position }

// String は `fn(<params>) { <body> }` の形式で返す。
func (fl *Function) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fl.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("fn(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") { ")
	out.WriteString(joinNodes(fl.Body, "; "))
	out.WriteString(" }")

	return out.String()
}

// Call は呼び出し `<left>(<args>)` を表す。
// Left は関数や束縛メソッドに評価される任意の式。
type Call struct {
	Token     token.Token // '(' トークン
	Left      Node
	Arguments []Node
}

func (c *Call) node()                {}
func (c *Call) TokenLiteral() string { return c.Token.Literal }
func (c *Call) Pos() token.Position  { return c.Token.Position }

// String は `<left>(<args>)` の形式で返す。
func (c *Call) String() string {
	return c.Left.String() + "(" + joinNodes(c.Arguments, ", ") + ")"
}

// MemberAccess はメンバーアクセス `<left>.<name>` を表す。
type MemberAccess struct {
	Token token.Token // '.' トークン
	Left  Node
	Name  string
}

func (m *MemberAccess) node()                {}
func (m *MemberAccess) TokenLiteral() string { return m.Token.Literal }
func (m *MemberAccess) Pos() token.Position  { return m.Token.Position }
func (m *MemberAccess) String() string       { return m.Left.String() + "." + m.Name }

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, sep)
}
