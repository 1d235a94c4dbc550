// Package parser は whiskey 言語のパーサーを実装するパッケージ。
// Pratt Parser（トップダウン演算子順位解析法）を使って、
// トークン列をAST（抽象構文木）に変換する。
//
// Pratt Parserの核心的なアイデア:
// - 各トークンタイプに「前置解析関数」と「中置解析関数」を関連付ける
// - 演算子の優先順位（precedence）に基づいて正しい構文木を構築する
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"whiskey/ast"
	"whiskey/lexer"
	"whiskey/token"
)

// 演算子の優先順位を定数で定義する。
// 数値が大きいほど優先順位が高い。
// 例: * は + より優先順位が高いので、`1 + 2 * 3` は `1 + (2 * 3)` になる。
const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	OR          // or
	AND         // and
	EQUALS      // == または !=
	LESSGREATER // <, <=, >, >=
	SUM         // + または -
	PRODUCT     // *, /, %
	PREFIX      // -X, +X, not X
	CALL        // myFunction(X), x.name
)

// precedences はトークンタイプから優先順位への対応表。
var precedences = map[token.TokenType]int{
	token.ASSIGN:  ASSIGN,
	token.OR:      OR,
	token.AND:     AND,
	token.EQ:      EQUALS,
	token.NOT_EQ:  EQUALS,
	token.LT:      LESSGREATER,
	token.LT_EQ:   LESSGREATER,
	token.GT:      LESSGREATER,
	token.GT_EQ:   LESSGREATER,
	token.PLUS:    SUM,
	token.MINUS:   SUM,
	token.STAR:    PRODUCT,
	token.SLASH:   PRODUCT,
	token.PERCENT: PRODUCT,
	token.LPAREN:  CALL,
	token.DOT:     CALL,
}

type (
	// prefixParseFn は前置解析関数の型。
	// トークンが式の先頭に来た場合に呼ばれる（例: -5, not true, 識別子, リテラル）。
	prefixParseFn func() ast.Node
	// infixParseFn は中置解析関数の型。
	// 左辺の式を引数に取り、中置演算子の右辺を解析して完全な式を返す。
	infixParseFn func(ast.Node) ast.Node
)

// Parser は whiskey 言語のパーサー。
// レキサーからトークンを読み取り、ASTを構築する。
type Parser struct {
	l      *lexer.Lexer   // トークンを供給するレキサー
	errors []*SyntaxError // パース中に発生した構文エラー

	curToken  token.Token // 現在見ているトークン
	peekToken token.Token // 次のトークン（先読み用）

	// 各トークンタイプに対応する解析関数を登録するマップ
	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	tracer     *slog.Logger
	traceLevel int
}

// Option はパーサーの設定を変更する関数。
type Option func(*Parser)

// WithTracer は解析関数の入口と出口をデバッグログに出すロガーを設定する。
func WithTracer(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.tracer = logger
	}
}

// New はレキサーからパーサーを生成する。
// 各トークンタイプに対して適切な解析関数を登録し、
// 最初の2トークンを読み込んで curToken と peekToken をセットする。
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		l:      l,
		errors: []*SyntaxError{},
	}
	for _, opt := range opts {
		opt(p)
	}

	// 前置解析関数の登録
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.TRUE, p.parseBool)
	p.registerPrefix(token.FALSE, p.parseBool)
	p.registerPrefix(token.MINUS, p.parsePrefixOperator)
	p.registerPrefix(token.PLUS, p.parsePrefixOperator)
	p.registerPrefix(token.NOT, p.parsePrefixOperator)
	p.registerPrefix(token.LPAREN, p.parseSequence)
	p.registerPrefix(token.FUNCTION, p.parseFunction)

	// 中置解析関数の登録
	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR,
	} {
		p.registerInfix(t, p.parseInfixOperator)
	}
	p.registerInfix(token.ASSIGN, p.parseAssignment)
	p.registerInfix(token.DOT, p.parseMemberAccess)

	// '(' は呼び出しの中置演算子として扱う（例: add(1, 2)）
	p.registerInfix(token.LPAREN, p.parseCall)

	// curToken と peekToken の両方をセットするために2回読む
	p.nextToken()
	p.nextToken()

	return p
}

// Parse はソースコードをパースしてプログラムのルートノードを返す。
// 構文エラーがあれば最初のエラーを *SyntaxError として返す。
func Parse(source string, opts ...Option) (*ast.Sequence, error) {
	p := New(lexer.New(source), opts...)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return program, nil
}

// nextToken は次のトークンに進む。
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// curTokenIs は現在のトークンが指定された型か判定する。
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs は次のトークンが指定された型か判定する。
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek は次のトークンが期待する型であればトークンを進めてtrueを返す。
// 期待と違う場合はエラーを追加してfalseを返す。
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors はパース中に蓄積された構文エラーを返す。
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

func (p *Parser) errorf(pos token.Position, format string, a ...interface{}) {
	p.errors = append(p.errors, &SyntaxError{
		Message:  fmt.Sprintf(format, a...),
		Position: pos,
	})
}

// incompletef は入力の終わりに達したことが原因のエラーを追加する。
func (p *Parser) incompletef(pos token.Position, format string, a ...interface{}) {
	p.errorf(pos, format, a...)
	p.errors[len(p.errors)-1].Incomplete = true
}

// peekError は次のトークンが期待と違った場合にエラーを追加する。
func (p *Parser) peekError(t token.TokenType) {
	if p.peekTokenIs(token.EOF) {
		p.incompletef(p.peekToken.Position, "expected next token to be %s, got %s instead",
			t, p.peekToken.Type)
		return
	}
	p.errorf(p.peekToken.Position, "expected next token to be %s, got %s instead",
		t, p.peekToken.Type)
}

// noPrefixParseFnError はトークンに対応する前置解析関数がない場合のエラー。
func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.errorf(tok.Position, "illegal token %q", tok.Literal)
		return
	}
	if tok.Type == token.EOF {
		p.incompletef(tok.Position, "unexpected end of input")
		return
	}
	p.errorf(tok.Position, "no prefix parse function for %s found", tok.Type)
}

// =====================
// プログラムと文のパース
// =====================

// ParseProgram はプログラム全体をパースしてASTのルートノードを返す。
// プログラムは Program=true の Sequence として表現される。
func (p *Parser) ParseProgram() *ast.Sequence {
	program := &ast.Sequence{Token: p.curToken, Program: true}
	program.Children = []ast.Node{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Children = append(program.Children, stmt)
		}
		p.nextToken()
	}

	return program
}

// parseStatement は現在のトークンに応じて変数宣言または式をパースする。
// 末尾のセミコロンは省略可能。空の文（`;` だけ）は nil を返す。
func (p *Parser) parseStatement() ast.Node {
	defer p.untrace(p.trace("parseStatement"))

	var stmt ast.Node
	switch p.curToken.Type {
	case token.SEMICOLON:
		return nil
	case token.VAR:
		stmt = p.parseVar()
	default:
		stmt = p.parseExpression(LOWEST)
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

// parseVar は `var <identifier> [= <expression>]` をパースする。
func (p *Parser) parseVar() ast.Node {
	stmt := &ast.Var{Token: p.curToken}

	// var の次は識別子が来なければならない
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	// 初期化式は省略可能
	if !p.peekTokenIs(token.ASSIGN) {
		return stmt
	}
	p.nextToken()
	p.nextToken()

	stmt.Right = p.parseExpression(LOWEST)
	if stmt.Right == nil {
		return nil
	}

	return stmt
}

// parseNodeList は end トークンまでの文をパースする。
// 呼び出し時点の curToken は開き括弧で、終了時の curToken は end になる。
func (p *Parser) parseNodeList(end token.TokenType) []ast.Node {
	nodes := []ast.Node{}
	open := p.curToken

	p.nextToken()

	for !p.curTokenIs(end) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			nodes = append(nodes, stmt)
		}
		p.nextToken()
	}

	if !p.curTokenIs(end) {
		p.incompletef(open.Position, "unclosed %q: expected %s before end of input",
			open.Literal, end)
		return nil
	}

	return nodes
}

// =====================
// 式のパース（Pratt Parser の心臓部）
// =====================

// parseExpression はPratt Parserのメインループ。
// 1. まず現在のトークンに対応する前置解析関数を呼んで左辺の式を得る
// 2. 次のトークンの優先順位が現在の優先順位より高い間、
//    中置解析関数を呼んで左辺に演算子と右辺を結合していく
func (p *Parser) parseExpression(precedence int) ast.Node {
	defer p.untrace(p.trace("parseExpression"))

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	// 次のトークンがセミコロンでなく、かつ優先順位が引数より高い間ループ
	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

// peekPrecedence は次のトークンの優先順位を返す。
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

// curPrecedence は現在のトークンの優先順位を返す。
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

// =====================
// 各種式の解析関数
// =====================

// parseIdentifier は識別子をパースする。
func (p *Parser) parseIdentifier() ast.Node {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntLiteral は整数リテラルをパースする。
// 0x で始まるものは16進数、それ以外は10進数として解釈する。
func (p *Parser) parseIntLiteral() ast.Node {
	lit := &ast.Int{Token: p.curToken}

	literal := p.curToken.Literal
	base := 10
	if strings.HasPrefix(literal, "0x") || strings.HasPrefix(literal, "0X") {
		base = 0
	}
	value, err := strconv.ParseInt(literal, base, 64)
	if err != nil {
		p.errorf(p.curToken.Position, "could not parse %q as integer", literal)
		return nil
	}

	lit.Value = value

	return lit
}

// parseFloatLiteral は浮動小数点数リテラルをパースする。
func (p *Parser) parseFloatLiteral() ast.Node {
	lit := &ast.Float{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken.Position, "could not parse %q as float", p.curToken.Literal)
		return nil
	}

	lit.Value = value

	return lit
}

func (p *Parser) parseStringLiteral() ast.Node {
	return &ast.String{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNull() ast.Node {
	return &ast.Null{Token: p.curToken}
}

// parseBool はブーリアンリテラル（true/false）をパースする。
func (p *Parser) parseBool() ast.Node {
	return &ast.Bool{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parsePrefixOperator は単項演算子式（not x, -5 など）をパースする。
func (p *Parser) parsePrefixOperator() ast.Node {
	defer p.untrace(p.trace("parsePrefixOperator"))

	op, _ := token.LookupOperator(p.curToken.Type)
	expression := &ast.Operator{Token: p.curToken, Operator: op}

	p.nextToken()

	// PREFIX 優先順位で右辺をパース
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseInfixOperator は二項演算子式（5 + 10 など）をパースする。
// 左辺は引数として受け取り、現在のトークン（演算子）の優先順位で右辺をパースする。
func (p *Parser) parseInfixOperator(left ast.Node) ast.Node {
	defer p.untrace(p.trace("parseInfixOperator"))

	op, _ := token.LookupOperator(p.curToken.Type)
	expression := &ast.Operator{
		Token:    p.curToken,
		Operator: op,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseAssignment は `<left> = <right>` をパースする。
// 代入は右結合なので、右辺は1段低い優先順位でパースする。
func (p *Parser) parseAssignment(left ast.Node) ast.Node {
	expression := &ast.Assignment{Token: p.curToken, Left: left}

	p.nextToken()
	expression.Right = p.parseExpression(ASSIGN - 1)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseSequence は括弧で囲まれた式の列 `(a; b; c)` をパースする。
// 括弧は単一の式でも Sequence ノードとして AST に残る。
func (p *Parser) parseSequence() ast.Node {
	defer p.untrace(p.trace("parseSequence"))

	seq := &ast.Sequence{Token: p.curToken}
	children := p.parseNodeList(token.RPAREN)
	if children == nil {
		return nil
	}
	seq.Children = children

	return seq
}

// parseFunction は `fn(<params>) { <body> }` をパースする。
func (p *Parser) parseFunction() ast.Node {
	defer p.untrace(p.trace("parseFunction"))

	lit := &ast.Function{Token: p.curToken}

	// fn の後に ( が来なければならない
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	lit.Parameters = p.parseFunctionParameters()
	if lit.Parameters == nil {
		return nil
	}

	// パラメータリストの後に { が来なければならない
	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	lit.Body = p.parseNodeList(token.RBRACE)
	if lit.Body == nil {
		return nil
	}

	return lit
}

// parseFunctionParameters は関数のパラメータリスト `(x, y, z)` をパースする。
func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	// パラメータが0個の場合: fn() { ... }
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers
	}

	// 最初のパラメータ
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	// カンマ区切りで残りのパラメータを読む
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return identifiers
}

// parseCall は呼び出し `<expression>(<args>)` をパースする。
func (p *Parser) parseCall(left ast.Node) ast.Node {
	defer p.untrace(p.trace("parseCall"))

	exp := &ast.Call{Token: p.curToken, Left: left}
	exp.Arguments = p.parseCallArguments()
	if exp.Arguments == nil {
		return nil
	}
	return exp
}

// parseCallArguments は呼び出しの引数リスト `(a, b, c)` をパースする。
func (p *Parser) parseCallArguments() []ast.Node {
	args := []ast.Node{}

	// 引数が0個の場合: add()
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	// 最初の引数
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	args = append(args, arg)

	// カンマ区切りで残りの引数を読む
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // カンマを飛ばす
		p.nextToken() // 次の引数へ
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return args
}

// parseMemberAccess は `<expression>.<name>` をパースする。
func (p *Parser) parseMemberAccess(left ast.Node) ast.Node {
	exp := &ast.MemberAccess{Token: p.curToken, Left: left}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Name = p.curToken.Literal

	return exp
}

// registerPrefix は前置解析関数を登録するヘルパー。
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix は中置解析関数を登録するヘルパー。
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
