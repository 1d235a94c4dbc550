// Package lexer は whiskey 言語の字句解析器（レキサー）を実装するパッケージ。
// ソースコードの文字列を1文字ずつ読み進め、トークン列に変換する。
// 各トークンには出現位置（行・列）を記録し、構文エラーの報告に使う。
package lexer

import (
	"strings"

	"whiskey/token"
)

// Lexer はソースコードを保持し、読み取り位置を管理する。
type Lexer struct {
	input        string
	position     int  // 現在の文字の位置
	readPosition int  // 次に読む文字の位置
	ch           byte // 現在検査中の文字

	line   int // 現在の文字の行（1始まり）
	column int // 現在の文字の列（1始まり）
}

// New はソースコードからレキサーを生成する。
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar は次の文字を読み込み、行と列を更新する。
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// atEOF は入力をすべて読み終えたかどうかを返す。
// ソース中の NUL バイトは入力の終わりとは区別する。
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// peekChar は次の文字を読み進めずに返す。
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken は次のトークンを返す。
// 入力の終端では EOF トークンを返し続ける。
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := token.Position{Line: l.line, Column: l.column}
	var tok token.Token

	switch l.ch {
	case '=':
		tok = l.twoCharToken('=', token.EQ, token.ASSIGN)
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken('=', token.NOT_EQ, token.ILLEGAL)
		} else {
			tok = newToken(token.ILLEGAL, l.ch)
		}
	case '<':
		tok = l.twoCharToken('=', token.LT_EQ, token.LT)
	case '>':
		tok = l.twoCharToken('=', token.GT_EQ, token.GT)
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '*':
		tok = newToken(token.STAR, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case '%':
		tok = newToken(token.PERCENT, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case '.':
		tok = newToken(token.DOT, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '"', '\'':
		literal, ok := l.readString(l.ch)
		if !ok {
			tok = token.Token{Type: token.ILLEGAL, Literal: "unterminated string"}
		} else {
			tok = token.Token{Type: token.STRING, Literal: literal}
		}
	case 0:
		if l.atEOF() {
			tok = token.Token{Type: token.EOF, Literal: ""}
		} else {
			tok = newToken(token.ILLEGAL, l.ch)
		}
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Position = pos
			// readIdentifier は既に次の文字まで進めているので、ここで返す
			return tok
		} else if isDigit(l.ch) {
			tok.Type, tok.Literal = l.readNumber()
			tok.Position = pos
			return tok
		}
		tok = newToken(token.ILLEGAL, l.ch)
	}

	tok.Position = pos
	l.readChar()
	return tok
}

// twoCharToken は次の文字が second なら2文字トークン、そうでなければ1文字トークンを返す。
func (l *Lexer) twoCharToken(second byte, double, single token.TokenType) token.Token {
	if l.peekChar() == second {
		ch := l.ch
		l.readChar()
		return token.Token{Type: double, Literal: string(ch) + string(l.ch)}
	}
	return newToken(single, l.ch)
}

// skipWhitespaceAndComments は空白文字と # から行末までのコメントを読み飛ばす。
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\n', '\r':
			l.readChar()
		case '#':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier は英字・数字・アンダースコアが続く限り読み進める。
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber は整数または浮動小数点数のリテラルを読む。
// `1.foo` のように小数点の後が数字でない場合は整数で止め、
// ドットはメンバーアクセスとして残す。
func (l *Lexer) readNumber() (token.TokenType, string) {
	position := l.position
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		return token.INT, l.input[position:l.position]
	}

	kind := token.TokenType(token.INT)
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		kind = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			kind = token.FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return kind, l.input[position:l.position]
}

// readString は quote で囲まれた文字列リテラルを読み、エスケープを展開する。
// 閉じ引用符がなければ ok=false を返す。
func (l *Lexer) readString(quote byte) (string, bool) {
	var out strings.Builder
	for {
		l.readChar()
		if l.atEOF() {
			return "", false
		}
		switch l.ch {
		case quote:
			return out.String(), true
		case '\\':
			l.readChar()
			if l.atEOF() {
				return "", false
			}
			switch l.ch {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			case '0':
				out.WriteByte(0)
			default:
				out.WriteByte(l.ch)
			}
		default:
			out.WriteByte(l.ch)
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}

func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
