package token

// Operator は演算子ノードが持つ演算子の種類。
// 二項・単項の両方をこの閉じた列挙で表す。
type Operator int

const (
	OpPlus Operator = iota
	OpMinus
	OpStar
	OpSlash
	OpPercent

	OpEquals
	OpNotEquals
	OpLess
	OpLessEquals
	OpGreater
	OpGreaterEquals

	OpAnd
	OpOr
	OpNot
)

var operatorNames = [...]string{
	OpPlus:          "+",
	OpMinus:         "-",
	OpStar:          "*",
	OpSlash:         "/",
	OpPercent:       "%",
	OpEquals:        "==",
	OpNotEquals:     "!=",
	OpLess:          "<",
	OpLessEquals:    "<=",
	OpGreater:       ">",
	OpGreaterEquals: ">=",
	OpAnd:           "and",
	OpOr:            "or",
	OpNot:           "not",
}

// String は演算子のソース上の表記を返す。
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return "?"
	}
	return operatorNames[op]
}

// operators はトークン型から演算子への対応表。
var operators = map[TokenType]Operator{
	PLUS:    OpPlus,
	MINUS:   OpMinus,
	STAR:    OpStar,
	SLASH:   OpSlash,
	PERCENT: OpPercent,
	EQ:      OpEquals,
	NOT_EQ:  OpNotEquals,
	LT:      OpLess,
	LT_EQ:   OpLessEquals,
	GT:      OpGreater,
	GT_EQ:   OpGreaterEquals,
	AND:     OpAnd,
	OR:      OpOr,
	NOT:     OpNot,
}

// LookupOperator はトークン型に対応する演算子を返す。
func LookupOperator(t TokenType) (Operator, bool) {
	op, ok := operators[t]
	return op, ok
}
