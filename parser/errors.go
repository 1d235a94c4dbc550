package parser

import (
	"errors"
	"fmt"

	"whiskey/token"
)

// SyntaxError はパース中に検出された構文エラー。
// Position はエラーの原因となったトークンの位置。
// Incomplete は入力が途中で終わったために起きたエラーかどうか。
// REPL はこれを見て、続きの行を読むかどうかを決める。
type SyntaxError struct {
	Message    string
	Position   token.Position
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

// IsIncomplete は err が入力の途中終了による構文エラーかどうかを返す。
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Incomplete
}
