// environment.go は変数のスコープを管理する。
// Scope は変数名から値へのマッピングを持ち、
// outer フィールドで外側のスコープへのチェーンを形成する。
// これにより、レキシカルスコープ（静的スコープ）とクロージャが実現される。
package object

import (
	"errors"

	"whiskey/gc"
)

// ErrAlreadyDeclared は同じスコープで同名の変数を二重に宣言したときのエラー。
var ErrAlreadyDeclared = errors.New("identifier already declared")

// Scope は変数のスコープを表す構造体。
// store は現在のスコープの変数を保持し、
// outer は外側のスコープへの参照（なければnil）。
type Scope struct {
	store map[string]Value
	outer *Scope
}

// NewScope は新しい空のスコープを作成する。
// 組み込みスコープやセッションのトップレベルとして使用する。
func NewScope() *Scope {
	return &Scope{store: make(map[string]Value)}
}

// NewEnclosedScope は外側のスコープを持つ新しいスコープを作成する。
// シーケンスの評価や関数呼び出し時に使用し、
// 関数呼び出しでは定義時のスコープを outer として設定する（クロージャ）。
func NewEnclosedScope(outer *Scope) *Scope {
	s := NewScope()
	s.outer = outer
	return s
}

// Outer は外側のスコープを返す。
func (s *Scope) Outer() *Scope { return s.outer }

// DeclareLocal は現在のスコープに変数を宣言する。
// 既にこのスコープで宣言済みなら ErrAlreadyDeclared を返す。
// 外側のスコープにある同名の変数は隠される（シャドーイング）。
func (s *Scope) DeclareLocal(name string, v Value) error {
	if _, ok := s.store[name]; ok {
		return ErrAlreadyDeclared
	}
	s.store[name] = v
	return nil
}

// IsDeclaredLocally は現在のスコープだけを見て宣言済みかを返す。
func (s *Scope) IsDeclaredLocally(name string) bool {
	_, ok := s.store[name]
	return ok
}

// IsDeclared は外側のスコープも含めて宣言済みかを返す。
func (s *Scope) IsDeclared(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Get は変数名から値を検索する。
// 現在のスコープになければ外側のスコープを順に探す。
func (s *Scope) Get(name string) (Value, bool) {
	for scope := s; scope != nil; scope = scope.outer {
		if v, ok := scope.store[name]; ok {
			return v, true
		}
	}
	return NullValue, false
}

// Set は変数を宣言している最も内側のスコープで値を書き換える。
// どのスコープにも宣言がなければ false を返し、何も変更しない。
func (s *Scope) Set(name string, v Value) bool {
	for scope := s; scope != nil; scope = scope.outer {
		if _, ok := scope.store[name]; ok {
			scope.store[name] = v
			return true
		}
	}
	return false
}

// Len は現在のスコープで宣言されている変数の数を返す。
func (s *Scope) Len() int { return len(s.store) }

// Trace は束縛している全ての値と外側のスコープを辿る。
func (s *Scope) Trace(mark func(gc.Traceable)) {
	for _, v := range s.store {
		v.Trace(mark)
	}
	if s.outer != nil {
		mark(s.outer)
	}
}
