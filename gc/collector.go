// Package gc はトップレベル評価の境界で一度だけ実行される
// stop-the-world のマーク・スイープ型コレクタを実装するパッケージ。
//
// メモリそのものの解放は Go のランタイムに任せ、このパッケージは
// 「どのオブジェクトがまだ言語から到達可能か」という登録簿を管理する。
// 到達不能になったオブジェクトは Collect で登録簿から取り除かれる。
package gc

// Traceable はコレクタが辿れる値。
// Trace は自分が直接参照している Traceable を mark に渡す。
type Traceable interface {
	Trace(mark func(Traceable))
}

// Stats は Collect 1回分の結果。
type Stats struct {
	Live      int // 生き残ったオブジェクト数
	Reclaimed int // 登録簿から取り除いたオブジェクト数
}

// Collector は追跡中のオブジェクトとルート集合を保持する。
// 単一スレッドでの利用を前提とし、ロックは持たない。
type Collector struct {
	objects map[Traceable]struct{}
	roots   map[Traceable]struct{}
	marked  map[Traceable]struct{}
}

// NewCollector は空のコレクタを生成する。
func NewCollector() *Collector {
	return &Collector{
		objects: make(map[Traceable]struct{}),
		roots:   make(map[Traceable]struct{}),
		marked:  make(map[Traceable]struct{}),
	}
}

// Track は新しく生成されたオブジェクトを登録簿に加える。
func (c *Collector) Track(t Traceable) {
	c.objects[t] = struct{}{}
}

// IsTracked は t がまだ登録簿にあるかを返す。
func (c *Collector) IsTracked(t Traceable) bool {
	_, ok := c.objects[t]
	return ok
}

// Len は追跡中のオブジェクト数を返す。
func (c *Collector) Len() int {
	return len(c.objects)
}

// AddRoot は組み込みルートを登録する。
// ルートから到達できるものは常に生き残る。
func (c *Collector) AddRoot(t Traceable) {
	c.roots[t] = struct{}{}
}

// RemoveRoot は組み込みルートの登録を解除する。
func (c *Collector) RemoveRoot(t Traceable) {
	delete(c.roots, t)
}

// UnmarkAll は全てのマークを消す。
func (c *Collector) UnmarkAll() {
	c.marked = make(map[Traceable]struct{}, len(c.marked))
}

// MarkBuiltinRoots は登録済みの組み込みルートをマークする。
func (c *Collector) MarkBuiltinRoots() {
	for root := range c.roots {
		c.Mark(root)
	}
}

// Mark は t と、t から推移的に到達できる全てのものをマークする。
// 循環参照（スコープとそれを捕捉したクロージャなど）でも停止する。
func (c *Collector) Mark(t Traceable) {
	if t == nil {
		return
	}
	stack := []Traceable{t}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := c.marked[top]; ok {
			continue
		}
		c.marked[top] = struct{}{}
		top.Trace(func(child Traceable) {
			if child == nil {
				return
			}
			if _, ok := c.marked[child]; !ok {
				stack = append(stack, child)
			}
		})
	}
}

// IsMarked は t が現在マークされているかを返す。
func (c *Collector) IsMarked(t Traceable) bool {
	_, ok := c.marked[t]
	return ok
}

// Collect はマークされていない全てのオブジェクトを登録簿から取り除く。
func (c *Collector) Collect() Stats {
	var stats Stats
	for obj := range c.objects {
		if _, ok := c.marked[obj]; ok {
			stats.Live++
			continue
		}
		delete(c.objects, obj)
		stats.Reclaimed++
	}
	return stats
}
