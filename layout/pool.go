package layout

// Pool 复用字符布局记录，避免频繁重排时的重复分配。
// acquire/release 只是共享切片上的普通栈操作，因此 Pool 不支持
// 多协程并发使用；需要并发时由调用方自行加锁。
type Pool struct {
	free []*Record
}

// NewPool 预分配 n 条记录。
func NewPool(n int) *Pool {
	p := &Pool{free: make([]*Record, 0, n)}
	for i := 0; i < n; i++ {
		p.free = append(p.free, &Record{})
	}
	return p
}

// Get 取出一条干净的记录；池空时新建。
func (p *Pool) Get() *Record {
	if n := len(p.free); n > 0 {
		rec := p.free[n-1]
		p.free = p.free[:n-1]
		return rec
	}
	return &Record{}
}

// Put 归还记录。记录在归还时清零，调用方不得再持有引用。
func (p *Pool) Put(rec *Record) {
	if rec == nil {
		return
	}
	rec.reset()
	p.free = append(p.free, rec)
}

// Size 返回当前空闲记录数，主要供测试观察复用情况。
func (p *Pool) Size() int { return len(p.free) }
