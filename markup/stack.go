package markup

// stack 是单个样式属性的压栈容器：开标签 push、闭标签 pop。
// 不变式：任意配平的 push/pop 序列结束后 current 等于 push 之前的值；
// 多余的 pop 是空操作，永远不会弹出基准值。
type stack[T any] struct {
	items []T
}

// reset 清空栈并放入基准值，每次解析开始时调用。
func (s *stack[T]) reset(base T) {
	s.items = s.items[:0]
	s.items = append(s.items, base)
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

// pop 弹出栈顶并返回新的当前值；栈中只剩基准值时不做任何事。
func (s *stack[T]) pop() T {
	if len(s.items) > 1 {
		s.items = s.items[:len(s.items)-1]
	}
	return s.items[len(s.items)-1]
}

func (s *stack[T]) current() T {
	return s.items[len(s.items)-1]
}

// toggle 是 bold/italic/underline/strike 使用的计数式开关：
// 重复的开标签叠加计数，属性在计数 >0 时生效；多余的闭标签被钳制在零。
type toggle struct {
	n int
}

func (t *toggle) reset()   { t.n = 0 }
func (t *toggle) open()    { t.n++ }
func (t *toggle) on() bool { return t.n > 0 }

func (t *toggle) close() {
	if t.n > 0 {
		t.n--
	}
}
