package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]*)\}`)

// Interpolate 在标记文本送入解析器之前，将其中的 ${path} 占位符替换
// 为 data 中对应的值。路径支持点号字段与 [n] 下标，如 ${user.tags[0]}。
// data 为空或路径无法解析时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		path := strings.TrimSpace(m[2 : len(m)-1])
		if path == "" {
			return m
		}
		val, ok := Lookup(data, path)
		if !ok {
			return m
		}
		return fmt.Sprint(val)
	})
}

// Lookup 在反序列化后的 JSON 值（map[string]any / []any 嵌套）中按
// 路径取值。
func Lookup(data any, path string) (any, bool) {
	cur := data
	for _, seg := range strings.Split(path, ".") {
		for seg != "" {
			if seg[0] == '[' {
				end := strings.IndexByte(seg, ']')
				if end < 0 {
					return nil, false
				}
				idx, err := strconv.Atoi(seg[1:end])
				if err != nil {
					return nil, false
				}
				arr, ok := cur.([]any)
				if !ok || idx < 0 || idx >= len(arr) {
					return nil, false
				}
				cur = arr[idx]
				seg = seg[end+1:]
				continue
			}
			name := seg
			if i := strings.IndexByte(seg, '['); i >= 0 {
				name, seg = seg[:i], seg[i:]
			} else {
				seg = ""
			}
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = obj[name]; !ok {
				return nil, false
			}
		}
	}
	return cur, true
}
