package ax

import (
	"path"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// Criteria 属性名到期望值的匹配条件
//
// 字符串期望值按 shell 通配符比较 (*、?、[...])，大小写敏感；
// 其他期望值要求完全相等
type Criteria map[string]any

// Keys 返回排序后的属性名
func (c Criteria) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// slash 替换路径分隔符，path.Match 中 "*" 不匹配 "/"
const slash = "￿"

// Glob shell 风格通配符匹配
//
// 反斜杠和没有闭合的 "[" 按字面匹配
func Glob(value, pattern string) bool {
	ok, err := path.Match(strings.ReplaceAll(translate(pattern), "/", slash), strings.ReplaceAll(value, "/", slash))
	if err != nil {
		return value == pattern
	}
	return ok
}

// translate 将通配符模式转换为 path.Match 的语法
//
// 字符类中 "!" 开头表示取反，开头的 "]" 和首尾的 "-" 是普通字符
func translate(pattern string) string {
	var b strings.Builder
	n := len(pattern)
	for i := 0; i < n; {
		c := pattern[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
			i++
		case '[':
			j := i + 1
			if j < n && pattern[j] == '!' {
				j++
			}
			if j < n && pattern[j] == ']' {
				j++
			}
			for j < n && pattern[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				i++
				continue
			}
			class := pattern[i+1 : j]
			b.WriteByte('[')
			switch {
			case strings.HasPrefix(class, "!"):
				b.WriteByte('^')
				class = class[1:]
			case strings.HasPrefix(class, "^"):
				b.WriteString(`\^`)
				class = class[1:]
			}
			for k := 0; k < len(class); k++ {
				ch := class[k]
				switch {
				case ch == '\\' || ch == ']':
					b.WriteByte('\\')
					b.WriteByte(ch)
				case ch == '-' && (k == 0 || k == len(class)-1):
					b.WriteString(`\-`)
				default:
					b.WriteByte(ch)
				}
			}
			b.WriteByte(']')
			i = j + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// MatchValue 比较候选值与期望值
func MatchValue(candidate, want any) bool {
	if pattern, ok := want.(string); ok {
		s, ok := candidate.(string)
		if !ok {
			return false
		}
		return Glob(s, pattern)
	}
	want = normalize(want)
	candidate = normalize(candidate)
	if a, ok := candidate.(*Element); ok {
		b, ok := want.(*Element)
		return ok && a.Equal(b)
	}
	return reflect.DeepEqual(candidate, want)
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// Match 判断元素是否满足全部条件，元素缺少某个属性时不匹配
func (e *Element) Match(criteria Criteria) bool {
	names, err := e.AttributeNames()
	if err != nil {
		return false
	}
	for _, name := range criteria.Keys() {
		if !slices.Contains(names, name) {
			return false
		}
		value, err := e.attributeValue(name)
		if err != nil {
			return false
		}
		if !MatchValue(value, criteria[name]) {
			return false
		}
	}
	return true
}

// MatchFilter 返回可重复使用的匹配谓词
func MatchFilter(criteria Criteria) func(*Element) bool {
	c := make(Criteria, len(criteria))
	for k, v := range criteria {
		c[k] = v
	}
	return func(e *Element) bool {
		return e.Match(c)
	}
}
