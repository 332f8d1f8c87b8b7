package ax

import (
	"iter"

	"go.uber.org/zap"
)

// Walk 深度优先遍历子元素 (先序，父节点先于子节点，兄弟按原生顺序)
//
// recursive 为 false 时只遍历直接子元素；每个节点的 AXChildren 在访问时读取一次，
// 没有 AXChildren 属性的节点在此终止；读取子元素失败的分支被跳过
func (e *Element) Walk(recursive bool) iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		e.walk(recursive, yield)
	}
}

func (e *Element) walk(recursive bool, yield func(*Element) bool) bool {
	children, err := e.Children()
	if err != nil {
		e.sys.log.Debug("读取子元素失败，跳过分支", zap.Error(err))
		return true
	}
	for _, child := range children {
		if !yield(child) {
			return false
		}
		if recursive && !child.walk(true, yield) {
			return false
		}
	}
	return true
}

// FindAll 惰性返回匹配条件的直接子元素，每次迭代重新遍历
func (e *Element) FindAll(criteria Criteria) iter.Seq[*Element] {
	return e.findAll(false, criteria)
}

// FindAllR 惰性返回匹配条件的所有后代元素
func (e *Element) FindAllR(criteria Criteria) iter.Seq[*Element] {
	return e.findAll(true, criteria)
}

func (e *Element) findAll(recursive bool, criteria Criteria) iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		filter := MatchFilter(criteria)
		for el := range e.Walk(recursive) {
			if filter(el) && !yield(el) {
				return
			}
		}
	}
}

// FindFirst 返回第一个匹配条件的直接子元素，没有时返回 nil
func (e *Element) FindFirst(criteria Criteria) *Element {
	return first(e.FindAll(criteria))
}

// FindFirstR 返回第一个匹配条件的后代元素，没有时返回 nil
func (e *Element) FindFirstR(criteria Criteria) *Element {
	return first(e.FindAllR(criteria))
}

// Collect 将惰性结果收集为切片
func Collect(seq iter.Seq[*Element]) []*Element {
	var out []*Element
	for el := range seq {
		out = append(out, el)
	}
	return out
}

func first(seq iter.Seq[*Element]) *Element {
	for el := range seq {
		return el
	}
	return nil
}
