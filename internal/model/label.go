package model

import (
	"sort"
	"strings"
)

// Label 选项标签，取值固定为 A-F
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
	LabelE Label = "E"
	LabelF Label = "F"
)

// AllLabels 渲染顺序固定
var AllLabels = []Label{LabelA, LabelB, LabelC, LabelD, LabelE, LabelF}

func IsValidLabel(l Label) bool {
	for _, v := range AllLabels {
		if v == l {
			return true
		}
	}
	return false
}

// LabelSet 选项标签集合。语义上是集合（顺序与相等判断无关），
// 但始终以排序后的形式保存，保证序列化结果稳定。
// l2_user_answers.answer 列的唯一序列化格式是 ", " 连接，
// 反序列化按 "," 拆分并逐项去除空白，其余地方不允许手拼字符串。
type LabelSet []Label

// NewLabelSet 构造集合：去重、丢弃非法标签并排序。
func NewLabelSet(labels ...Label) LabelSet {
	seen := make(map[Label]bool, len(labels))
	var s LabelSet
	for _, l := range labels {
		l = Label(strings.ToUpper(strings.TrimSpace(string(l))))
		if !IsValidLabel(l) || seen[l] {
			continue
		}
		seen[l] = true
		s = append(s, l)
	}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s
}

// ParseLabelSet 反序列化。空串或无法解析的内容按空集处理。
func ParseLabelSet(raw string) LabelSet {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	labels := make([]Label, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, Label(p))
	}
	return NewLabelSet(labels...)
}

// String 序列化为存储格式
func (s LabelSet) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// Equal 集合相等：元素一致即相等，与顺序无关
func (s LabelSet) Equal(other LabelSet) bool {
	if len(s) != len(other) {
		return false
	}
	a := NewLabelSet(s...)
	b := NewLabelSet(other...)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s LabelSet) Contains(l Label) bool {
	for _, v := range s {
		if v == l {
			return true
		}
	}
	return false
}

func (s LabelSet) IsEmpty() bool {
	return len(s) == 0
}
