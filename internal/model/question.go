package model

import "strings"

// Question SnowPro 题库行。题库由上游数据管道维护，本服务只读。
// swagger:model Question
type Question struct {
	QuestionID               int64  `gorm:"column:question_id;primaryKey" json:"questionId"`
	Question                 string `gorm:"column:question;type:text" json:"question"`
	AnswerA                  string `gorm:"column:answer_a;type:text" json:"answerA"`
	AnswerB                  string `gorm:"column:answer_b;type:text" json:"answerB"`
	AnswerC                  string `gorm:"column:answer_c;type:text" json:"answerC"`
	AnswerD                  string `gorm:"column:answer_d;type:text" json:"answerD"`
	AnswerE                  string `gorm:"column:answer_e;type:text" json:"answerE"`
	AnswerF                  string `gorm:"column:answer_f;type:text" json:"answerF"`
	FormattedSuggestedAnswer string `gorm:"column:formatted_suggested_answer;size:64" json:"formattedSuggestedAnswer"`
	URL                      string `gorm:"column:url;size:512" json:"url"`
	IsShowed                 string `gorm:"column:is_showed;size:1" json:"-"`
}

func (Question) TableName() string {
	return "l2_snowpro_data_for_streamlit"
}

// Option 一个可勾选的选项
type Option struct {
	Label Label  `json:"label"`
	Text  string `json:"text"`
}

// Options 返回可渲染的选项：去除空白后文本非空的标签，按 A-F 顺序。
func (q *Question) Options() []Option {
	texts := []string{q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD, q.AnswerE, q.AnswerF}
	opts := make([]Option, 0, len(AllLabels))
	for i, label := range AllLabels {
		if text := strings.TrimSpace(texts[i]); text != "" {
			opts = append(opts, Option{Label: label, Text: text})
		}
	}
	return opts
}

// CorrectSet 解析 formatted_suggested_answer（如 "A, C"）得到正确标签集合。
// 空串或无法解析按空集处理，判分永远不会因脏数据失败。
func (q *Question) CorrectSet() LabelSet {
	return ParseLabelSet(q.FormattedSuggestedAnswer)
}
