package model

import "time"

// UserAnswer 用户当前勾选，按 (user_id, question_id) 复合主键唯一。
// 行在第一次非空勾选时创建，变更时 UPSERT，全部取消勾选或整体重置时删除。
// swagger:model UserAnswer
type UserAnswer struct {
	UserID           string    `gorm:"column:user_id;primaryKey;size:255" json:"userId"`
	QuestionID       int64     `gorm:"column:question_id;primaryKey" json:"questionId"`
	Answer           string    `gorm:"column:answer;size:64" json:"answer"`
	InsertedDatetime time.Time `gorm:"column:inserted_datetime" json:"insertedDatetime"`
}

func (UserAnswer) TableName() string {
	return "l2_user_answers"
}

// Labels 反序列化 answer 列
func (a *UserAnswer) Labels() LabelSet {
	return ParseLabelSet(a.Answer)
}
