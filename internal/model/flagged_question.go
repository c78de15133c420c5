package model

// FlaggedQuestion 难题/错题记录：标记时刻题目内容的冗余快照加上标记人。
// 只追加，无唯一约束，同一题重复标记会产生多行。
// swagger:model FlaggedQuestion
type FlaggedQuestion struct {
	QuestionID      int64  `gorm:"column:question_id" json:"questionId"`
	Question        string `gorm:"column:question;type:text" json:"question"`
	AnswerA         string `gorm:"column:answer_a;type:text" json:"answerA"`
	AnswerB         string `gorm:"column:answer_b;type:text" json:"answerB"`
	AnswerC         string `gorm:"column:answer_c;type:text" json:"answerC"`
	AnswerD         string `gorm:"column:answer_d;type:text" json:"answerD"`
	AnswerE         string `gorm:"column:answer_e;type:text" json:"answerE"`
	AnswerF         string `gorm:"column:answer_f;type:text" json:"answerF"`
	SuggestedAnswer string `gorm:"column:suggested_answer;size:64" json:"suggestedAnswer"`
	URL             string `gorm:"column:url;size:512" json:"url"`
	InsertedBy      string `gorm:"column:inserted_by;size:255" json:"insertedBy"`
}

func (FlaggedQuestion) TableName() string {
	return "l2_snowpro_data_hard_or_wrong_questions"
}

// NewFlaggedQuestion 从题目生成快照
func NewFlaggedQuestion(q *Question, flaggedBy string) *FlaggedQuestion {
	return &FlaggedQuestion{
		QuestionID:      q.QuestionID,
		Question:        q.Question,
		AnswerA:         q.AnswerA,
		AnswerB:         q.AnswerB,
		AnswerC:         q.AnswerC,
		AnswerD:         q.AnswerD,
		AnswerE:         q.AnswerE,
		AnswerF:         q.AnswerF,
		SuggestedAnswer: q.FormattedSuggestedAnswer,
		URL:             q.URL,
		InsertedBy:      flaggedBy,
	}
}
