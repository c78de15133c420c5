package repository

import (
	"time"

	"snowpro_quiz_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// GetAnswers 返回某用户全部已存答案，question_id -> 标签集合。无记录时返回空 map。
func (r *AnswerRepository) GetAnswers(userID string) (map[int64]model.LabelSet, error) {
	var rows []model.UserAnswer
	if err := r.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	answers := make(map[int64]model.LabelSet, len(rows))
	for i := range rows {
		answers[rows[i].QuestionID] = rows[i].Labels()
	}
	return answers, nil
}

// Upsert 写入勾选。单条 INSERT ... ON DUPLICATE KEY UPDATE，
// 以复合主键 (user_id, question_id) 做冲突消解，不走应用侧读改写。
func (r *AnswerRepository) Upsert(userID string, questionID int64, labels model.LabelSet) error {
	row := model.UserAnswer{
		UserID:           userID,
		QuestionID:       questionID,
		Answer:           labels.String(),
		InsertedDatetime: time.Now(),
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "inserted_datetime"}),
	}).Create(&row).Error
}

// Delete 删除单题答案。幂等：行不存在不算错误。
func (r *AnswerRepository) Delete(userID string, questionID int64) error {
	return r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&model.UserAnswer{}).Error
}

// Reset 删除该用户全部答案。幂等。
func (r *AnswerRepository) Reset(userID string) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.UserAnswer{}).Error
}
