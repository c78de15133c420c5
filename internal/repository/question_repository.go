package repository

import (
	"snowpro_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListVisible 返回所有可见题目（is_showed = 'Y'），按 question_id 排序。
func (r *QuestionRepository) ListVisible() ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("is_showed = ?", "Y").Order("question_id asc").Find(&qs).Error
	return qs, err
}
