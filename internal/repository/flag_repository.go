package repository

import (
	"snowpro_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type FlagRepository struct {
	DB *gorm.DB
}

func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{DB: db}
}

// Add 追加一条难题/错题记录。不去重：重复标记本身就是有效信号。
func (r *FlagRepository) Add(q *model.Question, flaggedBy string) error {
	return r.DB.Create(model.NewFlaggedQuestion(q, flaggedBy)).Error
}
