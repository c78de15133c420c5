package service

import (
	"sync"

	"snowpro_quiz_backend/internal/model"
	"snowpro_quiz_backend/internal/util"
)

// QuestionLoader 题库读取口，由 repository.QuestionRepository 实现
type QuestionLoader interface {
	ListVisible() ([]model.Question, error)
}

// QuestionCache 进程级题目缓存：首次访问加载一次，之后常驻内存。
// 题库由上游离线维护，没有失效通知，默认口径是"改库后手动 reload 或重启"，
// Invalidate 是留给管理接口和后续 TTL 策略的入口。
type QuestionCache struct {
	loader QuestionLoader

	mu        sync.RWMutex
	questions []model.Question
	loaded    bool
}

func NewQuestionCache(loader QuestionLoader) *QuestionCache {
	return &QuestionCache{loader: loader}
}

// Questions 读穿缓存：命中直接返回，未命中加载一次。
// 加载失败不缓存错误，下次访问重试。
func (c *QuestionCache) Questions() ([]model.Question, error) {
	c.mu.RLock()
	if c.loaded {
		qs := c.questions
		c.mu.RUnlock()
		return qs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.questions, nil
	}
	qs, err := c.loader.ListVisible()
	if err != nil {
		return nil, err
	}
	c.questions = qs
	c.loaded = true
	return qs, nil
}

// FindByID 在缓存中按题目 ID 查找
func (c *QuestionCache) FindByID(id int64) (*model.Question, error) {
	qs, err := c.Questions()
	if err != nil {
		return nil, err
	}
	for i := range qs {
		if qs[i].QuestionID == id {
			return &qs[i], nil
		}
	}
	return nil, util.ErrQuestionNotFound
}

// Invalidate 清空缓存，下一次访问重新加载
func (c *QuestionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.questions = nil
	c.loaded = false
}
