package service

import (
	"sync/atomic"

	"go.uber.org/zap"

	"snowpro_quiz_backend/internal/model"
	"snowpro_quiz_backend/pkg/logger"
	"snowpro_quiz_backend/pkg/monitoring"
)

// AnswerStore 答案表访问口，由 repository.AnswerRepository 实现
type AnswerStore interface {
	GetAnswers(userID string) (map[int64]model.LabelSet, error)
	Upsert(userID string, questionID int64, labels model.LabelSet) error
	Delete(userID string, questionID int64) error
	Reset(userID string) error
}

// FlagStore 难题/错题表访问口，由 repository.FlagRepository 实现
type FlagStore interface {
	Add(q *model.Question, flaggedBy string) error
}

// QuizService 测验引擎：当前页装配、答案对账、判分、翻页和重置。
type QuizService struct {
	cache    *QuestionCache
	answers  AnswerStore
	flags    FlagStore
	pageSize atomic.Int64
}

func NewQuizService(cache *QuestionCache, answers AnswerStore, flags FlagStore, pageSize int) *QuizService {
	s := &QuizService{cache: cache, answers: answers, flags: flags}
	s.SetPageSize(pageSize)
	return s
}

func (s *QuizService) PageSize() int {
	return int(s.pageSize.Load())
}

// SetPageSize 运行时调整每页题数（配置热更新入口），非法值忽略
func (s *QuizService) SetPageSize(n int) {
	if n > 0 {
		s.pageSize.Store(int64(n))
	}
}

// TotalPages 总页数。N = 0 时按一张空页处理，避免公式下溢。
func (s *QuizService) TotalPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total-1)/s.PageSize() + 1
}

// QuestionView 题目与该用户当前勾选的合并视图
type QuestionView struct {
	Question model.Question `json:"question"`
	Options  []model.Option `json:"options"`
	Selected model.LabelSet `json:"selected"`
}

// PageView 一次渲染需要的全部内容
type PageView struct {
	UserID       string         `json:"userId"`
	PageNumber   int            `json:"pageNumber"`
	TotalPages   int            `json:"totalPages"`
	Questions    []QuestionView `json:"questions"`
	Answered     int            `json:"answered"`
	Total        int            `json:"total"`
	ResetSuccess bool           `json:"resetSuccess,omitempty"`
	Verdict      *GradeResult   `json:"verdict,omitempty"`
}

// GradeResult SHOW ANSWER 的判分结果。只读展示，不落库。
type GradeResult struct {
	QuestionID    int64          `json:"questionId"`
	Correct       bool           `json:"correct"`
	Checked       model.LabelSet `json:"checked"`
	CorrectLabels model.LabelSet `json:"correctLabels,omitempty"`
	URL           string         `json:"url,omitempty"`
}

func (s *QuizService) ensureAnswers(sess *Session, userID string) error {
	if sess.answersReady() {
		return nil
	}
	return s.refreshAnswers(sess, userID)
}

// refreshAnswers 写库成功后整表重载会话缓存
func (s *QuizService) refreshAnswers(sess *Session, userID string) error {
	answers, err := s.answers.GetAnswers(userID)
	if err != nil {
		return err
	}
	sess.setAnswers(answers)
	return nil
}

// BuildPage 装配当前页：题目切片与会话缓存的答案合并，
// 并消费一次性标志（重置提示、判分结果）。
func (s *QuizService) BuildPage(sess *Session, userID string) (*PageView, error) {
	questions, err := s.cache.Questions()
	if err != nil {
		return nil, err
	}
	if err := s.ensureAnswers(sess, userID); err != nil {
		return nil, err
	}

	total := len(questions)
	totalPages := s.TotalPages(total)

	// 页大小热更新或题库 reload 后页码可能越界，渲染前夹回范围
	page := sess.PageNumber()
	if page > totalPages-1 {
		page = totalPages - 1
		sess.setPageNumber(page)
	}
	if page < 0 {
		page = 0
		sess.setPageNumber(0)
	}

	start := page * s.PageSize()
	end := start + s.PageSize()
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	views := make([]QuestionView, 0, end-start)
	for _, q := range questions[start:end] {
		views = append(views, QuestionView{
			Question: q,
			Options:  q.Options(),
			Selected: sess.AnswerFor(q.QuestionID),
		})
	}

	return &PageView{
		UserID:       userID,
		PageNumber:   page,
		TotalPages:   totalPages,
		Questions:    views,
		Answered:     sess.AnsweredCount(),
		Total:        total,
		ResetSuccess: sess.ConsumeResetSuccess(),
		Verdict:      sess.ConsumeVerdict(),
	}, nil
}

// Reconcile 单题对账：勾选集合与会话缓存中已存集合比较（集合相等），
// 不一致才写库——非空走 UPSERT，空集删行——随后整表重载缓存。
// 相等时不产生任何写（幂等渲染）。
//
// 对账基准刻意取会话缓存而非现读：同一用户开两个标签页时，
// 后渲染的标签页会以过期缓存覆盖前者（last-render-wins），与原有行为一致。
func (s *QuizService) Reconcile(sess *Session, userID string, questionID int64, checked model.LabelSet) error {
	if err := s.ensureAnswers(sess, userID); err != nil {
		return err
	}

	checked = model.NewLabelSet(checked...)
	stored := sess.AnswerFor(questionID)
	if checked.Equal(stored) {
		return nil
	}

	if !checked.IsEmpty() {
		if err := s.answers.Upsert(userID, questionID, checked); err != nil {
			return err
		}
		monitoring.AnswersSaved.Inc()
	} else {
		if err := s.answers.Delete(userID, questionID); err != nil {
			return err
		}
		monitoring.AnswersDeleted.Inc()
	}
	return s.refreshAnswers(sess, userID)
}

// ReconcilePage 对账当前页全部题目。表单里没出现的题按空集处理，
// 但只处理当前页切片内的题，翻走的页不受影响。
func (s *QuizService) ReconcilePage(sess *Session, userID string, checked map[int64]model.LabelSet) error {
	page, err := s.currentSlice(sess)
	if err != nil {
		return err
	}
	for _, q := range page {
		if err := s.Reconcile(sess, userID, q.QuestionID, checked[q.QuestionID]); err != nil {
			return err
		}
	}
	return nil
}

func (s *QuizService) currentSlice(sess *Session) ([]model.Question, error) {
	questions, err := s.cache.Questions()
	if err != nil {
		return nil, err
	}
	start := sess.PageNumber() * s.PageSize()
	end := start + s.PageSize()
	if start > len(questions) {
		start = len(questions)
	}
	if end > len(questions) {
		end = len(questions)
	}
	if start < 0 {
		start = 0
	}
	return questions[start:end], nil
}

// Grade 判分：正确集合与勾选集合严格相等才算对，不支持部分得分。
// 答错时带回正确集合和参考链接。建议答案为空或无法解析按空集处理。
func (s *QuizService) Grade(questionID int64, checked model.LabelSet) (*GradeResult, error) {
	q, err := s.cache.FindByID(questionID)
	if err != nil {
		return nil, err
	}

	checked = model.NewLabelSet(checked...)
	correct := q.CorrectSet()
	result := &GradeResult{
		QuestionID: questionID,
		Checked:    checked,
		// 正确集合为空说明建议答案数据有问题，确定性地判错
		Correct: !correct.IsEmpty() && checked.Equal(correct),
	}
	if !result.Correct {
		result.CorrectLabels = correct
		result.URL = q.URL
	}
	return result, nil
}

// Flag 把题目追加进难题/错题表。不去重。
func (s *QuizService) Flag(questionID int64, flaggedBy string) error {
	q, err := s.cache.FindByID(questionID)
	if err != nil {
		return err
	}
	if err := s.flags.Add(q, flaggedBy); err != nil {
		return err
	}
	monitoring.QuestionsFlagged.Inc()
	logger.Log.Info("question flagged",
		zap.Int64("questionId", questionID),
		zap.String("flaggedBy", flaggedBy))
	return nil
}

// Reset 删除该用户全部答案、清空会话缓存并点亮一次性成功标志
func (s *QuizService) Reset(sess *Session, userID string) error {
	if err := s.answers.Reset(userID); err != nil {
		return err
	}
	sess.clearAnswers()
	sess.markResetSuccess()
	monitoring.AnswersReset.Inc()
	logger.Log.Info("answers reset", zap.String("userId", userID))
	return nil
}

// Previous 上一页。已在第一页时是 no-op，不算错误。
func (s *QuizService) Previous(sess *Session) {
	if page := sess.PageNumber(); page > 0 {
		sess.setPageNumber(page - 1)
	}
}

// Next 下一页。已在最后一页时是 no-op。
func (s *QuizService) Next(sess *Session) error {
	questions, err := s.cache.Questions()
	if err != nil {
		return err
	}
	if page := sess.PageNumber(); page < s.TotalPages(len(questions))-1 {
		sess.setPageNumber(page + 1)
	}
	return nil
}

// Progress 已答题数 / 总题数
func (s *QuizService) Progress(sess *Session, userID string) (answered, total int, err error) {
	questions, err := s.cache.Questions()
	if err != nil {
		return 0, 0, err
	}
	if err := s.ensureAnswers(sess, userID); err != nil {
		return 0, 0, err
	}
	return sess.AnsweredCount(), len(questions), nil
}

// ReloadQuestions 管理入口：清掉题目缓存，下次渲染重新读库
func (s *QuizService) ReloadQuestions() {
	s.cache.Invalidate()
	logger.Log.Info("question cache invalidated")
}
