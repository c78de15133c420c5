package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"snowpro_quiz_backend/internal/model"
)

// Session 单个浏览器会话的进程内状态：当前页码、答案缓存和一次性标志。
// 只存活于进程内，跨会话仅答案表持久。不跨用户共享。
type Session struct {
	ID string

	mu            sync.Mutex
	pageNumber    int
	answers       map[int64]model.LabelSet
	answersLoaded bool
	resetSuccess  bool
	verdict       *GradeResult
	lastSeen      time.Time
}

func newSession(id string) *Session {
	return &Session{ID: id, lastSeen: time.Now()}
}

func (s *Session) PageNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageNumber
}

func (s *Session) setPageNumber(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageNumber = n
}

// AnswerFor 会话缓存中该题的已存集合；没有记录返回空集
func (s *Session) AnswerFor(questionID int64) model.LabelSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[questionID]
}

// AnsweredCount 已作答题数（以会话缓存为准）
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Session) answersReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answersLoaded
}

// setAnswers 整体替换答案缓存。写库成功后必须整表重载，不做增量合并。
func (s *Session) setAnswers(answers map[int64]model.LabelSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if answers == nil {
		answers = map[int64]model.LabelSet{}
	}
	s.answers = answers
	s.answersLoaded = true
}

func (s *Session) clearAnswers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = map[int64]model.LabelSet{}
	s.answersLoaded = true
}

func (s *Session) markResetSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetSuccess = true
}

// ConsumeResetSuccess 一次性读取重置成功标志：返回后立即清掉，
// 下一次渲染不会再出现。
func (s *Session) ConsumeResetSuccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.resetSuccess
	s.resetSuccess = false
	return v
}

// SetVerdict 暂存 SHOW ANSWER 的判分结果，供紧接着的一次渲染显示
func (s *Session) SetVerdict(v *GradeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdict = v
}

// ConsumeVerdict 一次性读取 SHOW ANSWER 的判分结果
func (s *Session) ConsumeVerdict() *GradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.verdict
	s.verdict = nil
	return v
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// SessionStore 进程内会话表，按 cookie 里的会话 ID 索引。
// 过期会话由后台定时清理。
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	store := &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
	go store.cleanupLoop()
	return store
}

// GetOrCreate 取会话；ID 为空或未知时创建新会话并返回
func (st *SessionStore) GetOrCreate(id string) *Session {
	if id != "" {
		st.mu.RLock()
		s, ok := st.sessions[id]
		st.mu.RUnlock()
		if ok {
			s.touch()
			return s
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if id != "" {
		if s, ok := st.sessions[id]; ok {
			s.touch()
			return s
		}
	}
	s := newSession(uuid.New().String())
	st.sessions[s.ID] = s
	return s
}

func (st *SessionStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		st.mu.Lock()
		for id, s := range st.sessions {
			s.mu.Lock()
			expired := time.Since(s.lastSeen) > st.ttl
			s.mu.Unlock()
			if expired {
				delete(st.sessions, id)
			}
		}
		st.mu.Unlock()
	}
}
