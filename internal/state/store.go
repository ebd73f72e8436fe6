package state

import (
	"sync"
	"time"

	"salesdash/internal/calculator"
	"salesdash/internal/model"
)

// DefaultErrorTTL 错误提示自动消失时间
const DefaultErrorTTL = 5 * time.Second

// Snapshot 看板状态快照（只读，整体替换）
type Snapshot struct {
	Version      uint64              `json:"version"`
	Records      []model.SalesRecord `json:"records"`
	KPIs         model.KPIMetrics    `json:"kpis"`
	IsCustomData bool                `json:"isCustomData"`
	Language     model.Language      `json:"language"`
	Error        string              `json:"error,omitempty"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Store 看板状态容器，唯一写入者，每次事件产生新的快照
type Store struct {
	mu       sync.RWMutex
	current  *Snapshot
	defaults func() []model.SalesRecord
	errorTTL time.Duration

	dismiss  *time.Timer
	errorGen uint64
}

// NewStore 创建状态容器并加载默认数据集
func NewStore(lang model.Language, errorTTL time.Duration, defaults func() []model.SalesRecord) *Store {
	if errorTTL <= 0 {
		errorTTL = DefaultErrorTTL
	}
	if !lang.Valid() {
		lang = model.LanguageRU
	}

	records := defaults()
	s := &Store{
		defaults: defaults,
		errorTTL: errorTTL,
		current: &Snapshot{
			Version:   1,
			Records:   records,
			KPIs:      calculator.CalculateKPIs(records),
			Language:  lang,
			UpdatedAt: time.Now(),
		},
	}
	return s
}

// Snapshot 获取当前快照
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load 用上传的数据替换记录集，并清除错误提示
func (s *Store) Load(records []model.SalesRecord) *Snapshot {
	owned := append([]model.SalesRecord(nil), records...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelDismissLocked()
	return s.replaceLocked(func(next *Snapshot) {
		next.Records = owned
		next.KPIs = calculator.CalculateKPIs(owned)
		next.IsCustomData = true
		next.Error = ""
	})
}

// Reset 恢复默认数据集
func (s *Store) Reset() *Snapshot {
	records := s.defaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelDismissLocked()
	return s.replaceLocked(func(next *Snapshot) {
		next.Records = records
		next.KPIs = calculator.CalculateKPIs(records)
		next.IsCustomData = false
		next.Error = ""
	})
}

// Fail 设置错误提示（记录集保持不变），到期自动清除
func (s *Store) Fail(message string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelDismissLocked()
	gen := s.errorGen
	s.dismiss = time.AfterFunc(s.errorTTL, func() { s.dismissError(gen) })

	return s.replaceLocked(func(next *Snapshot) {
		next.Error = message
	})
}

// SetLanguage 切换界面语言；不影响错误提示的倒计时
func (s *Store) SetLanguage(lang model.Language) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !lang.Valid() || s.current.Language == lang {
		return s.current
	}
	return s.replaceLocked(func(next *Snapshot) {
		next.Language = lang
	})
}

// ToggleLanguage ru <-> en
func (s *Store) ToggleLanguage() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lang := s.current.Language.Toggle()
	return s.replaceLocked(func(next *Snapshot) {
		next.Language = lang
	})
}

// Close 停止待执行的定时任务
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelDismissLocked()
}

func (s *Store) dismissError(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.errorGen || s.current.Error == "" {
		return
	}
	s.dismiss = nil
	s.replaceLocked(func(next *Snapshot) {
		next.Error = ""
	})
}

// cancelDismissLocked 使已安排的清除任务失效
func (s *Store) cancelDismissLocked() {
	s.errorGen++
	if s.dismiss != nil {
		s.dismiss.Stop()
		s.dismiss = nil
	}
}

func (s *Store) replaceLocked(mutate func(next *Snapshot)) *Snapshot {
	next := *s.current
	mutate(&next)
	next.Version = s.current.Version + 1
	next.UpdatedAt = time.Now()
	s.current = &next
	return s.current
}
