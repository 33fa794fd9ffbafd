package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SequenceRecord 已完成序列的持久化记录
// 只记录"看过哪些序列"，补间与步骤运行时状态从不持久化
type SequenceRecord struct {
	Completed []string `yaml:"completed"` // 已完成的序列ID（升序）
}

// SequenceProgressStore 已完成序列存储
// 用于让看过一次的过场动画可以被跳过
type SequenceProgressStore struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	completed    map[string]bool
}

// 存储路径常量
const (
	sequenceObject   = "sequences"
	sequenceProperty = "completed"
)

// NewSequenceProgressStore 创建存储实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存记录）
//
// 返回：
//   - *SequenceProgressStore: 存储实例（加载失败不影响创建）
func NewSequenceProgressStore(gdataManager *gdata.Manager) *SequenceProgressStore {
	s := &SequenceProgressStore{
		gdataManager: gdataManager,
		completed:    make(map[string]bool),
	}

	if err := s.Load(); err != nil {
		// 加载失败不是致命错误，从空记录开始
		log.Printf("[SequenceProgressStore] Warning: Failed to load records: %v (starting empty)", err)
	}

	return s
}

// Load 从 gdata 加载记录
//
// 如果 gdataManager 为 nil 或记录不存在，保持空记录
func (s *SequenceProgressStore) Load() error {
	s.completed = make(map[string]bool)

	// 降级模式：无法持久化
	if s.gdataManager == nil {
		return nil
	}

	if !s.gdataManager.ObjectPropExists(sequenceObject, sequenceProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(sequenceObject, sequenceProperty)
	if err != nil {
		return fmt.Errorf("failed to load sequence records: %w", err)
	}

	var record SequenceRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to unmarshal sequence records: %w", err)
	}

	for _, id := range record.Completed {
		s.completed[id] = true
	}
	log.Printf("[SequenceProgressStore] Loaded %d completed sequences", len(s.completed))
	return nil
}

// Save 保存记录到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (s *SequenceProgressStore) Save() error {
	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(&SequenceRecord{Completed: s.CompletedIDs()})
	if err != nil {
		return fmt.Errorf("failed to marshal sequence records: %w", err)
	}

	if err := s.gdataManager.SaveObjectProp(sequenceObject, sequenceProperty, data); err != nil {
		return fmt.Errorf("failed to save sequence records: %w", err)
	}

	return nil
}

// MarkCompleted 记录序列已完成并立即保存
func (s *SequenceProgressStore) MarkCompleted(sequenceID string) error {
	if s.completed[sequenceID] {
		return nil
	}
	s.completed[sequenceID] = true
	return s.Save()
}

// HasCompleted 序列是否曾经完成
func (s *SequenceProgressStore) HasCompleted(sequenceID string) bool {
	return s.completed[sequenceID]
}

// CompletedIDs 返回已完成的序列ID（升序）
func (s *SequenceProgressStore) CompletedIDs() []string {
	ids := make([]string, 0, len(s.completed))
	for id := range s.completed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
