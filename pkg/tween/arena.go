package tween

import (
	"sort"

	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/types"
)

// ContributionID 子补间贡献的唯一标识符，0 保留为无效ID
type ContributionID uint64

// Contribution 一个子补间贡献
//
// Parent 是弱引用：父实体不持有子贡献，父实体被销毁后贡献在下一次
// 聚合时被丢弃。贡献自身的 Value 通常从 0 开始表示相对位移。
type Contribution struct {
	ID     ContributionID
	Parent ecs.EntityID
	Value  Value

	// Delta 本帧积分产生的位移，由积分阶段写入、聚合阶段读取
	Delta float64
	// Reached 本帧是否到达目标，由检测阶段写入、清理阶段读取
	Reached bool
}

// Key 贡献的索引键
type Key struct {
	Parent ecs.EntityID
	Axis   types.Axis
}

// Arena 管理所有活动的子补间贡献
// 以 (父实体, 轴) 为键，遍历顺序按贡献ID递增，保证每帧结果确定。
type Arena struct {
	nextID        uint64
	contributions map[ContributionID]*Contribution
	byKey         map[Key][]ContributionID
}

// NewArena 创建空的贡献集合
func NewArena() *Arena {
	return &Arena{
		nextID:        1,
		contributions: make(map[ContributionID]*Contribution),
		byKey:         make(map[Key][]ContributionID),
	}
}

// Add 添加一个贡献并返回其ID
func (a *Arena) Add(parent ecs.EntityID, value Value) ContributionID {
	id := ContributionID(a.nextID)
	a.nextID++

	a.contributions[id] = &Contribution{
		ID:     id,
		Parent: parent,
		Value:  value,
	}
	key := Key{Parent: parent, Axis: value.Axis}
	a.byKey[key] = append(a.byKey[key], id)
	return id
}

// Remove 直接删除贡献（不延迟）
func (a *Arena) Remove(id ContributionID) {
	c, ok := a.contributions[id]
	if !ok {
		return
	}
	delete(a.contributions, id)

	key := Key{Parent: c.Parent, Axis: c.Value.Axis}
	ids := a.byKey[key]
	for i, cid := range ids {
		if cid == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(a.byKey, key)
	} else {
		a.byKey[key] = ids
	}
}

// RemoveParent 删除某个父实体的全部贡献，返回删除数量
func (a *Arena) RemoveParent(parent ecs.EntityID) int {
	removed := 0
	for axis := types.Axis(0); axis < types.AxisCount; axis++ {
		key := Key{Parent: parent, Axis: axis}
		for _, id := range a.byKey[key] {
			delete(a.contributions, id)
			removed++
		}
		delete(a.byKey, key)
	}
	return removed
}

// Has 检查 (父实体, 轴) 是否存在活动贡献
func (a *Arena) Has(parent ecs.EntityID, axis types.Axis) bool {
	return len(a.byKey[Key{Parent: parent, Axis: axis}]) > 0
}

// For 返回 (父实体, 轴) 下的全部贡献，按ID递增
func (a *Arena) For(parent ecs.EntityID, axis types.Axis) []*Contribution {
	ids := a.byKey[Key{Parent: parent, Axis: axis}]
	result := make([]*Contribution, 0, len(ids))
	for _, id := range ids {
		result = append(result, a.contributions[id])
	}
	return result
}

// All 返回全部贡献，按ID递增
func (a *Arena) All() []*Contribution {
	result := make([]*Contribution, 0, len(a.contributions))
	for _, c := range a.contributions {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Keys 返回所有存在贡献的键，按父实体、轴排序
func (a *Arena) Keys() []Key {
	keys := make([]Key, 0, len(a.byKey))
	for k := range a.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Parent != keys[j].Parent {
			return keys[i].Parent < keys[j].Parent
		}
		return keys[i].Axis < keys[j].Axis
	})
	return keys
}

// Len 活动贡献数量
func (a *Arena) Len() int {
	return len(a.contributions)
}
